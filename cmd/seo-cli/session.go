package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/client"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/workflow"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var (
	errQuit      = errors.New("aborted by user")
	errExhausted = errors.New("every candidate was rejected")
)

const maxRetries = 2

// session drives a workflow.Controller from a terminal. In auto mode it
// picks the first candidate, moves to the next one on rejection, and
// regenerates rejected drafts up to maxRegenerations times.
type session struct {
	controller       *workflow.Controller
	in               *bufio.Scanner
	out              io.Writer
	auto             bool
	maxRegenerations int
	regenerations    int
}

func newSession(controller *workflow.Controller, in io.Reader, out io.Writer, auto bool, maxRegenerations int) *session {
	return &session{
		controller:       controller,
		in:               bufio.NewScanner(in),
		out:              out,
		auto:             auto,
		maxRegenerations: maxRegenerations,
	}
}

// run walks the pipeline from req to a published bundle.
func (s *session) run(ctx context.Context, req models.IntentRequest) (*models.ResultBundle, error) {
	s.printf("%s\n", titleStyle.Render("Analyzing "+strconv.Quote(req.Keyword)))

	err := s.step(ctx, func(ctx context.Context) error {
		return s.controller.Start(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	for {
		var bundle *models.ResultBundle

		switch state := s.controller.State().(type) {
		case workflow.Input:
			err = s.input(ctx, state)
		case workflow.GateA:
			err = s.gateA(ctx, state)
		case workflow.GateB:
			err = s.gateB(ctx, state)
		case workflow.Result:
			bundle, err = s.result(ctx, state)
		case workflow.ConfirmRollback:
			err = s.confirmRollback(state)
		}

		if err != nil {
			return nil, err
		}

		if bundle != nil {
			return bundle, nil
		}
	}
}

func (s *session) input(ctx context.Context, state workflow.Input) error {
	keyword, err := s.ask(fmt.Sprintf("Keyword [%s]: ", state.Request.Keyword))
	if err != nil {
		return err
	}

	req := state.Request
	if keyword != "" {
		req.Keyword = keyword
	}

	return s.step(ctx, func(ctx context.Context) error {
		return s.controller.Start(ctx, req)
	})
}

func (s *session) gateA(ctx context.Context, state workflow.GateA) error {
	opportunities := state.Analysis.Opportunities

	switch {
	case state.Selected == nil:
		s.printf("\n%s %s\n%s\n", sectionStyle.Render("Opportunities"),
			mutedStyle.Render("("+string(state.Analysis.PrimaryIntent)+" intent)"), state.Analysis.Summary)

		for i, o := range opportunities {
			s.printf("  %d. %s %s\n     %s\n", i, o.Title, mutedStyle.Render("["+string(o.Confidence)+"]"), o.Description)
		}

		index, err := s.choose(len(opportunities))
		if err != nil {
			return err
		}

		if index < 0 {
			return s.controller.Back()
		}

		return s.controller.SelectOpportunity(index)
	case state.Verdict == nil:
		return s.step(ctx, s.controller.ReviewOpportunity)
	case state.Verdict.Approved:
		s.printf("%s\n", okStyle.Render("Opportunity approved"))

		return s.step(ctx, s.controller.ProposeTemplates)
	default:
		s.rejected(*state.Verdict)

		return s.nextCandidate(*state.Selected, len(opportunities), s.controller.SelectOpportunity)
	}
}

func (s *session) gateB(ctx context.Context, state workflow.GateB) error {
	templates := state.Proposal.Templates

	switch {
	case state.Selected == nil:
		s.printf("\n%s\n", sectionStyle.Render("Templates"))

		for i, t := range templates {
			s.printf("  %d. %s %s\n     %s\n", i, t.Name,
				mutedStyle.Render(fmt.Sprintf("[%d sections, ~%d words]", len(t.Sections), t.TargetWordCount)), t.Description)
		}

		index, err := s.choose(len(templates))
		if err != nil {
			return err
		}

		if index < 0 {
			return s.controller.Back()
		}

		return s.controller.SelectTemplate(index)
	case state.Verdict == nil:
		return s.step(ctx, s.controller.ReviewTemplate)
	case state.Verdict.Approved:
		s.printf("%s\n", okStyle.Render("Template approved"))

		return s.step(ctx, s.controller.GenerateContent)
	default:
		s.rejected(*state.Verdict)

		return s.nextCandidate(*state.Selected, len(templates), s.controller.SelectTemplate)
	}
}

func (s *session) result(ctx context.Context, state workflow.Result) (*models.ResultBundle, error) {
	switch {
	case state.Verdict == nil:
		s.printf("\n%s\n%s\n", sectionStyle.Render("Draft: "+state.Draft.Title), mutedStyle.Render(state.Draft.MetaDescription))

		return nil, s.step(ctx, s.controller.ReviewContent)
	case state.Verdict.Approved:
		s.printf("%s\n", okStyle.Render("Draft approved"))

		var bundle *models.ResultBundle

		err := s.step(ctx, func(ctx context.Context) error {
			var err error

			bundle, err = s.controller.Publish(ctx)

			return err
		})

		return bundle, err
	default:
		s.rejected(*state.Verdict)

		if s.auto {
			if s.regenerations >= s.maxRegenerations {
				return nil, fmt.Errorf("draft still rejected after %d regenerations", s.regenerations)
			}

			s.regenerations++

			return nil, s.step(ctx, s.controller.Regenerate)
		}

		answer, err := s.ask("[r]egenerate, [b]ack or [q]uit: ")
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(answer) {
		case "r", "":
			return nil, s.step(ctx, s.controller.Regenerate)
		case "b":
			return nil, s.controller.Back()
		default:
			return nil, errQuit
		}
	}
}

func (s *session) confirmRollback(state workflow.ConfirmRollback) error {
	answer, err := s.ask(fmt.Sprintf("Going back from %s discards later work. Continue? [y/N]: ", state.From.Stage()))
	if err != nil {
		return err
	}

	if strings.EqualFold(answer, "y") {
		return s.controller.ConfirmBack()
	}

	return s.controller.CancelBack()
}

// nextCandidate moves past a rejected candidate: the next index in auto
// mode, a fresh choice otherwise.
func (s *session) nextCandidate(current, count int, selectIndex func(int) error) error {
	if !s.auto {
		return s.controller.RejectCandidate()
	}

	if current+1 >= count {
		return errExhausted
	}

	return selectIndex(current + 1)
}

func (s *session) rejected(verdict models.ApprovalResult) {
	s.printf("%s\n", errStyle.Render("Rejected: "+strings.Join(verdict.Reasons, "; ")))

	if len(verdict.RiskFlags) > 0 {
		s.printf("%s\n", mutedStyle.Render("Risk flags: "+strings.Join(verdict.RiskFlags, ", ")))
	}

	if verdict.SuggestedFix != "" {
		s.printf("%s\n", mutedStyle.Render("Suggested fix: "+verdict.SuggestedFix))
	}
}

// step runs a stage call and offers retries when it fails. A rate limited
// call waits out Retry-After first.
func (s *session) step(ctx context.Context, call func(context.Context) error) error {
	err := call(ctx)

	for attempt := 0; err != nil; attempt++ {
		if workflow.IsIllegalTransition(err) {
			return err
		}

		s.printf("%s\n", errStyle.Render(err.Error()))

		if errors.Is(err, client.ErrClientTimeout) {
			s.printf("%s\n", mutedStyle.Render("the API did not answer in time and may still be working; raise --timeout if this repeats"))
		}

		if !s.retry(attempt) {
			return err
		}

		if wait := failure.RetryAfterOf(err); wait > 0 {
			s.printf("%s\n", mutedStyle.Render("waiting "+wait.String()))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err = s.controller.Retry(ctx)
	}

	return nil
}

func (s *session) retry(attempt int) bool {
	if s.auto {
		return attempt < maxRetries
	}

	answer, err := s.ask("Retry? [Y/n]: ")

	return err == nil && !strings.EqualFold(answer, "n")
}

// choose returns the picked index, or -1 for back. Auto mode picks 0.
func (s *session) choose(count int) (int, error) {
	if s.auto {
		return 0, nil
	}

	for {
		answer, err := s.ask(fmt.Sprintf("Pick 0-%d, [b]ack or [q]uit: ", count-1))
		if err != nil {
			return 0, err
		}

		switch strings.ToLower(answer) {
		case "b":
			return -1, nil
		case "q":
			return 0, errQuit
		}

		index, err := strconv.Atoi(answer)
		if err == nil && index >= 0 && index < count {
			return index, nil
		}

		s.printf("%s\n", errStyle.Render("not a valid choice"))
	}
}

func (s *session) ask(prompt string) (string, error) {
	s.printf("%s", prompt)

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}

		return "", errQuit
	}

	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
