package workflow

import (
	"errors"
	"fmt"
)

var ErrIllegalTransition = errors.New("illegal transition")

// TransitionError reports an event the current state does not accept.
type TransitionError struct {
	From   Stage
	Event  string
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s on %s: %s", ErrIllegalTransition, e.Event, e.From, e.Reason)
	}

	return fmt.Sprintf("%s: %s on %s", ErrIllegalTransition, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// IsIllegalTransition reports whether err is a rejected transition.
func IsIllegalTransition(err error) bool {
	return errors.Is(err, ErrIllegalTransition)
}

func illegal(state State, event Event, reason string) error {
	return &TransitionError{From: state.Stage(), Event: event.Name(), Reason: reason}
}

// Transition returns the state that follows state on event. On error the
// returned state is state itself.
func Transition(state State, event Event) (State, error) {
	var (
		next State
		err  error
	)

	switch s := state.(type) {
	case Input:
		next, err = fromInput(s, event)
	case GateA:
		next, err = fromGateA(s, event)
	case GateB:
		next, err = fromGateB(s, event)
	case Result:
		next, err = fromResult(s, event)
	case ConfirmRollback:
		next, err = fromConfirmRollback(s, event)
	default:
		err = fmt.Errorf("%w: unknown state %T", ErrIllegalTransition, state)
	}

	if err != nil {
		return state, err
	}

	return next, nil
}

func fromInput(s Input, event Event) (State, error) {
	e, ok := event.(IntentAnalyzed)
	if !ok {
		return nil, illegal(s, event, "")
	}

	if len(e.Analysis.Opportunities) == 0 {
		return nil, illegal(s, event, "analysis has no opportunities")
	}

	return GateA{Request: e.Request, Analysis: e.Analysis}, nil
}

func fromGateA(s GateA, event Event) (State, error) {
	switch e := event.(type) {
	case OpportunitySelected:
		if e.Index < 0 || e.Index >= len(s.Analysis.Opportunities) {
			return nil, illegal(s, event, fmt.Sprintf("index %d is out of range", e.Index))
		}

		s.Selected = index(e.Index)
		s.Verdict = nil

		return s, nil
	case OpportunityReviewed:
		if s.Selected == nil || *s.Selected != e.Index {
			return nil, illegal(s, event, "verdict is not for the selected opportunity")
		}

		s.Verdict = verdict(e.Verdict)

		return s, nil
	case TemplatesProposed:
		if !s.Approved() {
			return nil, illegal(s, event, "the selected opportunity is not approved")
		}

		if len(e.Proposal.Templates) == 0 {
			return nil, illegal(s, event, "proposal has no templates")
		}

		return GateB{GateA: s, Proposal: e.Proposal}, nil
	case CandidateRejected:
		s.Selected = nil
		s.Verdict = nil

		return s, nil
	case BackRequested:
		return Input{Request: s.Request}, nil
	default:
		return nil, illegal(s, event, "")
	}
}

func fromGateB(s GateB, event Event) (State, error) {
	switch e := event.(type) {
	case TemplateSelected:
		if e.Index < 0 || e.Index >= len(s.Proposal.Templates) {
			return nil, illegal(s, event, fmt.Sprintf("index %d is out of range", e.Index))
		}

		s.Selected = index(e.Index)
		s.Verdict = nil

		return s, nil
	case TemplateReviewed:
		if s.Selected == nil || *s.Selected != e.Index {
			return nil, illegal(s, event, "verdict is not for the selected template")
		}

		s.Verdict = verdict(e.Verdict)

		return s, nil
	case ContentGenerated:
		if !s.Approved() {
			return nil, illegal(s, event, "the selected template is not approved")
		}

		return Result{GateB: s, Draft: e.Draft}, nil
	case CandidateRejected:
		s.Selected = nil
		s.Verdict = nil

		return s, nil
	case BackRequested:
		return ConfirmRollback{From: s}, nil
	default:
		return nil, illegal(s, event, "")
	}
}

func fromResult(s Result, event Event) (State, error) {
	if s.Published() {
		return nil, illegal(s, event, "already published as "+s.BundleID)
	}

	switch e := event.(type) {
	case ContentReviewed:
		s.Verdict = verdict(e.Verdict)
		s.Hint = ""

		if !e.Verdict.Approved {
			s.Hint = e.Verdict.SuggestedFix
		}

		return s, nil
	case ContentRegenerated:
		return Result{GateB: s.GateB, Draft: e.Draft, Hint: s.Hint}, nil
	case Published:
		if !s.Approved() {
			return nil, illegal(s, event, "the draft is not approved")
		}

		if e.BundleID == "" {
			return nil, illegal(s, event, "empty bundle id")
		}

		s.BundleID = e.BundleID

		return s, nil
	case CandidateRejected:
		s.Verdict = nil

		return s, nil
	case BackRequested:
		return ConfirmRollback{From: s}, nil
	default:
		return nil, illegal(s, event, "")
	}
}

func fromConfirmRollback(s ConfirmRollback, event Event) (State, error) {
	switch event.(type) {
	case BackConfirmed:
		switch from := s.From.(type) {
		case GateB:
			gate := from.GateA
			gate.Verdict = nil

			return gate, nil
		case Result:
			gate := from.GateB
			gate.Verdict = nil

			return gate, nil
		default:
			return nil, illegal(s, event, "nothing to roll back to")
		}
	case BackCancelled:
		return s.From, nil
	default:
		return nil, illegal(s, event, "")
	}
}
