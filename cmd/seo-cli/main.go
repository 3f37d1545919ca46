package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/client"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/render"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:                  "seo-cli",
		Usage:                 "Walk a keyword through the SEO decision pipeline",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the SEO decision engine API",
				Value:   "http://localhost:3000",
				Sources: cli.EnvVars("SEO_API_URL"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Value sent as X-API-Key",
				Sources: cli.EnvVars("API_SECRET"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Per-request timeout",
				Value:   client.DefaultTimeout,
				Sources: cli.EnvVars("SEO_API_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "Analyze a keyword and walk it through every gate",
				ArgsUsage: "<keyword>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "location",
						Usage: "Location to localize the content for",
					},
					&cli.StringFlag{
						Name:  "business-type",
						Usage: "Kind of business the content is for",
					},
					&cli.BoolFlag{
						Name:  "auto",
						Usage: "Pick the first candidate at each gate and regenerate rejected drafts",
					},
					&cli.IntFlag{
						Name:  "max-regenerations",
						Usage: "Regenerations allowed in auto mode before giving up",
						Value: 2,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					keyword := strings.Join(command.Args().Slice(), " ")
					if keyword == "" {
						return errors.New("a keyword is required")
					}

					ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
					defer stop()

					controller := workflow.NewController(newClient(command), log.WithModule("cli"))
					s := newSession(controller, os.Stdin, os.Stdout, command.Bool("auto"), command.Int("max-regenerations"))

					bundle, err := s.run(ctx, models.IntentRequest{
						Keyword:      keyword,
						Location:     command.String("location"),
						BusinessType: command.String("business-type"),
					})
					if err != nil {
						return err
					}

					fmt.Println(okStyle.Render("Published " + bundle.ID))

					return nil
				},
			},
			{
				Name:    "results",
				Aliases: []string{"res"},
				Usage:   "Inspect published bundles",
				Commands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List published bundles, newest first",
						Action: func(ctx context.Context, command *cli.Command) error {
							return listResults(ctx, newClient(command), os.Stdout)
						},
					},
					{
						Name:      "get",
						Usage:     "Print one bundle",
						ArgsUsage: "<id>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "format",
								Aliases: []string{"f"},
								Usage:   "Output format (json, yaml, markdown, html)",
								Value:   string(render.FormatMarkdown),
							},
						},
						Action: func(ctx context.Context, command *cli.Command) error {
							id := command.Args().First()
							if id == "" {
								return errors.New("a bundle id is required")
							}

							return getResult(ctx, newClient(command), os.Stdout, id, render.Format(command.String("format")))
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newClient(command *cli.Command) *client.Client {
	opts := []client.Option{client.WithTimeout(command.Duration("timeout"))}

	if key := command.String("api-key"); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}

	return client.New(command.String("api-url"), opts...)
}
