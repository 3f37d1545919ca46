package main

import (
	"context"
	"fmt"
	"io"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/render"
)

type resultReader interface {
	ListResults(ctx context.Context) ([]models.BundleSummary, error)
	GetResult(ctx context.Context, id string) (*models.ResultBundle, error)
}

func listResults(ctx context.Context, api resultReader, out io.Writer) error {
	summaries, err := api.ListResults(ctx)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if len(summaries) == 0 {
		_, err = fmt.Fprintln(out, mutedStyle.Render("no published bundles"))

		return err
	}

	for _, summary := range summaries {
		_, err = fmt.Fprintf(out, "%s  %s  %s\n",
			titleStyle.Render(summary.ID),
			mutedStyle.Render(summary.PublishedAt.Format("2006-01-02 15:04")),
			summary.Title)
		if err != nil {
			return err
		}
	}

	return nil
}

func getResult(ctx context.Context, api resultReader, out io.Writer, id string, format render.Format) error {
	bundle, err := api.GetResult(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get result %s: %w", id, err)
	}

	if bundle == nil {
		return fmt.Errorf("result %s not found", id)
	}

	data, err := render.Bundle(bundle, format)
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out)

	return err
}
