package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dkoval/jobpilot/internal/services"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <postings.json>",
	Short: "Store scraped postings from a JSON file, skipping duplicates",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		postings, err := readPostings(args[0])
		if err != nil {
			return err
		}

		result, err := services.NewIngester(a.jobs).Ingest(ctx, postings)
		if err != nil {
			return err
		}

		fmt.Printf("inserted: %d, duplicates: %d, skipped: %d\n",
			result.Inserted, result.Duplicates, result.Skipped)
		return nil
	}),
}

func readPostings(path string) ([]services.RawPosting, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", path)
	}

	var postings []services.RawPosting
	if err = json.Unmarshal(data, &postings); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %v", path)
	}
	return postings, nil
}
