package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go-multisite-scraper/internal/models"
)

// printReport writes the end-of-run summary for the terminal.
func printReport(w io.Writer, r models.Report) {
	fmt.Fprintln(w, "\n📊 Run summary")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range r.Sites {
		status := "ok"
		if s.Error != "" {
			status = s.Error
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", s.Site, s.Records, s.Duration.Round(time.Millisecond), status)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Merged records: %d (added %d, updated %d, kept %d)\n", r.Merged, r.Added, r.Updated, r.Kept)
	if r.SpreadsheetError != "" {
		fmt.Fprintf(w, "Spreadsheet: not written (%s)\n", r.SpreadsheetError)
	} else {
		fmt.Fprintf(w, "Spreadsheet: %d rows -> %s\n", r.SpreadsheetRows, r.SpreadsheetPath)
	}
	if r.DBEnabled {
		fmt.Fprintf(w, "Database: %d/%d rows upserted", r.DBSucceeded, r.DBAttempted)
		if r.DBFailedBatches > 0 {
			fmt.Fprintf(w, ", %d failed batches", r.DBFailedBatches)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Database: skipped")
	}

	if len(r.Preview) == 0 {
		fmt.Fprintln(w, "ℹ️ No jobs to show.")
		return
	}
	fmt.Fprintf(w, "\nFirst %d jobs:\n", len(r.Preview))
	for i, job := range r.Preview {
		fmt.Fprintf(w, "  %d. [%s] %s | %s | %s\n", i+1, job.Source, job.Title, job.Location, job.Link)
	}
}
