package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Show prints recently archived releases for a dataset.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	if _, err := a.Config.Dataset(opts.Dataset); err != nil {
		return err
	}

	archive, closeArchive, err := a.openArchive(ctx)
	if err != nil {
		return err
	}
	if archive == nil {
		return errors.New("database not configured; cannot show archived releases")
	}
	defer closeArchive()

	releases, err := archive.ListRecentReleases(ctx, opts.Dataset, opts.Limit)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Fprintln(os.Stdout, "no archived releases found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Period\tRelease Date\tArchived (UTC)\tHeadline")

	for _, release := range releases {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			release.ReferencePeriod,
			release.ReleaseDate,
			release.CreatedAt.UTC().Format(time.RFC3339),
			sanitizeInline(release.Headline),
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
