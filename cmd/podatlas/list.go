package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/podatlas/podatlas/internal/config"
	"github.com/podatlas/podatlas/internal/corpus"
	"github.com/spf13/pflag"
)

// runList loads the built artifact and renders an episode table.
func runList(flags *pflag.FlagSet, out io.Writer) error {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := config.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	index, err := corpus.LoadIndex(settings.Corpus.OutputDir)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Title", "Themes", "Related"})

	for _, episode := range index.Episodes {
		t.AppendRow(table.Row{
			episode.ID,
			episode.Title,
			strings.Join(episode.Themes, ", "),
			len(episode.RelatedEpisodes),
		})
	}

	t.AppendFooter(table.Row{"", "", "Total", index.TotalEpisodes})
	t.SetStyle(table.StyleLight)
	t.Render()

	return nil
}
