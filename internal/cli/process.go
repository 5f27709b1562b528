package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/bibtidy/internal/engine"
)

var (
	processTable   string
	processOut     string
	processPrefix  string
	processNoAbbr  bool
	processNoClean bool
	processDryRun  bool
	processQuiet   bool
)

var processCmd = &cobra.Command{
	Use:     "process <file.bib> [file.bib...]",
	Aliases: []string{"run"},
	Short:   "Abbreviate journal names and drop redundant doi fields",
	Long: `Process one or more BibTeX files.

For every entry that has both a url and a doi field, the doi line is removed.
Full journal names are then replaced by their abbreviations from the lookup
table. The result is written next to the input as <prefix><name> (default
prefix "processed_"); the input file is never modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if processOut != "" && len(args) > 1 {
			return fmt.Errorf("--out can only be used with a single input file")
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		settings := eng.Settings()

		ctx := context.Background()
		results := make([]*engine.ProcessResult, 0, len(args))
		for _, input := range args {
			req := &engine.ProcessRequest{
				InputPath:      input,
				OutputPath:     processOut,
				OutputPrefix:   processPrefix,
				TablePath:      processTable,
				Abbreviate:     settings.Abbreviate && !processNoAbbr,
				CleanConflicts: settings.CleanConflicts && !processNoClean,
				DryRun:         processDryRun,
			}

			var bar *progressBar
			if !processQuiet && !jsonOutput && req.Abbreviate {
				bar = newProgressBar(stderr, filepath.Base(input))
				req.Progress = bar.Update
			}

			result, err := eng.Process(ctx, req)
			if bar != nil {
				bar.Done()
			}
			if err != nil {
				return err
			}
			results = append(results, result)

			if !jsonOutput {
				printProcessResult(result)
			}
		}

		if jsonOutput {
			return outputJSON(results)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processTable, "table", "t", "", "Abbreviation table (default: configured table)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "Output path (default: <prefix><name> next to the input)")
	processCmd.Flags().StringVar(&processPrefix, "prefix", "", "Output file name prefix (default: configured prefix)")
	processCmd.Flags().BoolVar(&processNoAbbr, "no-abbrev", false, "Skip journal name abbreviation")
	processCmd.Flags().BoolVar(&processNoClean, "no-clean", false, "Keep doi fields even when a url is present")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Show what would change without writing output")
	processCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "Do not show progress")
}

func printProcessResult(result *engine.ProcessResult) {
	PrintSection(fmt.Sprintf("%s (%s)", result.InputPath, PrintCount(result.Entries, "entry", "entries")))

	if result.TableUnavailable {
		PrintError(fmt.Sprintf("Abbreviation table not found: %s", result.Table.Source))
	}

	PrintSubsection("Change log:")
	for _, entry := range result.Log {
		line := fmt.Sprintf("[%s] %s", entry.Stage, entry.Message)
		if entry.Error {
			_, _ = warningColor.Fprintf(stdout, "    • %s\n", line)
			continue
		}
		PrintList([]string{line}, 2)
	}
	fmt.Fprintln(stdout)

	switch {
	case result.UpToDate:
		PrintSuccess(fmt.Sprintf("Already up to date: %s", result.OutputPath))
	case !result.Written:
		PrintInfo(fmt.Sprintf("Dry run: would write %s", result.OutputPath))
	case !result.Changed:
		PrintSuccess(fmt.Sprintf("No changes; copy written to %s", result.OutputPath))
	default:
		PrintSuccess(fmt.Sprintf("Wrote %s", result.OutputPath))
	}
	PrintLabelValue("DOI fields removed", fmt.Sprint(result.ConflictsResolved))
	PrintLabelValue("Journal names abbreviated", fmt.Sprint(result.Occurrences))
}
