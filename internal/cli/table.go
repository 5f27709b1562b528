package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/bibtidy/internal/engine"
)

var tablePath string

// tableCmd is the parent command for abbreviation table inspection.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect the abbreviation table",
	Long:  `Inspect the journal abbreviation table used by process.`,
}

var tableStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what was loaded from the abbreviation table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		table, err := eng.Table(tablePath)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(struct {
				*engine.TableInfo
				Available bool `json:"available"`
			}{engine.DescribeTable(table), !table.Empty()})
		}

		PrintSection("Abbreviation Table")
		PrintLabelValue("Source", table.Source)
		if table.Empty() {
			PrintError(fmt.Sprintf("Abbreviation table unavailable: %s", table.Source))
			return nil
		}
		PrintLabelValue("Pairs", fmt.Sprint(table.Len()))
		PrintLabelValue("Skipped", fmt.Sprintf("%d (acronyms or single words)", table.Skipped))
		PrintLabelValue("Encoding", table.Encoding)
		PrintLabelValue("SHA-256", table.Digest)
		return nil
	},
}

var tableLookupCmd = &cobra.Command{
	Use:   "lookup <journal name>",
	Short: "Look up the abbreviation of a journal",
	Long: `Look up a journal by its full or abbreviated name.

Braces around the name are optional.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Lookup(&engine.LookupRequest{TablePath: tablePath, Name: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Table.Pairs == 0 {
			PrintError(fmt.Sprintf("Abbreviation table unavailable: %s", result.Table.Source))
			return nil
		}
		if !result.Found {
			PrintWarning(fmt.Sprintf("%q is not in the table", args[0]))
			return nil
		}
		PrintTable([]string{"FULL", "ABBREVIATION"}, [][]string{{result.Pair.Full, result.Pair.Short}})
		return nil
	},
}

func init() {
	tableCmd.PersistentFlags().StringVarP(&tablePath, "table", "t", "", "Abbreviation table (default: configured table)")
	tableCmd.AddCommand(tableStatsCmd)
	tableCmd.AddCommand(tableLookupCmd)
}
