package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/bibtidy/internal/config"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved paths and settings",
	Long: `Show where bibtidy looks for its files and the settings in effect.

Settings come from defaults, then config.yaml under the bibtidy root, then
BIBTIDY_* environment variables (a .env file in the working directory is
loaded first). With --init the root and its tables/ directory are created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, settings, err := loadSettings()
		if err != nil {
			return err
		}

		if configInit {
			if err := paths.EnsureDirectories(); err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"root":     paths.Root,
				"config":   paths.Config,
				"tables":   paths.Tables,
				"settings": settings,
			})
		}

		if configInit {
			PrintSuccess(fmt.Sprintf("Created %s", paths.Tables))
			PrintInfo(fmt.Sprintf("Place %s there to use it as the default table.", config.DefaultTableName))
		}

		PrintSection("Paths")
		PrintLabelValue("Root", paths.Root)
		PrintLabelValue("Config file", paths.Config)
		PrintLabelValue("Tables", paths.Tables)

		PrintSection("Settings")
		PrintLabelValue("Table", settings.TablePath)
		if _, err := os.Stat(settings.TablePath); err != nil {
			PrintEmptyState("table file not found; journal names will not be abbreviated")
		}
		PrintLabelValue("Output prefix", settings.OutputPrefix)
		PrintLabelValue("Abbreviate", fmt.Sprint(settings.Abbreviate))
		PrintLabelValue("Clean doi", fmt.Sprint(settings.CleanConflicts))
		PrintLabelValue("Log level", settings.LogLevel)
		PrintLabelValue("Log format", settings.LogFormat)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create the bibtidy root and tables directory")
}
