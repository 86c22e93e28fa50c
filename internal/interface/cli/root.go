package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hollowmere/emberfall/internal/app/config"
	infraConfig "github.com/hollowmere/emberfall/internal/infra/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emberfall",
		Short: "Emberfall state and save management",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: ENV > setting.json > defaults
			baseDir := infraConfig.DefaultHome
			if home := os.Getenv("EMBERFALL_HOME"); home != "" {
				baseDir = home
			}

			cfg, err := infraConfig.LoadSettings(baseDir)
			if err != nil {
				return err
			}
			globalConfig = cfg

			InitGlobalLogger(cfg.StderrLevel())
			InitializeLoggers(GetLogger())
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newStateCmd())
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
