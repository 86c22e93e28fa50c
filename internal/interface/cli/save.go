package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hollowmere/emberfall/internal/app/config"
	"github.com/hollowmere/emberfall/internal/infra/persistence/save"
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Manage save-game artifacts",
	}
	cmd.AddCommand(newSaveCreateCmd())
	cmd.AddCommand(newSaveLoadCmd())
	cmd.AddCommand(newSaveListCmd())
	cmd.AddCommand(newSaveDeleteCmd())
	cmd.AddCommand(newSaveExportCmd())
	cmd.AddCommand(newSaveImportCmd())
	cmd.AddCommand(newSavePruneCmd())
	return cmd
}

// openCatalog builds the save catalog over the configured saves dir
func openCatalog(fs afero.Fs, cfg config.Config) *save.Catalog {
	codec := save.NewCodec(fs, cfg.SavesDir(), cfg.SaveVersion())
	return save.NewCatalog(codec, cfg.MaxSaves())
}

func newSaveCreateCmd() *cobra.Command {
	var data string
	var fromFile string
	var fromState bool

	cmd := &cobra.Command{
		Use:   "create [slot]",
		Short: "Write a save artifact from a payload or the current session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := ""
			if len(args) == 1 {
				slot = args[0]
			}

			fs := afero.NewOsFs()
			var gameState map[string]interface{}
			if fromState {
				if data != "" || fromFile != "" {
					return fmt.Errorf("use --from-state or a payload source, not both")
				}
				s, err := openSession(globalConfig)
				if err != nil {
					return err
				}
				_, payload := s.manager.Current()
				gameState = payload
			} else {
				payload, err := parsePayload(fs, data, fromFile, false)
				if err != nil {
					return err
				}
				gameState = payload
			}

			catalog := openCatalog(fs, globalConfig)
			name, meta, err := catalog.Put(gameState, slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (id=%s, v%s)\n", name, meta.SaveID, meta.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Game state as inline JSON")
	cmd.Flags().StringVar(&fromFile, "file", "", "Game state from a JSON file")
	cmd.Flags().BoolVar(&fromState, "from-state", false, "Save the current session payload")
	return cmd
}

// LoadOutput is the --json shape of `save load`
type LoadOutput struct {
	Slot      string                 `json:"slot"`
	Metadata  save.Metadata          `json:"metadata"`
	GameState map[string]interface{} `json:"game_state"`
}

func newSaveLoadCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "load <slot>",
		Short: "Decode a save artifact and print its game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			catalog := openCatalog(fs, globalConfig)
			gameState, meta, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				b, err := json.Marshal(LoadOutput{
					Slot:      args[0],
					Metadata:  meta,
					GameState: gameState,
				})
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			body, _ := json.MarshalIndent(gameState, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "Slot     : %s\n", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Save ID  : %s\n", meta.SaveID)
			fmt.Fprintf(cmd.OutOrStdout(), "Version  : %s\n", meta.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved at : %s\n", formatUnixSeconds(meta.Timestamp))
			fmt.Fprintf(cmd.OutOrStdout(), "State    : %s\n", string(body))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the save in JSON format")
	return cmd
}

func newSaveListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List save artifacts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := openCatalog(afero.NewOsFs(), globalConfig)
			entries, err := catalog.List()
			if err != nil {
				return err
			}

			if jsonOutput {
				b, err := json.Marshal(entries)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saves found")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s  lv%-3d  %-16s  %s\n",
					e.Slot, e.Meta.PlayerLevel, e.Meta.Location,
					formatUnixSeconds(e.Meta.Timestamp))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the list in JSON format")
	return cmd
}

func newSaveDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := openCatalog(afero.NewOsFs(), globalConfig)
			deleted, err := catalog.Delete(args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "No save named %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newSaveExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <slot> <path>",
		Short: "Copy a save artifact to an external path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := openCatalog(afero.NewOsFs(), globalConfig)
			if err := catalog.ExportTo(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSaveImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path> [slot]",
		Short: "Import an external save artifact into the catalog",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := ""
			if len(args) == 2 {
				slot = args[1]
			}
			catalog := openCatalog(afero.NewOsFs(), globalConfig)
			name, meta, err := catalog.ImportFrom(args[0], slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (id=%s, v%s)\n", name, meta.SaveID, meta.Version)
			return nil
		},
	}
}

func newSavePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete the oldest saves beyond the retention cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := openCatalog(afero.NewOsFs(), globalConfig)
			n, err := catalog.EnforceRetention()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d save(s)\n", n)
			return nil
		},
	}
}

func formatUnixSeconds(ts float64) string {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339)
}
