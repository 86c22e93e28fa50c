package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hollowmere/emberfall/internal/domain/model"
)

// StatusOutput is the --json shape of `state status`
type StatusOutput struct {
	Ts           string        `json:"ts"`
	CurrentState string        `json:"current_state"`
	StateData    model.Payload `json:"state_data"`
	HistoryLen   int           `json:"history_len"`
}

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and drive the session state machine",
	}
	cmd.AddCommand(newStateStatusCmd())
	cmd.AddCommand(newStateTransitionCmd())
	cmd.AddCommand(newStateUpdateCmd())
	cmd.AddCommand(newStateRollbackCmd())
	cmd.AddCommand(newStateHistoryCmd())
	cmd.AddCommand(newStateClearCmd())
	cmd.AddCommand(newStateExportCmd())
	cmd.AddCommand(newStateImportCmd())
	cmd.AddCommand(newStateRulesCmd())
	return cmd
}

func newStateStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			current, payload := s.manager.Current()

			if jsonOutput {
				out := StatusOutput{
					Ts:           time.Now().UTC().Format(time.RFC3339Nano),
					CurrentState: current.String(),
					StateData:    payload,
					HistoryLen:   s.manager.HistoryLen(),
				}
				b, err := json.Marshal(out)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			data, _ := json.MarshalIndent(payload, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "State   : %s\n", current)
			fmt.Fprintf(cmd.OutOrStdout(), "History : %d snapshot(s)\n", s.manager.HistoryLen())
			fmt.Fprintf(cmd.OutOrStdout(), "Data    : %s\n", string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status in JSON format")
	return cmd
}

func newStateTransitionCmd() *cobra.Command {
	var data string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "transition <state-type>",
		Short: "Transition to a new state with a validated payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseStateType(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			payload, err := parsePayload(s.fs, data, fromFile, true)
			if err != nil {
				return err
			}

			if err := s.manager.Transition(t, payload); err != nil {
				return err
			}
			if err := s.persist(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transitioned to %s\n", t)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Payload as inline JSON")
	cmd.Flags().StringVar(&fromFile, "file", "", "Payload from a JSON file")
	return cmd
}

func newStateUpdateCmd() *cobra.Command {
	var data string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Merge partial updates into the current payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			updates, err := parsePayload(s.fs, data, fromFile, false)
			if err != nil {
				return err
			}

			if err := s.manager.UpdateFields(updates); err != nil {
				return err
			}
			if err := s.persist(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s)\n", len(updates))
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Partial updates as inline JSON")
	cmd.Flags().StringVar(&fromFile, "file", "", "Partial updates from a JSON file")
	return cmd
}

func newStateRollbackCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Roll back to an earlier snapshot, discarding newer history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			if err := s.manager.Rollback(steps); err != nil {
				return err
			}
			if err := s.persist(); err != nil {
				return err
			}
			current, _ := s.manager.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d step(s) to %s\n", steps, current)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "Number of snapshots to roll back")
	return cmd
}

func newStateHistoryCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded snapshots, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			snaps := s.manager.History(limit)

			if jsonOutput {
				b, err := json.Marshal(snaps)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots recorded")
				return nil
			}
			for _, snap := range snaps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s\n",
					snap.TakenAt.Format(time.RFC3339), snap.Type, snap.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the last N snapshots (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history in JSON format")
	return cmd
}

func newStateClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the snapshot history (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			s.manager.ClearHistory()
			if err := s.persist(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

func newStateExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the current state in the interchange format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			if err := s.manager.Export(s.fs, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "State exported to %s\n", args[0])
			return nil
		},
	}
}

func newStateImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import state from an interchange file, re-validating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(globalConfig)
			if err != nil {
				return err
			}
			if err := s.manager.Import(s.fs, args[0]); err != nil {
				return err
			}
			if err := s.persist(); err != nil {
				return err
			}
			current, _ := s.manager.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported state %s\n", current)
			return nil
		},
	}
}

// RulesOutput is the --json shape of `state rules`
type RulesOutput struct {
	StateType string            `json:"state_type"`
	Required  []string          `json:"required"`
	Fields    map[string]string `json:"fields"`
}

func newStateRulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the effective validation rule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(afero.NewOsFs(), globalConfig)
			if err != nil {
				return err
			}

			var out []RulesOutput
			for _, t := range engine.RegisteredTypes() {
				rs, _ := engine.Rules(t)
				fields := make(map[string]string, len(rs.FieldTypes))
				for name, kind := range rs.FieldTypes {
					fields[name] = kind.String()
				}
				out = append(out, RulesOutput{
					StateType: t.String(),
					Required:  rs.Required,
					Fields:    fields,
				})
			}

			if jsonOutput {
				b, err := json.Marshal(out)
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			for _, ro := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ro.StateType)
				fmt.Fprintf(cmd.OutOrStdout(), "  required: %v\n", ro.Required)
				for name, kind := range ro.Fields {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, kind)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules in JSON format")
	return cmd
}
