package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"outpost/internal/config"
)

func newValidateCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfigOrDefault(stderr)
			if err != nil {
				return err
			}
			if problems := validateConfig(cfg); len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintf(stderr, "outpostctl: invalid config: %s\n", p)
				}
				return errExit
			}
			fmt.Fprintln(stdout, "config ok")
			return nil
		},
	}
}

// validateConfig checks the constraints the core assumes but does not
// re-check per call: positive dimensions, non-negative clock rates and
// cluster size (zero selects the built-in default), non-negative plan and
// agent economics.
func validateConfig(cfg *config.Config) []string {
	var problems []string
	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		problems = append(problems, fmt.Sprintf("world dimensions %dx%d must be positive", cfg.World.Width, cfg.World.Height))
	}
	if cfg.Engine.TPS < 0 {
		problems = append(problems, fmt.Sprintf("engine tps %d must not be negative", cfg.Engine.TPS))
	}
	if cfg.Engine.MaxFrameSeconds < 0 {
		problems = append(problems, "engine max_frame_seconds must not be negative")
	}
	if cfg.Navigation.ClusterSize < 0 {
		problems = append(problems, fmt.Sprintf("navigation cluster_size %d must not be negative", cfg.Navigation.ClusterSize))
	}
	if cfg.Plan.WorkRatePerSecond < 0 {
		problems = append(problems, "plan work_rate_per_second must not be negative")
	}
	if cfg.Agents.MoveSpeed < 0 {
		problems = append(problems, "agents move_speed must not be negative")
	}
	if cfg.World.StartWood < 0 {
		problems = append(problems, fmt.Sprintf("world start_wood %d must not be negative", cfg.World.StartWood))
	}
	return problems
}
