package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"outpost/internal/config"
	"outpost/internal/grid"
	"outpost/internal/save"
	"outpost/internal/sim"
)

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	var ticks int
	var loadPath, savePath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless for a number of ticks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfigOrDefault(stderr)
			if err != nil {
				return err
			}

			economics, err := loadEconomics(cfg.Plan.TilesPath, stderr)
			if err != nil {
				return err
			}

			logger := log.New(stderr, "", log.LstdFlags)
			if quiet {
				logger = nil
			}

			var s *sim.Simulation
			if loadPath != "" {
				s, err = loadSimulation(cfg, loadPath, economics, logger, stderr)
				if err != nil {
					return err
				}
			} else {
				s = sim.New(cfg, resolveSeed(cfg, stderr), economics, logger)
			}
			defer s.Shutdown()

			loop := sim.NewLoop(cfg.GetTPS(), cfg.GetMaxFrameSeconds(), cfg.GetMaxStepsPerFrame())
			var metrics sim.HudMetrics
			for i := 0; i < ticks; i++ {
				metrics = loop.Advance(loop.DT(), s.Update, nil)
			}

			snap := s.Snapshot(loop.SimTime())
			fmt.Fprintf(stdout, "seed %d, %dx%d, %d colonists\n",
				s.Seed, snap.Width, snap.Height, len(snap.Agents))
			fmt.Fprintf(stdout, "sim time %.2fs (%d ticks at %.0f Hz)\n",
				metrics.SimTimeSeconds, ticks, metrics.TickHz)
			fmt.Fprintf(stdout, "inventory: %d wood, %.1f food\n",
				snap.Inventory.Wood, snap.Inventory.Food)

			if savePath != "" {
				if err := writeSave(s, savePath, stderr); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "saved to %s\n", savePath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 600, "number of fixed steps to run")
	cmd.Flags().StringVar(&loadPath, "load", "", "load a save file instead of generating")
	cmd.Flags().StringVar(&savePath, "save", "", "write a save file when done")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress simulation logging")
	return cmd
}

// loadEconomics resolves the tile cost table, tolerating a missing file
// (built-in defaults) but not a malformed one.
func loadEconomics(path string, stderr io.Writer) (*grid.Economics, error) {
	if path == "" {
		return nil, nil
	}
	economics, err := grid.LoadEconomics(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		fmt.Fprintf(stderr, "outpostctl: %v\n", err)
		return nil, errExit
	}
	return economics, nil
}

func loadSimulation(cfg *config.Config, path string, economics *grid.Economics, logger *log.Logger, stderr io.Writer) (*sim.Simulation, error) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "outpostctl: %v\n", err)
		return nil, errExit
	}
	defer f.Close()

	world, seed, colonists, err := save.Read(f, economics)
	if err != nil {
		fmt.Fprintf(stderr, "outpostctl: %v\n", err)
		return nil, errExit
	}
	return sim.NewFromWorld(cfg, seed, world, colonists, logger), nil
}

func writeSave(s *sim.Simulation, path string, stderr io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(stderr, "outpostctl: %v\n", err)
		return errExit
	}
	defer f.Close()
	if err := save.Write(f, s.World, s.Seed, s.Colonists); err != nil {
		fmt.Fprintf(stderr, "outpostctl: %v\n", err)
		return errExit
	}
	return nil
}
