package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"outpost/internal/threading/core"
	"outpost/internal/worldgen"
)

func newGenerateCmd(stdout, stderr io.Writer) *cobra.Command {
	var width, height int
	var ascii bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a world and print its terrain summary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfigOrDefault(stderr)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = cfg.World.Width
			}
			if height <= 0 {
				height = cfg.World.Height
			}
			seed := resolveSeed(cfg, stderr)

			pool := core.CreateDefaultWorkerPool()
			defer pool.Stop()
			hf := worldgen.Generate(&cfg.Generation, seed, width, height, pool)

			printTerrainSummary(stdout, hf, seed)
			if ascii {
				printASCIIMap(stdout, hf)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "world width (default: config)")
	cmd.Flags().IntVar(&height, "height", 0, "world height (default: config)")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "print an ASCII biome map")
	return cmd
}

func printTerrainSummary(w io.Writer, hf *worldgen.Heightfield, seed uint64) {
	biomes := map[worldgen.Biome]int{}
	rivers := 0
	for i, b := range hf.Biome {
		biomes[b]++
		if hf.River[i] {
			rivers++
		}
	}
	fmt.Fprintf(w, "seed %d, %dx%d\n", seed, hf.Width, hf.Height)
	fmt.Fprintf(w, "river cells: %d\n", rivers)
	for b := worldgen.BiomeTundra; b <= worldgen.BiomeOcean; b++ {
		if n := biomes[b]; n > 0 {
			fmt.Fprintf(w, "%-22s %d\n", b, n)
		}
	}
}

// biomeGlyphs maps each biome to a map glyph, water last so rivers can
// overprint with '~'.
var biomeGlyphs = map[worldgen.Biome]byte{
	worldgen.BiomeTundra:              '-',
	worldgen.BiomeShrubland:           ',',
	worldgen.BiomeBorealForest:        '^',
	worldgen.BiomeGrassland:           '.',
	worldgen.BiomeTemperateForest:     't',
	worldgen.BiomeDesert:              'd',
	worldgen.BiomeTemperateRainforest: 'T',
	worldgen.BiomeSavanna:             's',
	worldgen.BiomeTropicalRainforest:  'R',
	worldgen.BiomeOcean:               '#',
}

func printASCIIMap(w io.Writer, hf *worldgen.Heightfield) {
	row := make([]byte, hf.Width+1)
	row[hf.Width] = '\n'
	for y := 0; y < hf.Height; y++ {
		for x := 0; x < hf.Width; x++ {
			i := hf.At(x, y)
			g, ok := biomeGlyphs[hf.Biome[i]]
			if !ok {
				g = '?'
			}
			if hf.River[i] {
				g = '~'
			}
			row[x] = g
		}
		w.Write(row)
	}
}
