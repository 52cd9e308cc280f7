// Command sandpile-gen writes seed files for the sandpile runner.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"sandpile/internal/seed"
	"sandpile/pkg/core"
)

func main() {
	mode := flag.String("mode", "random", "seed layout: 'random' or 'pile'")
	drops := flag.Int("drops", 4000, "random drops to emit")
	radius := flag.Int("radius", 30, "half-width of the square random drops land in")
	maxGrains := flag.Uint64("max-grains", 8, "largest drop size")
	grains := flag.Uint64("grains", 1<<14, "grains in a centre pile")
	seedVal := flag.Int64("seed", 1337, "random seed")
	outPath := flag.String("o", "", "output file (stdout when empty)")
	flag.Parse()

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	recs, err := generate(*mode, *drops, *radius, *maxGrains, *grains, *seedVal)
	if err != nil {
		log.Fatal(err)
	}
	if err := seed.Write(w, recs); err != nil {
		log.Fatal(err)
	}
}

func generate(mode string, drops, radius int, maxGrains, grains uint64, seedVal int64) ([]seed.Record, error) {
	switch mode {
	case "pile":
		return []seed.Record{{X: 0, Y: 0, Grains: grains}}, nil
	case "random":
		recs := make([]seed.Record, 0, drops)
		core.Scatter(core.NewRNG(seedVal), drops, radius, maxGrains, func(x, y int, n uint64) {
			recs = append(recs, seed.Record{X: x, Y: y, Grains: n})
		})
		return recs, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
