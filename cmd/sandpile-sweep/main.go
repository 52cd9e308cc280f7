// Command sandpile-sweep stabilises centre piles of increasing size in
// parallel and reports how long each takes and how far it spreads.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"sandpile/internal/run"
	"sandpile/internal/sandpile"
)

type scenarioResult struct {
	grains      uint64
	generations uint64
	stable      bool
	width       int
	height      int
	elapsed     time.Duration
	err         error
}

func main() {
	grainList := flag.String("grains", "64,256,1024,4096,16384", "comma separated pile sizes to stabilise")
	maxIter := flag.Uint64("max-iter", 1_000_000, "generation budget per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of scenarios run concurrently")
	chartPath := flag.String("chart", "", "write a PNG of generations and spread against pile size")
	flag.Parse()

	sizes, err := parseSizes(*grainList)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Sweeping %d pile sizes (%d workers, budget %d)\n", len(sizes), *workers, *maxIter)
	start := time.Now()
	all := sweep(context.Background(), sizes, *workers, *maxIter)
	report(os.Stdout, all, time.Since(start))

	if *chartPath != "" {
		if err := writeChart(*chartPath, all); err != nil {
			log.Fatal(err)
		}
	}
}

func parseSizes(list string) ([]uint64, error) {
	var sizes []uint64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad pile size %q: %w", part, err)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no pile sizes given")
	}
	return sizes, nil
}

// sweep runs one scenario per size on a pool of workers. Results come back
// sorted by pile size.
func sweep(ctx context.Context, sizes []uint64, workers int, maxIter uint64) []scenarioResult {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan uint64)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for grains := range jobs {
				results <- runScenario(ctx, grains, maxIter)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, grains := range sizes {
			jobs <- grains
		}
		close(jobs)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].grains < all[j].grains })
	return all
}

func runScenario(ctx context.Context, grains, maxIter uint64) scenarioResult {
	g := sandpile.NewGrid()
	g.AddGrain(0, 0, grains)

	res, err := run.Run(ctx, run.Config{MaxIter: maxIter}, g, nil)
	out := scenarioResult{grains: grains, err: err, elapsed: res.Elapsed}
	if err != nil {
		return out
	}
	out.generations = res.Generations
	out.stable = res.Stable
	out.width = res.Grid.Width()
	out.height = res.Grid.Height()
	return out
}

func report(w io.Writer, all []scenarioResult, elapsed time.Duration) {
	fmt.Fprintf(w, "\nResults (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for _, res := range all {
		if res.err != nil {
			fmt.Fprintf(w, "grains=%d error=%v\n", res.grains, res.err)
			continue
		}
		fmt.Fprintf(w, "grains=%d generations=%d stable=%t size=%dx%d took=%s\n",
			res.grains, res.generations, res.stable, res.width, res.height, res.elapsed.Round(time.Microsecond))
	}
}

func writeChart(path string, all []scenarioResult) error {
	var xs, gens, spread []float64
	maxGen, maxWidth := 1.0, 1.0
	for _, res := range all {
		if res.err != nil {
			continue
		}
		xs = append(xs, float64(res.grains))
		gens = append(gens, float64(res.generations))
		spread = append(spread, float64(res.width))
		maxGen = max(maxGen, float64(res.generations))
		maxWidth = max(maxWidth, float64(res.width))
	}
	if len(xs) < 2 {
		return fmt.Errorf("need at least two successful scenarios to chart, have %d", len(xs))
	}

	graph := chart.Chart{
		Title:  "Centre pile sweep",
		Width:  1024,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "grains",
			Range: &chart.ContinuousRange{Min: 0, Max: xs[len(xs)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "generations",
			Range: &chart.ContinuousRange{Min: 0, Max: maxGen},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "width",
			Range: &chart.ContinuousRange{Min: 0, Max: maxWidth},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "generations", XValues: xs, YValues: gens},
			chart.ContinuousSeries{Name: "width", YAxis: chart.YAxisSecondary, XValues: xs, YValues: spread},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render sweep chart: %w", err)
	}
	return f.Close()
}
