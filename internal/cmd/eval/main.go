// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// eval provides a way to validate the diffing algorithm on random documents by replaying the
// resulting staged changesets and checking that every stage is consistent and that they end at the
// target document.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"znkr.io/listdiff"
	"znkr.io/listdiff/internal/document"
	"znkr.io/listdiff/internal/replay"
)

type config struct {
	cases    int
	seed     uint64
	sections int
	items    int
	ids      int
	rate     float64
	parallel int
	stats    string
	failures string
}

func main() {
	var cfg config
	flag.IntVar(&cfg.cases, "cases", 10000, "number of random cases to evaluate")
	flag.Uint64Var(&cfg.seed, "seed", 0, "seed for the random cases, 0 picks a random seed")
	flag.IntVar(&cfg.sections, "sections", 10, "maximum number of sections per document, 0 for flat documents")
	flag.IntVar(&cfg.items, "items", 20, "maximum number of items per section")
	flag.IntVar(&cfg.ids, "ids", 50, "maximum number of distinct identifiers")
	flag.Float64Var(&cfg.rate, "rate", 0.2, "probability for every section and item to change")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.StringVar(&cfg.failures, "failures", "", "directory to store failing cases in")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}
	if cfg.seed == 0 {
		cfg.seed = rand.Uint64()
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	id       int
	shape    document.Shape
	N, M     int // Number of sections and items in source and target.
	D        int // Number of changes.
	stages   int
	duration time.Duration
}

// evalCase is a single random source and target document.
type evalCase struct {
	id    int
	shape document.Shape
	x, y  document.Document
}

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var generated atomic.Int64
	var processed atomic.Int64
	var failed atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}
	if cfg.failures != "" {
		if err := os.MkdirAll(cfg.failures, 0o755); err != nil {
			return fmt.Errorf("creating failures directory: %v", err)
		}
	}

	// Generate cases.
	cases := make(chan evalCase)
	go func() {
		defer close(cases)
		rng := rand.New(rand.NewPCG(cfg.seed, 0))
		for id := range cfg.cases {
			shape := document.Shape{
				Items: rng.IntN(cfg.items + 1),
				IDs:   1 + rng.IntN(max(1, cfg.ids)),
			}
			if cfg.sections > 0 {
				shape.Sections = 1 + rng.IntN(cfg.sections)
			}
			x := document.Random(rng, shape)
			y := document.Mutate(rng, x, rng.Float64()*cfg.rate*2)
			cases <- evalCase{id: id, shape: shape, x: x, y: y}
			generated.Add(1)
		}
	}()

	// Process diffs.
	var processWG sync.WaitGroup
	var results chan result
	if cfg.stats != "" {
		results = make(chan result)
	}
	for range cfg.parallel {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for c := range cases {
				res, err := evaluate(c)
				if err != nil {
					failed.Add(1)
					prefix := fmt.Sprintf("case %d", c.id)
					notes <- note{prefix: prefix, msg: err.Error()}
					if cfg.failures != "" {
						if err := store(cfg.failures, c); err != nil {
							notes <- note{prefix: prefix, msg: fmt.Sprintf("failed to store case: %v", err)}
						}
					}
				}
				if results != nil {
					results <- res
				}
				processed.Add(1)
			}
		}()
	}

	// Render progress
	var ioWG sync.WaitGroup
	render := func() {
		const width = 60
		processed := processed.Load()
		progress := float64(processed) / float64(max(1, cfg.cases))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var perSec int
		if processed > 0 {
			perSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d generated, %d evals/s, %d failed) ", width, bar, 100*progress, generated.Load(), perSec, failed.Load())
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\nseed %d\n", cfg.seed)
				return
			}
		}
	}()
	var statsWG sync.WaitGroup
	if cfg.stats != "" {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("case,sections,items,ids,N,M,D,stages,duration_ns\n")
			for r := range results {
				_, err := fmt.Fprintf(w, "%d,%d,%d,%d,%d,%d,%d,%d,%d\n", r.id, r.shape.Sections, r.shape.Items, r.shape.IDs, r.N, r.M, r.D, r.stages, r.duration.Nanoseconds())
				if err != nil {
					notes <- note{
						prefix: fmt.Sprintf("case %d", r.id),
						msg:    fmt.Sprintf("failed to write stats: %v", err),
					}
				}
			}
			err := w.Flush()
			if err != nil {
				notes <- note{
					prefix: "",
					msg:    fmt.Sprintf("failed to flush stats: %v", err),
				}
			}
		}()
	}

	// Shutdown
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait() // The stats writer might still send notes.
	close(done)
	ioWG.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d cases failed", n, cfg.cases)
	}
	return nil
}

// evaluate diffs and replays a single case.
func evaluate(c evalCase) (result, error) {
	res := result{id: c.id, shape: c.shape}
	if c.shape.Sections == 0 {
		res.N, res.M = len(c.x.Items), len(c.y.Items)
		start := time.Now()
		staged := listdiff.Diff(c.x.Items, c.y.Items)
		res.duration = time.Since(start)
		res.D, res.stages = staged.ChangeCount(), len(staged)
		id := func(i document.Item) string { return i.ID }
		eq := func(a, b document.Item) bool { return a.IsContentEqual(b) }
		if err := replay.Staged(c.x.Items, staged, id, eq); err != nil {
			return res, err
		}
		return res, final(staged, c.x.Items, c.y.Items)
	}

	res.N, res.M = size(c.x), size(c.y)
	start := time.Now()
	staged := listdiff.DiffSections(c.x.Sections, c.y.Sections)
	res.duration = time.Since(start)
	res.D, res.stages = staged.ChangeCount(), len(staged)
	if err := replay.StagedSections(c.x.Sections, staged, listdiff.SchemaOf[document.Section, document.Item, string, string]()); err != nil {
		return res, err
	}
	return res, final(staged, c.x.Sections, c.y.Sections)
}

func final[T any](staged listdiff.StagedChangeset[T], x, y []T) error {
	got, ok := staged.Final()
	if !ok {
		got = x
	}
	if diff := cmp.Diff(y, got, cmpopts.EquateEmpty()); diff != "" {
		return fmt.Errorf("final data is different from the target [-want,+got]:\n%s", diff)
	}
	return nil
}

func size(doc document.Document) int {
	n := len(doc.Sections)
	for _, s := range doc.Sections {
		n += len(s.Items)
	}
	return n
}

// store writes the source and target of c to dir, so that they can be inspected with listdiff.
func store(dir string, c evalCase) error {
	for name, doc := range map[string]document.Document{"source": c.x, "target": c.y} {
		data, err := document.Marshal(doc, document.YAML)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, fmt.Sprintf("case-%d-%s.yaml", c.id, name))
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
