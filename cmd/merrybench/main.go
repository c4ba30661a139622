// Command merrybench drives the merrymem engine against a generated trace
// and records sequential vs. parallel throughput as JSON, mirroring the
// performance-test driver spec.md §1 scopes out of the core ("the
// command-line driver that selects operation ratios ... does not do I/O,
// timing, or scheduling" is the engine's side of that boundary; this binary
// is the other side).
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dijkstracula/merrymem"
	"github.com/dijkstracula/merrymem/internal/recorder"
	"github.com/dijkstracula/merrymem/internal/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "merrybench:", err)
		os.Exit(1)
	}
}

func run() error {
	traceLen := flag.Int("n", 1_000_000, "number of operations in the generated trace")
	keySpace := flag.Uint("keyspace", 1<<20, "number of distinct keys")
	insertRatio := flag.Float64("insert", 0.3, "fraction of operations that are inserts")
	removeRatio := flag.Float64("remove", 0.1, "fraction of operations that are removes (remainder are searches)")
	zipf := flag.Bool("zipf", false, "use a Zipfian key distribution instead of uniform")
	capacity := flag.Int("capacity", 1<<20, "table capacity (power of two)")
	seed := flag.Int64("seed", 1, "trace generator seed")
	workersCSV := flag.String("workers", "1,2,4,8", "comma-separated worker counts to benchmark")
	out := flag.String("out", "", "output file for the JSON result (default stdout)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	workerCounts, err := parseWorkerCounts(*workersCSV)
	if err != nil {
		return err
	}

	cfg := trace.Config{
		Length:      *traceLen,
		KeySpace:    uint32(*keySpace),
		InsertRatio: *insertRatio,
		RemoveRatio: *removeRatio,
		Seed:        *seed,
	}

	tr, err := generateTrace(cfg, *zipf)
	if err != nil {
		return fmt.Errorf("generating trace: %w", err)
	}
	logger.Info("generated trace", zap.Int("length", len(tr)), zap.Bool("zipf", *zipf))

	seqElapsed, err := runSequential(tr, *capacity)
	if err != nil {
		return fmt.Errorf("sequential run: %w", err)
	}
	logger.Info("sequential run complete", zap.Duration("elapsed", seqElapsed))

	parallel := make([]float64, len(workerCounts))
	for i, workers := range workerCounts {
		elapsed, err := runParallel(tr, *capacity, workers)
		if err != nil {
			return fmt.Errorf("parallel run (%d workers): %w", workers, err)
		}
		parallel[i] = throughput(len(tr), elapsed)
		logger.Info("parallel run complete", zap.Int("workers", workers), zap.Duration("elapsed", elapsed))
	}

	result := recorder.Result{
		Sequential: throughput(len(tr), seqElapsed),
		Parallel:   parallel,
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return result.WriteJSON(w, logger)
}

func parseWorkerCounts(csv string) ([]int, error) {
	var counts []int
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			var n int
			if _, err := fmt.Sscanf(csv[start:i], "%d", &n); err != nil {
				return nil, fmt.Errorf("invalid worker count %q: %w", csv[start:i], err)
			}
			counts = append(counts, n)
			start = i + 1
		}
	}
	return counts, nil
}

func generateTrace(cfg trace.Config, zipf bool) (trace.Trace, error) {
	if zipf {
		gen, err := trace.NewZipfGenerator(cfg, 1.1, 1)
		if err != nil {
			return nil, err
		}
		return gen.Generate(), nil
	}
	gen, err := trace.NewUniformGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return gen.Generate(), nil
}

func runSequential(tr trace.Trace, capacity int) (time.Duration, error) {
	tbl, err := merrymem.NewSequentialTable(merrymem.WithCapacity(capacity))
	if err != nil {
		return 0, err
	}
	start := time.Now()
	replaySequential(tbl, tr)
	return time.Since(start), nil
}

func replaySequential(tbl *merrymem.SequentialTable, tr trace.Trace) {
	for _, rec := range tr {
		switch rec.Op {
		case trace.OpInsert:
			tbl.Insert(rec.Key, rec.Value)
		case trace.OpRemove:
			tbl.Remove(rec.Key)
		case trace.OpSearch:
			tbl.Search(rec.Key)
		}
	}
}

// runParallel fans the trace out across workers goroutines, splitting it
// into contiguous chunks, and reports the wall-clock elapsed from the
// moment every goroutine is released by a shared barrier channel to the
// moment they all finish. The barrier-release pattern mirrors the
// teacher's ilock_test.go benchmarkLocking helper.
func runParallel(tr trace.Trace, capacity, workers int) (time.Duration, error) {
	tbl, err := merrymem.NewTable(merrymem.WithCapacity(capacity))
	if err != nil {
		return 0, err
	}

	chunks := splitTrace(tr, workers)
	barrier := make(chan struct{})
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk trace.Trace) {
			defer wg.Done()
			<-barrier
			replayParallel(tbl, chunk)
		}(chunk)
	}

	start := time.Now()
	close(barrier)
	wg.Wait()
	return time.Since(start), nil
}

func replayParallel(tbl *merrymem.Table, tr trace.Trace) {
	for _, rec := range tr {
		switch rec.Op {
		case trace.OpInsert:
			tbl.Insert(rec.Key, rec.Value)
		case trace.OpRemove:
			tbl.Remove(rec.Key)
		case trace.OpSearch:
			tbl.Find(rec.Key)
		}
	}
}

func splitTrace(tr trace.Trace, workers int) []trace.Trace {
	if workers <= 0 {
		workers = 1
	}
	chunks := make([]trace.Trace, workers)
	base := len(tr) / workers
	remainder := len(tr) % workers
	idx := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < remainder {
			size++
		}
		chunks[i] = tr[idx : idx+size]
		idx += size
	}
	return chunks
}

func throughput(ops int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(ops) / elapsed.Seconds()
}
