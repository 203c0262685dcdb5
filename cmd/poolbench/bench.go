package main

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/poolkit/pkg/logger"
	"github.com/ajitpratap0/poolkit/pkg/pool"
)

// benchAllocator manufactures fixed-capacity scratch buffers, empties
// them on return, and rejects any buffer that grew past its original
// capacity.
type benchAllocator struct {
	size int
}

func (a benchAllocator) Allocate() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, a.size))
}

func (a benchAllocator) Reset(b *bytes.Buffer) {
	b.Reset()
}

func (a benchAllocator) Validate(b *bytes.Buffer) bool {
	return b.Cap() == a.size
}

// Result is one workload's measurement.
type Result struct {
	Workload   string      `json:"workload"`
	Goroutines int         `json:"goroutines"`
	Cycles     int         `json:"cycles"`
	DurationMS float64     `json:"duration_ms"`
	OpsPerSec  float64     `json:"ops_per_sec"`
	Stats      *pool.Stats `json:"stats,omitempty"`
}

func runWorkloads(cfg Config) ([]Result, error) {
	results := make([]Result, 0, len(cfg.Workloads))
	for _, name := range cfg.Workloads {
		logger.Info("running workload",
			zap.String("workload", name),
			zap.Int("goroutines", cfg.Goroutines),
			zap.Int("cycles", cfg.Cycles))

		var res Result
		switch name {
		case "pool":
			res = runPool(cfg)
		case "shared":
			res = runShared(cfg)
		case "local":
			res = runLocal(cfg)
		case "baseline":
			res = runBaseline(cfg)
		default:
			return nil, fmt.Errorf("unknown workload %q", name)
		}

		logger.Info("workload finished",
			zap.String("workload", name),
			zap.Float64("ops_per_sec", res.OpsPerSec))
		results = append(results, res)
	}
	return results, nil
}

func newBenchPool(cfg Config) *pool.Pool[*bytes.Buffer] {
	alloc := benchAllocator{size: cfg.BufferSize}
	if cfg.Prefill {
		return pool.NewPrefilled[*bytes.Buffer](cfg.Capacity, alloc)
	}
	return pool.New[*bytes.Buffer](cfg.Capacity, alloc)
}

// runPool contends borrowed-guard get/release cycles across goroutines.
func runPool(cfg Config) Result {
	p := newBenchPool(cfg)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < cfg.Cycles; j++ {
				g := p.Get()
				g.Object().WriteByte('x')
				g.Release()
			}
		}()
	}
	wg.Wait()

	return finish("pool", cfg, cfg.Goroutines, start, p.Stats())
}

// runShared moves shared guards across a goroutine boundary: producers
// borrow, a separate drainer writes and releases.
func runShared(cfg Config) Result {
	s := newBenchPool(cfg).ToShared()
	guards := make(chan *pool.SharedGuard[*bytes.Buffer], cfg.Goroutines*4)

	start := time.Now()
	var producers sync.WaitGroup
	for i := 0; i < cfg.Goroutines; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for j := 0; j < cfg.Cycles; j++ {
				guards <- s.Get()
			}
		}()
	}

	var drainer sync.WaitGroup
	drainer.Add(1)
	go func() {
		defer drainer.Done()
		for g := range guards {
			g.Object().WriteByte('x')
			g.Release()
		}
	}()

	producers.Wait()
	close(guards)
	drainer.Wait()

	return finish("shared", cfg, cfg.Goroutines, start, s.Stats())
}

// runLocal drives the single-goroutine pool through the same number of
// total cycles.
func runLocal(cfg Config) Result {
	alloc := benchAllocator{size: cfg.BufferSize}
	var l *pool.LocalPool[*bytes.Buffer]
	if cfg.Prefill {
		l = pool.NewLocalPrefilled[*bytes.Buffer](cfg.Capacity, alloc)
	} else {
		l = pool.NewLocal[*bytes.Buffer](cfg.Capacity, alloc)
	}

	total := cfg.Goroutines * cfg.Cycles
	start := time.Now()
	for i := 0; i < total; i++ {
		g := l.Get()
		g.Object().WriteByte('x')
		g.Release()
	}

	res := finish("local", cfg, 1, start, l.Stats())
	res.Cycles = total
	return res
}

// runBaseline allocates a fresh object every cycle, the cost the pools
// are meant to avoid.
func runBaseline(cfg Config) Result {
	alloc := benchAllocator{size: cfg.BufferSize}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < cfg.Cycles; j++ {
				b := alloc.Allocate()
				b.WriteByte('x')
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	ops := cfg.Goroutines * cfg.Cycles
	return Result{
		Workload:   "baseline",
		Goroutines: cfg.Goroutines,
		Cycles:     cfg.Cycles,
		DurationMS: float64(elapsed.Microseconds()) / 1000.0,
		OpsPerSec:  float64(ops) / elapsed.Seconds(),
	}
}

func finish(name string, cfg Config, goroutines int, start time.Time, stats pool.Stats) Result {
	elapsed := time.Since(start)
	ops := cfg.Goroutines * cfg.Cycles
	return Result{
		Workload:   name,
		Goroutines: goroutines,
		Cycles:     cfg.Cycles,
		DurationMS: float64(elapsed.Microseconds()) / 1000.0,
		OpsPerSec:  float64(ops) / elapsed.Seconds(),
		Stats:      &stats,
	}
}

// writeReport marshals the results as indented JSON to path, or stdout
// when path is empty.
func writeReport(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report written", zap.String("path", path))
	return nil
}
