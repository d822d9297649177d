package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/veldt-engine/scenehost/abi"
	"github.com/veldt-engine/scenehost/manifest"
	"github.com/veldt-engine/scenehost/resource"
	"github.com/veldt-engine/scenehost/sandbox"
	"github.com/veldt-engine/scenehost/world"
)

func main() {
	var (
		wasmFile     = flag.String("wasm", "", "Path to script wasm file")
		manifestFile = flag.String("manifest", "", "Path to environment manifest (JSON)")
		ticks        = flag.Int("ticks", 60, "Number of update ticks to run")
		rate         = flag.Float64("rate", 60, "Tick rate in Hz")
		memPages     = flag.Uint("mem", 256, "Guest memory limit in 64KB pages")
		dump         = flag.Bool("dump", false, "Dump the resource registry after the run")
		verbose      = flag.Bool("v", false, "Verbose host logging")
		interactive  = flag.Bool("i", false, "Interactive inspector TUI")
	)
	flag.Parse()

	if *wasmFile == "" || *manifestFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: scenehost -wasm <script.wasm> -manifest <env.json> [-ticks n] [-rate hz]")
		fmt.Fprintln(os.Stderr, "       scenehost -wasm <script.wasm> -manifest <env.json> -i  (interactive)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, *manifestFile, uint32(*memPages)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *manifestFile, *ticks, *rate, uint32(*memPages), *dump, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// host bundles everything one environment run needs.
type host struct {
	world     *world.World
	runtime   *sandbox.Runtime
	instances []*sandbox.Instance
}

// loadHost builds the world from the manifest and instantiates the
// script for every declared environment.
func loadHost(ctx context.Context, wasmFile, manifestFile string, memPages uint32, log *zap.Logger) (*host, error) {
	m, err := manifest.LoadFile(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if m.MaxMemoryPages > 0 {
		memPages = m.MaxMemoryPages
	}

	w := world.New(world.WithLogger(log))
	envs, err := w.LoadEnvironment(m)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	rt, err := sandbox.NewRuntime(ctx, abi.NewTable(log), &sandbox.Config{MemoryLimitPages: memPages}, log)
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}

	wasmBytes, err := os.ReadFile(wasmFile)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("read script: %w", err)
	}
	mod, err := rt.Load(ctx, wasmBytes)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	h := &host{world: w, runtime: rt}
	for _, env := range envs {
		inst, err := mod.Instantiate(ctx, env)
		if err != nil {
			_ = h.close(ctx)
			return nil, err
		}
		if err := inst.Initialize(ctx); err != nil {
			_ = h.close(ctx)
			return nil, err
		}
		h.instances = append(h.instances, inst)
	}
	return h, nil
}

// tick advances every instance by dt.
func (h *host) tick(ctx context.Context, dt float32) error {
	for _, inst := range h.instances {
		if err := inst.Update(ctx, dt); err != nil {
			return fmt.Errorf("script %s: %w", inst.Env().Name, err)
		}
	}
	return nil
}

func (h *host) close(ctx context.Context) error {
	for _, inst := range h.instances {
		h.world.UnloadEnvironment(inst.Env())
		_ = inst.Close(ctx)
	}
	return h.runtime.Close(ctx)
}

func run(wasmFile, manifestFile string, ticks int, rate float64, memPages uint32, dump, verbose bool) error {
	ctx := context.Background()

	log := zap.NewNop()
	if verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	h, err := loadHost(ctx, wasmFile, manifestFile, memPages, log)
	if err != nil {
		return err
	}
	defer func() { _ = h.close(ctx) }()

	dt := float32(1 / rate)
	interval := time.Duration(float64(time.Second) / rate)
	start := time.Now()
	for i := 0; i < ticks; i++ {
		tickStart := time.Now()
		if err := h.tick(ctx, dt); err != nil {
			return err
		}
		if sleep := interval - time.Since(tickStart); sleep > 0 {
			time.Sleep(sleep)
		}
	}

	fmt.Printf("Ran %d ticks in %s (%d scripts, %d live resources)\n",
		ticks, time.Since(start).Round(time.Millisecond),
		len(h.instances), h.world.Reg.Len())

	if dump {
		dumpRegistry(h.world)
	}
	return nil
}

func dumpRegistry(w *world.World) {
	fmt.Println("\nResources:")
	w.Reg.Each(func(id resource.ID, res resource.Resource) bool {
		name := res.Label()
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %5d  %-14s %s\n", id, res.Kind(), name)
		return true
	})
}
