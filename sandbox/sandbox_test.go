package sandbox

import (
	"context"
	"testing"

	"github.com/veldt-engine/scenehost/abi"
	"github.com/veldt-engine/scenehost/world"
)

// emptyModule is the smallest valid wasm binary: magic and version,
// nothing else.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestRuntimeLifecycle(t *testing.T) {
	ctx := context.Background()
	w := world.New()
	env := w.NewEnv("s")

	rt, err := NewRuntime(ctx, abi.NewTable(nil), &Config{MemoryLimitPages: 16}, nil)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, emptyModule)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inst, err := mod.Instantiate(ctx, env)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer inst.Close(ctx)

	// No initialize export is fine; no update export is not.
	if err := inst.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := inst.Update(ctx, 1.0/60); err == nil {
		t.Fatal("expected error for missing websg_update export")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	rt, err := NewRuntime(ctx, abi.NewTable(nil), nil, nil)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	defer rt.Close(ctx)

	if _, err := rt.Load(ctx, []byte("not wasm")); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEnvContextRoundTrip(t *testing.T) {
	w := world.New()
	env := w.NewEnv("s")

	ctx := withEnv(context.Background(), env)
	got, ok := envFrom(ctx)
	if !ok || got != env {
		t.Fatalf("envFrom = %v, %v", got, ok)
	}
	if _, ok := envFrom(context.Background()); ok {
		t.Fatal("bare context should carry no environment")
	}
}
