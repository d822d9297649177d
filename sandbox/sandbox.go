package sandbox

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/veldt-engine/scenehost/abi"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/world"
)

// HostModule is the import namespace guest scripts link against.
const HostModule = "websg"

// Guest entry points. Initialize is optional; Update runs every tick.
const (
	guestInitialize = "websg_initialize"
	guestUpdate     = "websg_update"
)

// Config bounds the guest runtime.
type Config struct {
	// MemoryLimitPages caps guest linear memory in 64KB pages.
	// 0 keeps the wazero default.
	MemoryLimitPages uint32
}

// Runtime owns the wazero runtime with the host surface bound. One
// Runtime serves any number of compiled scripts; each instance gets its
// own environment and linear memory.
type Runtime struct {
	runtime wazero.Runtime
	table   *abi.Table
	log     *zap.Logger
}

// envKey carries the calling script's environment through the context
// into host functions. Host calls run on the guest's calling goroutine,
// so the value is always the instance that invoked the export.
type envKey struct{}

func withEnv(ctx context.Context, env *world.Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

func envFrom(ctx context.Context) (*world.Env, bool) {
	env, ok := ctx.Value(envKey{}).(*world.Env)
	return env, ok
}

// NewRuntime builds a runtime with the dispatch table exported as the
// host module and WASI stubs available for toolchain-generated imports.
func NewRuntime(ctx context.Context, table *abi.Table, cfg *Config, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rcfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		rcfg = rcfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rcfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindCollaborator, err, "instantiate wasi")
	}

	r := &Runtime{runtime: rt, table: table, log: log}
	if err := r.bindHost(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return r, nil
}

// bindHost exports every table operation under the host module name.
// All parameters and results are i32 on the wire; floats travel as bit
// patterns.
func (r *Runtime) bindHost(ctx context.Context) error {
	builder := r.runtime.NewHostModuleBuilder(HostModule)

	for _, name := range r.table.Names() {
		op, _ := r.table.Lookup(name)
		params := make([]api.ValueType, op.Arity)
		for i := range params {
			params[i] = api.ValueTypeI32
		}

		opName := name
		onError := op.OnError
		handler := api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			env, ok := envFrom(ctx)
			if !ok {
				r.log.Error("host call without script environment",
					zap.String("op", opName))
				stack[0] = api.EncodeI32(onError)
				return
			}
			args := make([]uint32, len(params))
			for i := range args {
				args[i] = api.DecodeU32(stack[i])
			}
			result := r.table.Dispatch(env, guestMemory{mod.Memory()}, opName, args)
			stack[0] = api.EncodeI32(result)
		})

		builder.NewFunctionBuilder().
			WithGoModuleFunction(handler, params, []api.ValueType{api.ValueTypeI32}).
			Export(name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindCollaborator, err, "instantiate host module")
	}
	return nil
}

// Close tears down the runtime and every instance compiled from it.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Module is a compiled script, ready to instantiate.
type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// Load compiles guest wasm bytes.
func (r *Runtime) Load(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "compile script")
	}
	return &Module{runtime: r, compiled: compiled}, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// Instance is one running script bound to its environment.
type Instance struct {
	mod    api.Module
	env    *world.Env
	update api.Function
}

// Instantiate starts the module on behalf of env. The instance name is
// the environment name, so one module can back several environments.
func (m *Module) Instantiate(ctx context.Context, env *world.Env) (*Instance, error) {
	mcfg := wazero.NewModuleConfig().
		WithName(env.Name).
		WithStartFunctions() // reactor-style: entry points are explicit

	mod, err := m.runtime.runtime.InstantiateModule(withEnv(ctx, env), m.compiled, mcfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "instantiate script "+env.Name)
	}
	return &Instance{
		mod:    mod,
		env:    env,
		update: mod.ExportedFunction(guestUpdate),
	}, nil
}

// Env returns the script environment this instance runs as.
func (i *Instance) Env() *world.Env { return i.env }

// Memory exposes the instance's linear memory, or nil for memory-less
// modules.
func (i *Instance) Memory() api.Memory { return i.mod.Memory() }

// Initialize calls the optional websg_initialize export.
func (i *Instance) Initialize(ctx context.Context) error {
	fn := i.mod.ExportedFunction(guestInitialize)
	if fn == nil {
		return nil
	}
	if _, err := fn.Call(withEnv(ctx, i.env)); err != nil {
		return errors.Wrap(errors.PhaseDispatch, errors.KindCollaborator, err, "websg_initialize")
	}
	return nil
}

// Update calls websg_update with the tick delta in seconds.
func (i *Instance) Update(ctx context.Context, dt float32) error {
	if i.update == nil {
		return errors.InvalidInput(errors.PhaseDispatch, "script exports no websg_update")
	}
	if _, err := i.update.Call(withEnv(ctx, i.env), uint64(math.Float32bits(dt))); err != nil {
		return errors.Wrap(errors.PhaseDispatch, errors.KindCollaborator, err, "websg_update")
	}
	return nil
}

// Close stops the instance. The environment stays loaded; unloading it
// is the world's job.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
