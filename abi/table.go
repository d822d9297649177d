package abi

import (
	stderrors "errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	scenehost "github.com/veldt-engine/scenehost"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
	"github.com/veldt-engine/scenehost/world"
)

// Guest-visible status codes. The ABI is int-only: id-returning
// operations return 0 on failure, status operations return -1. All
// diagnostic detail stays host-side.
const (
	StatusOK  int32 = 0
	StatusErr int32 = -1
)

// Call carries the per-invocation state a handler needs: the calling
// script's environment, the guest's linear memory, and the raw u32
// arguments as they came off the stack.
type Call struct {
	Env  *world.Env
	Mem  scenehost.Memory
	Args []uint32
}

// Arg returns argument i as a raw u32.
func (c *Call) Arg(i int) uint32 { return c.Args[i] }

// ID returns argument i reinterpreted as a resource handle.
func (c *Call) ID(i int) resource.ID { return resource.ID(c.Args[i]) }

// F32 returns argument i reinterpreted as a float bit pattern.
func (c *Call) F32(i int) float32 { return math.Float32frombits(c.Args[i]) }

// Cursor returns a cursor positioned at the guest pointer in argument i.
func (c *Call) Cursor(i int) (*memview.Cursor, error) {
	cur := memview.NewCursor(c.Mem)
	if err := cur.MoveTo(c.Args[i]); err != nil {
		return nil, err
	}
	return cur, nil
}

// String reads a (ptr, byteLength) argument pair starting at i.
func (c *Call) String(i int) (string, error) {
	cur := memview.NewCursor(c.Mem)
	return cur.ReadStringAt(c.Args[i], c.Args[i+1])
}

// access resolves the handle in argument i against the caller's
// capability set.
func (c *Call) access(i int, kind resource.Kind) (resource.Resource, error) {
	return c.Env.Caps.Access(c.Env.World().Reg, c.ID(i), kind)
}

func (c *Call) node(i int) (*resource.Node, error) {
	res, err := c.access(i, resource.KindNode)
	if err != nil {
		return nil, err
	}
	return res.(*resource.Node), nil
}

// decodeCtx builds the marshal context for this call.
func (c *Call) decodeCtx() *marshal.Context {
	return &marshal.Context{Reg: c.Env.World().Reg, Caps: c.Env.Caps}
}

// findByName resolves a name to the first matching resource the caller
// is authorized to see. Foreign resources with the same name are
// skipped, not errors: a script cannot learn what it cannot touch.
func (c *Call) findByName(kind resource.Kind, name string) resource.ID {
	var found resource.ID
	c.Env.World().Reg.Each(func(id resource.ID, res resource.Resource) bool {
		if res.Kind() == kind && res.Label() == name && c.Env.Caps.Authorized(id) {
			found = id
			return false
		}
		return true
	})
	return found
}

// writeF32s writes vals to the guest pointer in argument i.
func writeF32s(c *Call, i int, vals []float32) (int32, error) {
	cur, err := c.Cursor(i)
	if err != nil {
		return 0, err
	}
	if err := cur.WriteF32Array(vals); err != nil {
		return 0, err
	}
	return StatusOK, nil
}

// readF32s fills dst from the guest pointer in argument i. dst is only
// mutated when the whole read succeeds.
func readF32s(c *Call, i int, dst []float32) (int32, error) {
	cur, err := c.Cursor(i)
	if err != nil {
		return 0, err
	}
	vals, err := cur.ReadF32Array(uint32(len(dst)))
	if err != nil {
		return 0, err
	}
	copy(dst, vals)
	return StatusOK, nil
}

// writeIDs writes up to max ids to the guest pointer in argument i and
// returns how many were written.
func writeIDs(c *Call, i int, ids []resource.ID, max uint32) (int32, error) {
	if uint32(len(ids)) > max {
		ids = ids[:max]
	}
	cur, err := c.Cursor(i)
	if err != nil {
		return 0, err
	}
	raw := make([]uint32, len(ids))
	for j, id := range ids {
		raw[j] = uint32(id)
	}
	if err := cur.WriteU32Array(raw); err != nil {
		return 0, err
	}
	return int32(len(ids)), nil
}

// findByNameOp implements the *_find_by_name family: (ptr, len) name
// arguments, id result, 0 for no visible match.
func findByNameOp(c *Call, kind resource.Kind) (int32, error) {
	name, err := c.String(0)
	if err != nil {
		return 0, err
	}
	return int32(c.findByName(kind, name)), nil
}

func boolStatus(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Handler implements one guest-callable operation. The int32 result is
// what the guest receives; a non-nil error is logged and replaced by
// the operation's failure sentinel.
type Handler func(c *Call) (int32, error)

// Op is one entry in the dispatch table.
type Op struct {
	Name    string
	Arity   int
	OnError int32
	Handler Handler
}

// Table is the full guest-callable surface, keyed by export name.
// Construction registers every operation; the table is immutable after
// NewTable returns.
type Table struct {
	ops map[string]*Op
	log *zap.Logger
}

// NewTable builds the dispatch table.
func NewTable(log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{
		ops: make(map[string]*Op, 96),
		log: log,
	}
	t.registerWorldOps()
	t.registerNodeOps()
	t.registerSceneOps()
	t.registerMeshOps()
	t.registerMaterialOps()
	t.registerColliderOps()
	t.registerUIOps()
	return t
}

// opID registers an id-returning operation (0 on failure).
func (t *Table) opID(name string, arity int, h Handler) {
	t.register(&Op{Name: name, Arity: arity, OnError: 0, Handler: h})
}

// opStatus registers a status operation (-1 on failure).
func (t *Table) opStatus(name string, arity int, h Handler) {
	t.register(&Op{Name: name, Arity: arity, OnError: StatusErr, Handler: h})
}

func (t *Table) register(op *Op) {
	if _, dup := t.ops[op.Name]; dup {
		panic(fmt.Sprintf("abi: duplicate operation %q", op.Name))
	}
	t.ops[op.Name] = op
}

// Lookup returns the named operation.
func (t *Table) Lookup(name string) (*Op, bool) {
	op, ok := t.ops[name]
	return op, ok
}

// Names returns every registered operation name, sorted. The sandbox
// uses this to export the host module.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.ops))
	for name := range t.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one operation on behalf of env. Whatever goes wrong,
// the guest only ever sees the operation's failure sentinel; errors and
// panics are logged host-side and absorbed here.
func (t *Table) Dispatch(env *world.Env, mem scenehost.Memory, name string, args []uint32) (result int32) {
	op, ok := t.ops[name]
	if !ok {
		t.log.Error("unknown host operation",
			zap.String("op", name),
			zap.String("script", env.Name))
		return StatusErr
	}

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("host operation panicked",
				zap.String("op", name),
				zap.String("script", env.Name),
				zap.Any("panic", r))
			result = op.OnError
		}
	}()

	if len(args) != op.Arity {
		t.log.Warn("host operation arity mismatch",
			zap.String("op", name),
			zap.String("script", env.Name),
			zap.Int("got", len(args)),
			zap.Int("want", op.Arity))
		return op.OnError
	}

	res, err := op.Handler(&Call{Env: env, Mem: mem, Args: args})
	if err != nil {
		t.logFailure(name, env, err)
		return op.OnError
	}
	return res
}

func (t *Table) logFailure(name string, env *world.Env, err error) {
	fields := []zap.Field{
		zap.String("op", name),
		zap.String("script", env.Name),
	}
	var herr *errors.Error
	if stderrors.As(err, &herr) {
		fields = append(fields,
			zap.String("phase", string(herr.Phase)),
			zap.String("kind", string(herr.Kind)))
		if herr.Handle != 0 {
			fields = append(fields, zap.Uint32("handle", herr.Handle))
		}
	}
	fields = append(fields, zap.Error(err))
	t.log.Debug("host operation failed", fields...)
}
