package resource

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventUnregistered
)

// Event describes a resource lifecycle transition.
type Event struct {
	Resource Resource
	ID       ID
	Kind     Kind
	Type     EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Registry is the engine-wide mapping from IDs to live resources.
//
// All mutation happens on the single logical owner goroutine that runs
// the simulation tick, so the registry does not lock; callers that need
// cross-goroutine access must serialize externally.
//
// IDs are never reused while the resource is alive. After Unregister the
// slot returns to a free list and the integer may be handed out again,
// which is why callers must not retain stale IDs.
type Registry struct {
	entries   []entry
	freeList  []ID
	observers []Observer
	live      int
}

type entry struct {
	res   Resource
	kind  Kind
	valid bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]entry, 0, 64),
		freeList: make([]ID, 0, 16),
	}
}

// Register stores res and returns its freshly allocated id.
func (r *Registry) Register(res Resource) ID {
	if res == nil {
		return 0
	}

	e := entry{res: res, kind: res.Kind(), valid: true}
	r.live++

	var id ID
	if n := len(r.freeList); n > 0 {
		id = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.entries[id-1] = e
	} else {
		r.entries = append(r.entries, e)
		id = ID(len(r.entries))
	}

	r.notify(Event{Type: EventRegistered, ID: id, Kind: e.kind, Resource: res})
	return id
}

// Lookup retrieves a resource by id.
func (r *Registry) Lookup(id ID) (Resource, bool) {
	if id == 0 || int(id) > len(r.entries) {
		return nil, false
	}
	e := r.entries[id-1]
	if !e.valid {
		return nil, false
	}
	return e.res, true
}

// LookupKind retrieves a resource only if it carries the expected kind.
func (r *Registry) LookupKind(id ID, kind Kind) (Resource, bool) {
	res, ok := r.Lookup(id)
	if !ok || res.Kind() != kind {
		return nil, false
	}
	return res, true
}

// KindOf reports the kind tag for a live id.
func (r *Registry) KindOf(id ID) (Kind, bool) {
	res, ok := r.Lookup(id)
	if !ok {
		return KindInvalid, false
	}
	return res.Kind(), true
}

// Unregister removes the mapping, making the id immediately invalid for
// every future lookup, including by scripts that still hold it.
func (r *Registry) Unregister(id ID) (Resource, bool) {
	if id == 0 || int(id) > len(r.entries) {
		return nil, false
	}
	e := &r.entries[id-1]
	if !e.valid {
		return nil, false
	}

	res := e.res
	kind := e.kind
	e.valid = false
	e.res = nil
	r.freeList = append(r.freeList, id)
	r.live--

	r.notify(Event{Type: EventUnregistered, ID: id, Kind: kind, Resource: res})
	return res, true
}

// Len returns the number of live resources.
func (r *Registry) Len() int { return r.live }

// Each iterates live resources in id order until fn returns false.
func (r *Registry) Each(fn func(ID, Resource) bool) {
	for i := range r.entries {
		e := r.entries[i]
		if !e.valid {
			continue
		}
		if !fn(ID(i+1), e.res) {
			return
		}
	}
}

// FindByName returns the first live resource of the given kind whose
// name matches. Names are optional and not unique; first match in id
// order wins, 0 when nothing matches.
func (r *Registry) FindByName(kind Kind, name string) ID {
	if name == "" {
		return 0
	}
	var found ID
	r.Each(func(id ID, res Resource) bool {
		if res.Kind() == kind && res.Label() == name {
			found = id
			return false
		}
		return true
	})
	return found
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	for _, o := range r.observers {
		o.OnResourceEvent(e)
	}
}
