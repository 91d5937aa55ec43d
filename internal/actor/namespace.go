package actor

import (
	"context"
	"sync"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/repository"
)

// Options configures the instances created by a Namespace.
type Options struct {
	InactivityPeriod time.Duration
	Now              func() time.Time
	NewID            func() string
}

func (o Options) withDefaults() Options {
	if o.InactivityPeriod <= 0 {
		o.InactivityPeriod = DefaultInactivityPeriod
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = defaultNewID
	}
	return o
}

// Namespace maps session codes onto actor instances. At most one operation
// runs per instance at a time; different instances run concurrently.
type Namespace struct {
	store repository.Store
	opts  Options

	mu        sync.Mutex
	instances map[string]*instance
}

// instance is a live entry. Entries are reference counted and removed once
// no caller holds them, so the map only contains instances in use.
type instance struct {
	lock      chan struct{}
	refs      int
	scheduler *Scheduler
}

// NewNamespace creates a namespace over the given store.
func NewNamespace(store repository.Store, opts Options) *Namespace {
	return &Namespace{
		store:     store,
		opts:      opts.withDefaults(),
		instances: make(map[string]*instance),
	}
}

// Now returns the namespace clock reading.
func (n *Namespace) Now() time.Time {
	return n.opts.Now()
}

// Do runs fn against the named instance with exclusive access. Waiting for
// the instance honours ctx.
func (n *Namespace) Do(ctx context.Context, name string, fn func(*Scheduler) error) error {
	name = NormalizeName(name)
	if name == "" {
		return domain.NewValidationError("sessionCode", "is required")
	}

	inst := n.acquire(name)
	defer n.release(name, inst)

	select {
	case inst.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-inst.lock }()

	return fn(inst.scheduler)
}

func (n *Namespace) acquire(name string) *instance {
	n.mu.Lock()
	defer n.mu.Unlock()

	inst, ok := n.instances[name]
	if !ok {
		inst = &instance{
			lock:      make(chan struct{}, 1),
			scheduler: newScheduler(repository.Instance(n.store, name), n.opts),
		}
		n.instances[name] = inst
	}
	inst.refs++
	return inst
}

func (n *Namespace) release(name string, inst *instance) {
	n.mu.Lock()
	defer n.mu.Unlock()

	inst.refs--
	if inst.refs == 0 {
		delete(n.instances, name)
	}
}

// active reports how many instances are currently held.
func (n *Namespace) active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.instances)
}
