package tracker

import (
	"cmp"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"github.com/wxnacy/jmcomic-cli/internal/event"
)

// View is what display collaborators get: read-only snapshots, change
// notifications and the dismiss operations.
type View interface {
	Snapshot() []Task
	Summary() Summary
	Subscribe(ctx context.Context, handler func(Change)) error
	Dismiss(kind event.Kind, id string) bool
	DismissTerminal() int
}

// Registry maps identities to task records. It is the only owner of the
// records; all reads return copies.
type Registry struct {
	mu      sync.RWMutex
	tasks   map[Identity]*Task
	seq     uint64
	summary Summary

	subMu   sync.RWMutex
	subs    map[uint64]func(Change)
	nextSub uint64

	now func() time.Time
}

var _ View = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[Identity]*Task),
		subs:  make(map[uint64]func(Change)),
		now:   time.Now,
	}
}

// Get returns a copy of the task for id.
func (r *Registry) Get(id Identity) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Snapshot returns copies of all tasks in creation order.
func (r *Registry) Snapshot() []Task {
	r.mu.RLock()
	list := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		list = append(list, *t)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b Task) int { return cmp.Compare(a.seq, b.seq) })
	return list
}

func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// Subscribe registers handler for every change until ctx is done. Handlers
// run synchronously on the goroutine that mutated the registry and must not
// block.
func (r *Registry) Subscribe(ctx context.Context, handler func(Change)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = handler
	r.subMu.Unlock()

	go func() {
		<-ctx.Done()
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}()
	return nil
}

func (r *Registry) publish(c Change) {
	r.subMu.RLock()
	handlers := make([]func(Change), 0, len(r.subs))
	for _, h := range r.subs {
		handlers = append(handlers, h)
	}
	r.subMu.RUnlock()

	for _, h := range handlers {
		h(c)
	}
}

// Dismiss removes a finished task. In-flight and unknown tasks are left
// alone and false is returned.
func (r *Registry) Dismiss(kind event.Kind, id string) bool {
	key := Identity{Kind: kind, ID: id}
	r.mu.Lock()
	t, ok := r.tasks[key]
	if !ok || !t.IsTerminal() {
		r.mu.Unlock()
		return false
	}
	delete(r.tasks, key)
	removed := *t
	r.mu.Unlock()

	r.publish(Change{Type: ChangeRemoved, Task: removed})
	return true
}

// DismissTerminal removes every finished task and returns how many went.
func (r *Registry) DismissTerminal() int {
	r.mu.Lock()
	var removed []Task
	for key, t := range r.tasks {
		if t.IsTerminal() {
			removed = append(removed, *t)
			delete(r.tasks, key)
		}
	}
	r.mu.Unlock()

	slices.SortFunc(removed, func(a, b Task) int { return cmp.Compare(a.seq, b.seq) })
	for _, t := range removed {
		r.publish(Change{Type: ChangeRemoved, Task: t})
	}
	return len(removed)
}

// update runs fn on the record for id under the write lock, creating an
// empty record first when none exists. fn reports whether it changed the
// record; unchanged existing records publish nothing.
func (r *Registry) update(id Identity, fn func(t *Task, found bool) bool) (Task, bool) {
	r.mu.Lock()
	t, found := r.tasks[id]
	if !found {
		r.seq++
		now := r.now()
		t = &Task{Kind: id.Kind, ID: id.ID, seq: r.seq, CreatedAt: now}
	}
	changed := fn(t, found)
	if !found {
		r.tasks[id] = t
	}
	if changed || !found {
		t.UpdatedAt = r.now()
	}
	snapshot := *t
	r.mu.Unlock()

	switch {
	case !found:
		r.publish(Change{Type: ChangeCreated, Task: snapshot})
	case changed:
		r.publish(Change{Type: ChangeUpdated, Task: snapshot})
	}
	return snapshot, changed || !found
}

func (r *Registry) updateSummary(fn func(s *Summary)) Summary {
	r.mu.Lock()
	fn(&r.summary)
	r.summary.UpdatedAt = r.now()
	s := r.summary
	r.mu.Unlock()

	r.publish(Change{Type: ChangeSummary, Summary: s})
	return s
}

func (r *Registry) warn(msg string) {
	r.publish(Change{Type: ChangeWarning, Warning: msg})
}
