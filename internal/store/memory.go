package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store with real fan-out subscriptions. It backs
// every test in the repository and local development without Firebase
// credentials. Values are held in normalized JSON form (maps, slices,
// primitives) in a single tree, matching the database's one-big-JSON-tree
// model, including the pruning of empty branches.
type MemoryStore struct {
	mu   sync.Mutex
	root map[string]interface{}
	keys pushKeyGen
	subs map[*memorySub]struct{}
}

type memorySub struct {
	path []string
	sub  *Subscription

	mu     sync.Mutex
	latest Event
	wake   chan struct{}
	done   chan struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root: make(map[string]interface{}),
		subs: make(map[*memorySub]struct{}),
	}
}

var _ Store = (*MemoryStore)(nil)

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, path string, dest interface{}) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return errors.New("empty path")
	}

	m.mu.Lock()
	val, ok := lookupAt(m.root, segs)
	var raw []byte
	var err error
	if ok {
		raw, err = json.Marshal(val)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("get %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("get %q: decode: %w", path, err)
	}
	return nil
}

// Set implements Store. A nil value deletes the subtree, as in the real
// database.
func (m *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return errors.New("empty path")
	}
	norm, err := normalize(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}

	m.mu.Lock()
	if norm == nil {
		removeAt(m.root, segs)
	} else {
		insertAt(m.root, segs, norm)
	}
	m.notifyLocked(segs)
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

// Push implements Store.
func (m *MemoryStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := m.keys.next()
	if err := m.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Watch implements Store. The subscription immediately yields the current
// value (or absence) and then every change overlapping the watched path.
func (m *MemoryStore) Watch(ctx context.Context, path string) (*Subscription, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, errors.New("empty path")
	}

	ms := &memorySub{
		path: segs,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	ms.sub = newSubscription(func() {
		m.mu.Lock()
		delete(m.subs, ms)
		m.mu.Unlock()
		close(ms.done)
	})

	m.mu.Lock()
	m.subs[ms] = struct{}{}
	ms.publish(m.eventAtLocked(path, segs))
	m.mu.Unlock()

	go ms.deliver()
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				ms.sub.Close()
			case <-ms.done:
			}
		}()
	}
	return ms.sub, nil
}

// notifyLocked republishes the watched value to every subscriber whose path
// overlaps the written one. Caller holds m.mu.
func (m *MemoryStore) notifyLocked(wrote []string) {
	for ms := range m.subs {
		if pathsOverlap(ms.path, wrote) {
			ms.publish(m.eventAtLocked(Join(ms.path...), ms.path))
		}
	}
}

func (m *MemoryStore) eventAtLocked(path string, segs []string) Event {
	val, ok := lookupAt(m.root, segs)
	if !ok {
		return Event{Path: path}
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return Event{Path: path}
	}
	return Event{Path: path, Value: raw, Exists: true}
}

func (ms *memorySub) publish(ev Event) {
	ms.mu.Lock()
	ms.latest = ev
	ms.mu.Unlock()
	select {
	case ms.wake <- struct{}{}:
	default:
	}
}

// deliver forwards the latest snapshot to the subscriber, coalescing bursts.
func (ms *memorySub) deliver() {
	defer close(ms.sub.events)
	for {
		select {
		case <-ms.done:
			return
		case <-ms.wake:
		}
		ms.mu.Lock()
		ev := ms.latest
		ms.mu.Unlock()
		select {
		case ms.sub.events <- ev:
		case <-ms.done:
			return
		}
	}
}

// normalize round-trips a value through JSON so the tree only ever holds
// map[string]interface{}, []interface{}, and primitives.
func normalize(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lookupAt(node interface{}, segs []string) (interface{}, bool) {
	if len(segs) == 0 {
		return node, true
	}
	m, ok := node.(map[string]interface{})
	if !ok {
		return nil, false
	}
	child, ok := m[segs[0]]
	if !ok {
		return nil, false
	}
	return lookupAt(child, segs[1:])
}

func insertAt(node map[string]interface{}, segs []string, value interface{}) {
	if len(segs) == 1 {
		node[segs[0]] = value
		return
	}
	child, ok := node[segs[0]].(map[string]interface{})
	if !ok {
		// Writing below a leaf replaces the leaf with a branch.
		child = make(map[string]interface{})
		node[segs[0]] = child
	}
	insertAt(child, segs[1:], value)
}

func removeAt(node map[string]interface{}, segs []string) {
	if len(segs) == 1 {
		delete(node, segs[0])
		return
	}
	child, ok := node[segs[0]].(map[string]interface{})
	if !ok {
		return
	}
	removeAt(child, segs[1:])
	if len(child) == 0 {
		delete(node, segs[0])
	}
}
