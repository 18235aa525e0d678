// Package journal keeps the most recent dispatched events in an LRU cache.
package journal

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bluele/gcache"

	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

type Entry struct {
	Seq    uint64           `json:"seq"`
	Time   time.Time        `json:"time"`
	Kind   events.EventKind `json:"kind"`
	Source string           `json:"source"`
	Value  any              `json:"value,omitempty"`
}

// Journal records events under increasing sequence numbers. The cache holds
// at most size entries, the oldest are evicted first.
type Journal struct {
	mu    sync.Mutex
	cache gcache.Cache
	seq   uint64
	now   func() time.Time

	source Source
	names  []string
	subs   []subscription
}

// Source resolves emitter names. *scene.Scene implements it.
type Source interface {
	Emitter(name string) (events.Dispatcher, error)
	Sample(name string) any
}

type subscription struct {
	target events.Dispatcher
	kind   events.EventKind
	id     events.HandlerID
}

func New(size int) *Journal {
	return NewWithCache(gcache.New(size).LRU().Build())
}

func NewWithCache(cache gcache.Cache) *Journal {
	return &Journal{cache: cache, now: time.Now}
}

// NewJournal builds a journal on the cache of the instance in ctx, falling
// back to a fresh LRU sized by the config, and watches every named emitter
// of source once started.
func NewJournal(ctx context.Context, source Source, names ...string) (*Journal, error) {
	inst := instance.GetInstance(ctx)
	var j *Journal
	if inst.Cache != nil {
		j = NewWithCache(inst.Cache)
	} else {
		j = New(inst.Config.Journal.Size)
	}
	if err := j.Watch(source, names...); err != nil {
		return nil, err
	}
	inst.Journal = j
	return j, nil
}

// Watch selects the emitters recorded once the journal is started.
func (j *Journal) Watch(source Source, names ...string) error {
	for _, name := range names {
		if _, err := source.Emitter(name); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.source = source
	j.names = names
	return nil
}

func (j *Journal) Record(kind events.EventKind, source string, value any) Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	entry := Entry{
		Seq:    j.seq,
		Time:   j.now(),
		Kind:   kind,
		Source: source,
		Value:  value,
	}
	_ = j.cache.Set(entry.Seq, entry)
	return entry
}

// Recorder returns a handler recording every event it receives as coming
// from source. value, when not nil, is sampled at dispatch time.
func (j *Journal) Recorder(source string, value func() any) events.Handler {
	return func(e *events.Event) {
		var v any
		if value != nil {
			v = value()
		}
		j.Record(e.Kind, source, v)
	}
}

// Latest returns up to limit entries, newest first.
func (j *Journal) Latest(limit int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit <= 0 {
		return []Entry{}
	}
	first := uint64(1)
	if j.seq > uint64(limit) {
		first = j.seq - uint64(limit) + 1
	}
	// read oldest to newest so the LRU order of the cache is kept
	entries := make([]Entry, 0, limit)
	for seq := first; seq <= j.seq; seq++ {
		v, err := j.cache.Get(seq)
		if err != nil {
			continue
		}
		entries = append(entries, v.(Entry))
	}
	slices.Reverse(entries)
	return entries
}

// Start records every kind of event of the watched emitters.
func (j *Journal) Start(ctx context.Context) error {
	j.mu.Lock()
	source, names := j.source, j.names
	j.mu.Unlock()
	if source == nil {
		return nil
	}
	var subs []subscription
	for _, name := range names {
		target, err := source.Emitter(name)
		if err != nil {
			return err
		}
		name := name
		sample := func() any { return source.Sample(name) }
		for _, kind := range events.Kinds() {
			id := target.AddEventListener(kind, j.Recorder(name, sample))
			subs = append(subs, subscription{target, kind, id})
		}
	}
	j.mu.Lock()
	j.subs = append(j.subs, subs...)
	j.mu.Unlock()
	return nil
}

func (j *Journal) Close(ctx context.Context) {
	j.mu.Lock()
	subs := j.subs
	j.subs = nil
	j.mu.Unlock()
	for _, sub := range subs {
		sub.target.RemoveEventListener(sub.kind, sub.id)
	}
	j.cache.Purge()
}
