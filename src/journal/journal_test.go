package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/bluele/gcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bililive-go/eventdispatcher/src/configs"
	"github.com/bililive-go/eventdispatcher/src/instance"
	"github.com/bililive-go/eventdispatcher/src/pkg/events"
)

func TestLatestNewestFirst(t *testing.T) {
	j := New(16)
	j.Record(events.Change, "value", 1)
	j.Record(events.Tap, "reset", nil)
	j.Record(events.Change, "value", 0)

	entries := j.Latest(10)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(3), entries[0].Seq)
	assert.Equal(t, 0, entries[0].Value)
	assert.Equal(t, events.Tap, entries[1].Kind)
	assert.Equal(t, "reset", entries[1].Source)
	assert.Equal(t, uint64(1), entries[2].Seq)

	assert.Len(t, j.Latest(2), 2)
	assert.Empty(t, j.Latest(0))
}

func TestEviction(t *testing.T) {
	j := New(3)
	for i := 0; i < 5; i++ {
		j.Record(events.Change, "value", i)
	}
	entries := j.Latest(10)
	require.Len(t, entries, 3)
	assert.Equal(t, 4, entries[0].Value)
	assert.Equal(t, 2, entries[2].Value)
}

func TestRecorder(t *testing.T) {
	j := New(8)
	v := events.NewValueWithRegistry(events.NewRegistry(), 10)
	v.AddEventListener(events.Change, j.Recorder("value", func() any { return v.Get() }))

	v.Set(11)
	v.Set(12)
	entries := j.Latest(5)
	require.Len(t, entries, 2)
	assert.Equal(t, 12, entries[0].Value)
	assert.Equal(t, 11, entries[1].Value)
	assert.Equal(t, "value", entries[1].Source)
}

type fakeSource struct {
	value *events.DispatchingValue[int]
	reset *events.Emitter
}

func (f *fakeSource) Emitter(name string) (events.Dispatcher, error) {
	switch name {
	case "value":
		return f.value, nil
	case "reset":
		return f.reset, nil
	}
	return nil, errors.New("unknown emitter " + name)
}

func (f *fakeSource) Sample(name string) any {
	if name == "value" {
		return f.value.Get()
	}
	return nil
}

func TestWatch(t *testing.T) {
	r := events.NewRegistry()
	src := &fakeSource{value: events.NewValueWithRegistry(r, 25), reset: events.NewEmitter(r)}
	j := New(8)
	require.Error(t, j.Watch(src, "knob"))
	require.NoError(t, j.Watch(src, "value", "reset"))

	src.value.Set(1)
	assert.Empty(t, j.Latest(5), "nothing recorded before start")

	require.NoError(t, j.Start(context.Background()))
	src.reset.DispatchEvent(events.NewEvent(events.Tap, src.reset))
	src.value.Set(0)

	entries := j.Latest(5)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Seq: 2, Time: entries[0].Time, Kind: events.Change, Source: "value", Value: 0}, entries[0])
	assert.Equal(t, "reset", entries[1].Source)
	assert.Nil(t, entries[1].Value)

	j.Close(context.Background())
	assert.Equal(t, 0, r.Emitters())
	assert.Empty(t, j.Latest(5))
}

func TestNewJournalUsesInstanceCache(t *testing.T) {
	cache := gcache.New(2).LRU().Build()
	inst := &instance.Instance{Config: configs.NewConfig(), Cache: cache}
	ctx := context.WithValue(context.Background(), instance.Key, inst)
	src := &fakeSource{value: events.NewValue(1), reset: &events.Emitter{}}

	j, err := NewJournal(ctx, src, "value")
	require.NoError(t, err)
	assert.Same(t, j, inst.Journal)

	j.Record(events.Change, "value", 1)
	v, err := cache.Get(uint64(1))
	require.NoError(t, err)
	assert.Equal(t, "value", v.(Entry).Source)
}
