package session_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/log"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/notify"
	"github.com/peoplepower/ppsync-go/pkg/notify/mocks"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/session"
	"github.com/peoplepower/ppsync-go/pkg/store"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

type plan struct {
	ID        opt.Value[int]
	Desc      opt.Value[string]
	Available opt.Value[enum.TriState]
}

var planTable = model.NewTable[plan]("plan",
	model.Int("planId", func(p *plan) *opt.Value[int] { return &p.ID }).Identity(),
	model.String("desc", func(p *plan) *opt.Value[string] { return &p.Desc }),
	model.TriState("available", func(p *plan) *opt.Value[enum.TriState] { return &p.Available }),
)

func planKey(p *plan) int { return p.ID.Or(0) }

type memLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (m *memLogger) Log(e log.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *memLogger) categories() []log.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]log.Category, len(m.events))
	for i, e := range m.events {
		out[i] = e.Category
	}
	return out
}

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) Persist(collection string, id any, p wire.Payload) error {
	return m.Called(collection, id, p).Error(0)
}

var fixed = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newSession(t *testing.T, opts ...session.Option) (*session.Session, *session.Collection[int, plan]) {
	t.Helper()
	opts = append([]session.Option{session.WithID("test"), session.WithClock(func() time.Time { return fixed })}, opts...)
	s := session.New(opts...)
	t.Cleanup(s.Close)
	return s, session.Register(s, "servicePlans", planTable, planKey)
}

func TestApplyScenario(t *testing.T) {
	_, plans := newSession(t)

	first, err := plans.Apply(wire.Payload{"planId": 7, "available": false, "desc": "A"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, 7, first.ID)
	assert.Equal(t, []string{"planId", "desc", "available"}, first.Changes.Paths())
	held := first.Record

	second, err := plans.Apply(wire.Payload{"planId": 7, "available": true, "desc": "A"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Same(t, held, second.Record, "one live instance per id")
	assert.Equal(t, []string{"available"}, second.Changes.Paths())
	assert.Equal(t, opt.Some(enum.TriStateTrue), held.Available)

	third, err := plans.Apply(wire.Payload{"planId": 7, "available": true, "desc": "A"})
	require.NoError(t, err)
	assert.True(t, third.Changes.Empty())

	assert.Equal(t, store.StateSynced, plans.State(7))
	assert.Equal(t, 1, plans.Len())
}

func TestApplyMissingIdentity(t *testing.T) {
	_, plans := newSession(t)

	_, err := plans.Apply(wire.Payload{"desc": "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingIdentity)
	assert.Contains(t, err.Error(), "servicePlans")
	assert.Equal(t, 0, plans.Len())
}

func TestApplyReportsIssues(t *testing.T) {
	_, plans := newSession(t)

	res, err := plans.Apply(wire.Payload{"planId": 7, "available": 99, "desc": 3})
	require.NoError(t, err)
	require.Error(t, res.Issues)
	assert.ErrorIs(t, res.Issues, model.ErrUnrecognizedEnum)
	assert.ErrorIs(t, res.Issues, model.ErrTypeMismatch)
	assert.False(t, res.Record.Desc.IsSet())
}

func TestApplyBatch(t *testing.T) {
	_, plans := newSession(t)

	batch := plans.ApplyBatch([]wire.Payload{
		{"planId": 1},
		{"desc": "no id"},
		{"planId": 2},
	})
	require.Len(t, batch.Results, 2)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, 1, batch.Failures[0].Index)
	assert.ErrorIs(t, batch.Err(), model.ErrMissingIdentity)
	assert.ElementsMatch(t, []int{1, 2}, plans.IDs())

	ok := plans.ApplyBatch([]wire.Payload{{"planId": 3}})
	assert.NoError(t, ok.Err())
}

func TestPatch(t *testing.T) {
	_, plans := newSession(t)
	_, err := plans.Apply(wire.Payload{"planId": 7, "available": -1, "desc": "A"})
	require.NoError(t, err)

	res, err := plans.Patch(7, wire.Payload{"desc": "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"desc"}, res.Changes.Paths())
	assert.Equal(t, opt.Some(enum.TriStateNone), res.Record.Available)

	_, err = plans.Patch(8, wire.Payload{"desc": "B"})
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestPatchCannotRebindIdentity(t *testing.T) {
	_, plans := newSession(t)
	_, err := plans.Apply(wire.Payload{"planId": 7})
	require.NoError(t, err)

	res, err := plans.Patch(7, wire.Payload{"planId": 8})
	require.NoError(t, err)
	assert.True(t, res.Changes.Empty())
	assert.ErrorIs(t, res.Issues, model.ErrIdentityMismatch)
	assert.Equal(t, opt.Some(7), res.Record.ID)

	created, err := plans.Apply(wire.Payload{"planId": 8})
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.NotSame(t, res.Record, created.Record)

	seven, ok := plans.Lookup(7)
	require.True(t, ok)
	assert.Same(t, res.Record, seven)
	assert.Equal(t, opt.Some(7), seven.ID)
}

func TestEvictAndRevive(t *testing.T) {
	_, plans := newSession(t)
	res, err := plans.Apply(wire.Payload{"planId": 7})
	require.NoError(t, err)

	require.True(t, plans.Evict(7))
	assert.False(t, plans.Evict(7))
	assert.Equal(t, store.StateEvicted, plans.State(7))
	_, ok := plans.Lookup(7)
	assert.False(t, ok)

	_, err = plans.Apply(wire.Payload{"planId": 7})
	assert.ErrorIs(t, err, store.ErrEvicted)

	require.True(t, plans.Revive(7))
	again, err := plans.Apply(wire.Payload{"planId": 7})
	require.NoError(t, err)
	assert.True(t, again.Created)
	assert.NotSame(t, res.Record, again.Record)

	got, err := plans.Get(7)
	require.NoError(t, err)
	assert.Same(t, again.Record, got)
	r, ok := plans.Resolve(store.RefTo(7))
	assert.True(t, ok)
	assert.Same(t, got, r)
}

func TestObserversNotified(t *testing.T) {
	s, plans := newSession(t)
	obs := mocks.NewMockObserver(t)
	_, err := s.Dispatcher().Subscribe(notify.Filter{Collection: "servicePlans"}, obs)
	require.NoError(t, err)

	obs.EXPECT().OnChange(notify.Change{
		Collection: "servicePlans", ID: 7, Kind: notify.Created,
		Changes: []string{"planId", "available"}, Timestamp: fixed,
	}).Return().Once()
	obs.EXPECT().OnChange(notify.Change{
		Collection: "servicePlans", ID: 7, Kind: notify.Updated,
		Changes: []string{"available"}, Timestamp: fixed,
	}).Return().Once()
	obs.EXPECT().OnChange(notify.Change{
		Collection: "servicePlans", ID: 7, Kind: notify.Evicted, Timestamp: fixed,
	}).Return().Once()

	_, err = plans.Apply(wire.Payload{"planId": 7, "available": false})
	require.NoError(t, err)
	_, err = plans.Apply(wire.Payload{"planId": 7, "available": true})
	require.NoError(t, err)
	_, err = plans.Apply(wire.Payload{"planId": 7, "available": true})
	require.NoError(t, err)
	plans.Evict(7)
}

func TestPersister(t *testing.T) {
	p := &mockPersister{}
	p.Test(t)
	p.On("Persist", "servicePlans", 7, wire.Payload{"planId": 7, "desc": "A"}).Return(nil).Once()
	p.On("Persist", "servicePlans", 7, wire.Payload{"planId": 7, "desc": "B"}).Return(errors.New("disk full")).Once()

	logger := &memLogger{}
	_, plans := newSession(t, session.WithPersister(p), session.WithLogger(logger))

	_, err := plans.Apply(wire.Payload{"planId": 7, "desc": "A"})
	require.NoError(t, err)
	_, err = plans.Apply(wire.Payload{"planId": 7, "desc": "A"})
	require.NoError(t, err)
	_, err = plans.Apply(wire.Payload{"planId": 7, "desc": "B"})
	require.NoError(t, err, "persist failures never fail a sync")

	p.AssertExpectations(t)
	assert.Contains(t, logger.categories(), log.CategoryError)
}

func TestEventLog(t *testing.T) {
	logger := &memLogger{}
	_, plans := newSession(t, session.WithLogger(logger))

	_, err := plans.Apply(wire.Payload{"planId": 7, "available": 5})
	require.NoError(t, err)
	plans.Evict(7)

	assert.Equal(t, []log.Category{log.CategoryDecode, log.CategorySync, log.CategoryState}, logger.categories())
	decode := logger.events[0]
	assert.Equal(t, "test", decode.SessionID)
	assert.Equal(t, "servicePlans", decode.Collection)
	assert.Equal(t, "7", decode.RecordID)
	require.Len(t, decode.Decode.Issues, 1)
	assert.Equal(t, "available", decode.Decode.Issues[0].Path)
	assert.Equal(t, []string{"planId", "available"}, logger.events[1].Sync.Changes)
	assert.Equal(t, "EVICTED", logger.events[2].StateChange.NewState)
}

func TestSessionRegistry(t *testing.T) {
	s, plans := newSession(t)
	assert.Equal(t, "test", s.ID())
	assert.Equal(t, []string{"servicePlans"}, s.Collections())

	a, err := s.Collection("servicePlans")
	require.NoError(t, err)
	assert.Equal(t, plans.Name(), a.Name())

	_, err = s.Collection("nope")
	assert.ErrorIs(t, err, session.ErrUnknownCollection)

	assert.Panics(t, func() { session.Register(s, "servicePlans", planTable, planKey) })
}

func TestApplierAndSnapshot(t *testing.T) {
	s, _ := newSession(t)
	a, err := s.Collection("servicePlans")
	require.NoError(t, err)

	out, err := a.ApplyPayload(wire.Payload{"planId": 2, "desc": "two"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.ID)
	assert.True(t, out.Created)
	_, err = a.ApplyPayload(wire.Payload{"planId": 1})
	require.NoError(t, err)

	snap := a.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, wire.Payload{"planId": 1}, snap[0])
	assert.Equal(t, wire.Payload{"planId": 2, "desc": "two"}, snap[1])
}

func TestClose(t *testing.T) {
	s := session.New()
	assert.NotEmpty(t, s.ID())
	plans := session.Register(s, "servicePlans", planTable, planKey)
	res, err := plans.Apply(wire.Payload{"planId": 7, "desc": "A"})
	require.NoError(t, err)

	s.Close()
	s.Close()
	assert.True(t, s.Closed())
	assert.Equal(t, 0, plans.Len())
	assert.Equal(t, opt.Some("A"), res.Record.Desc, "holders keep their record")

	_, err = plans.Apply(wire.Payload{"planId": 7})
	assert.ErrorIs(t, err, session.ErrClosed)
	_, err = s.Collection("servicePlans")
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestConcurrentApplyDistinctIDs(t *testing.T) {
	_, plans := newSession(t)
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := plans.Apply(wire.Payload{"planId": id})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, plans.Len())
}
