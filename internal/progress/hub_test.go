package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Consume(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *captureSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func validEvent(stage Stage) Event {
	return Event{
		RunID: uuid.New(),
		TS:    time.Now().UTC(),
		Stage: stage,
		URL:   "http://example.com",
	}
}

func TestHubDeliversInOrder(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)

	hub.Emit(validEvent(StageRunStart))
	hub.Emit(validEvent(StageFetchDone))
	hub.Emit(validEvent(StageRunDone))
	hub.Close()

	got := sink.all()
	require.Len(t, got, 3)
	require.Equal(t, StageRunStart, got[0].Stage)
	require.Equal(t, StageFetchDone, got[1].Stage)
	require.Equal(t, StageRunDone, got[2].Stage)
}

func TestHubDiscardsInvalidEvents(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)

	hub.Emit(Event{Stage: StageRunStart}) // missing run id and timestamp
	hub.Close()

	require.Empty(t, sink.all())
}

func TestHubEmitAfterCloseIsIgnored(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)
	hub.Close()

	hub.Emit(validEvent(StageRunStart))
	require.Empty(t, sink.all())
}

func TestNilHubIsSafe(t *testing.T) {
	var hub *Hub
	hub.Emit(validEvent(StageRunStart))
	hub.Close()
}

func TestEventValidate(t *testing.T) {
	evt := validEvent(StageFetchError)
	require.Error(t, evt.Validate(), "fetch error requires error text")

	evt.Err = "boom"
	require.NoError(t, evt.Validate())

	evt.Stage = "BOGUS"
	require.Error(t, evt.Validate())

	evt = validEvent(StageFetchDone)
	evt.URL = ""
	require.Error(t, evt.Validate())
}
