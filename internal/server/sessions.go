package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/playperu/wayward/internal/hunt"
	"github.com/playperu/wayward/internal/play"
)

// sessions holds the single active play session.
type sessions struct {
	logger *slog.Logger
	broker *Broker
	deps   play.Deps

	selectMu sync.Mutex

	mu      sync.RWMutex
	current *play.Session
}

func newSessions(logger *slog.Logger, broker *Broker, deps play.Deps) *sessions {
	return &sessions{logger: logger, broker: broker, deps: deps}
}

// Select replaces the active session with one for h, resuming stored progress
// for the same hunt.
func (s *sessions) Select(ctx context.Context, h hunt.Hunt) (*play.Session, error) {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	// A new session retargets the tracker, which must not reach the old one.
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	sess, err := play.NewSession(ctx, h, s.deps)
	if err != nil {
		return nil, err
	}
	sess.OnChange(func(snap play.Snapshot) {
		if cur, ok := s.Current(); ok && cur == sess {
			s.broker.Publish(topicSession, "state", snap)
		}
	})

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("hunt selected", "hunt_id", h.ID)
	s.broker.Publish(topicSession, "state", sess.Snapshot())
	return sess, nil
}

func (s *sessions) Current() (*play.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

func (s *sessions) checkArrival(ctx context.Context) {
	if cur, ok := s.Current(); ok {
		cur.CheckArrival(ctx)
	}
}

// initial is the first message of a session stream.
func (s *sessions) initial() (Message, bool) {
	return snapshotMessage(s.Current())
}

func snapshotMessage(sess *play.Session, ok bool) (Message, bool) {
	if !ok {
		return Message{}, false
	}
	data, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return Message{}, false
	}
	return Message{Event: "state", Data: data}, true
}
