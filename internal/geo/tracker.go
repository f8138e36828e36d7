package geo

import (
	"context"
	"sync"
	"time"

	"github.com/playperu/wayward/internal/hunt"
)

// Reading is the tracker's latest derived state. Distance, Bearing and
// ArrowRotation are only meaningful when Valid is true, which requires both a
// fix and a target.
type Reading struct {
	HasFix        bool             `json:"hasFix"`
	Position      hunt.Coordinate  `json:"position"`
	Heading       float64          `json:"heading"`
	Target        *hunt.Coordinate `json:"target,omitempty"`
	Valid         bool             `json:"valid"`
	Distance      float64          `json:"distance"`
	Bearing       float64          `json:"bearing"`
	ArrowRotation float64          `json:"arrowRotation"`
}

// Tracker folds position and heading samples from a platform source into
// distance and bearing toward a target. Samples arriving while the tracker
// is stopped are dropped.
//
// A tracker is running while it is started or while any one-off request
// holds it. Stop clears only the start, never another caller's hold.
type Tracker struct {
	mu        sync.RWMutex
	started   bool
	holds     int
	position  *hunt.Coordinate
	heading   float64
	target    *hunt.Coordinate
	reading   Reading
	listeners map[int]func(Reading)
	nextID    int
}

func NewTracker() *Tracker {
	return &Tracker{listeners: make(map[int]func(Reading))}
}

// Start authorizes and activates sample delivery.
func (t *Tracker) Start() {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	t.started = false
	t.mu.Unlock()
}

func (t *Tracker) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running()
}

// hold keeps the tracker running until the returned release is called.
// Calling release more than once has no further effect.
func (t *Tracker) hold() (release func()) {
	t.mu.Lock()
	t.holds++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.holds--
			t.mu.Unlock()
		})
	}
}

// running must be called with mu held.
func (t *Tracker) running() bool {
	return t.started || t.holds > 0
}

// UpdatePosition records a new fix. Out-of-range coordinates are ignored.
func (t *Tracker) UpdatePosition(c hunt.Coordinate) {
	if !c.Valid() {
		return
	}
	t.update(func() bool {
		if !t.running() {
			return false
		}
		t.position = &c
		return true
	})
}

// UpdateHeading records a true heading in degrees. Samples with negative
// accuracy are unreliable and ignored.
func (t *Tracker) UpdateHeading(degrees, accuracy float64) {
	if accuracy < 0 {
		return
	}
	t.update(func() bool {
		if !t.running() {
			return false
		}
		t.heading = degrees
		return true
	})
}

// SetTarget points the tracker at c, or clears the target when c is nil.
func (t *Tracker) SetTarget(c *hunt.Coordinate) {
	t.update(func() bool {
		if c == nil {
			t.target = nil
			return true
		}
		target := *c
		t.target = &target
		return true
	})
}

func (t *Tracker) Reading() Reading {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reading
}

// Distance returns the distance to the target in meters, or false when there
// is no fix or no target.
func (t *Tracker) Distance() (float64, bool) {
	r := t.Reading()
	return r.Distance, r.Valid
}

func (t *Tracker) Bearing() (float64, bool) {
	r := t.Reading()
	return r.Bearing, r.Valid
}

// IsWithinRadius reports whether the distance is defined and at most radius.
func (t *Tracker) IsWithinRadius(radius float64) bool {
	d, ok := t.Distance()
	return ok && d <= radius
}

// OnChange registers fn to be called with every new reading. The returned
// func removes the registration.
func (t *Tracker) OnChange(fn func(Reading)) (cancel func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// CurrentLocation holds the tracker running, waits for the fixed duration
// (or until ctx is done) and returns whatever fix exists by then. A Start
// made by someone else during the wait stays in effect.
func (t *Tracker) CurrentLocation(ctx context.Context, wait time.Duration) (hunt.Coordinate, bool) {
	release := t.hold()
	defer release()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	r := t.Reading()
	return r.Position, r.HasFix
}

func (t *Tracker) update(mutate func() bool) {
	t.mu.Lock()
	if !mutate() {
		t.mu.Unlock()
		return
	}
	t.reading = t.compute()
	r := t.reading
	fns := make([]func(Reading), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(r)
	}
}

// compute must be called with mu held.
func (t *Tracker) compute() Reading {
	r := Reading{Heading: t.heading}
	if t.position != nil {
		r.HasFix = true
		r.Position = *t.position
	}
	if t.target != nil {
		target := *t.target
		r.Target = &target
	}
	if t.position == nil || t.target == nil {
		return r
	}

	r.Valid = true
	r.Distance = Distance(*t.position, *t.target)
	r.Bearing = Bearing(*t.position, *t.target)
	r.ArrowRotation = r.Bearing - t.heading
	return r
}
