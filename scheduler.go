package main

import (
	"math"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Removal is what one scheduler tick took off the front of the line.
type Removal struct {
	Char    string
	Index   int
	Emptied bool
}

// DeletionScheduler owns the single-line text and eats it from the front.
//
// States:
//   - Idle: nothing to delete.
//   - Priming: first character arrived; the first deletion fires
//     firstDeletionDelay after it, whatever the rate.
//   - Steady: deletions fire every interval(rate).
//
// The catch-up rule (line at capacity while the user is typing) overrides
// both Priming and Steady.
type DeletionScheduler struct {
	text         []string
	rate         float64
	capacity     int
	state        SchedulerState
	lastInput    time.Time
	lastDeletion time.Time
	primedAt     time.Time
}

func NewDeletionScheduler(rate float64, capacity int) *DeletionScheduler {
	s := &DeletionScheduler{}
	s.SetRate(rate)
	s.SetCapacity(capacity)
	return s
}

// normalizeRate maps negative, NaN and infinite rates to 0.
func normalizeRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0
	}
	return rate
}

// interval is the time between rate-driven deletions. It saturates at
// neverInterval for 0 and for rates too small to represent.
func interval(rate float64) time.Duration {
	rate = normalizeRate(rate)
	if rate == 0 {
		return neverInterval
	}
	d := float64(time.Second) / rate
	if d >= float64(neverInterval) {
		return neverInterval
	}
	return time.Duration(d)
}

func (s *DeletionScheduler) SetRate(rate float64) {
	s.rate = normalizeRate(rate)
}

func (s *DeletionScheduler) Rate() float64 {
	return s.rate
}

func (s *DeletionScheduler) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = defaultLineCapacity
	}
	s.capacity = capacity
}

func (s *DeletionScheduler) Capacity() int {
	return s.capacity
}

func (s *DeletionScheduler) State() SchedulerState {
	return s.state
}

// Append adds typed input. Input is split into grapheme clusters so an emoji
// or accented letter leaves as one character.
func (s *DeletionScheduler) Append(input string, now time.Time) {
	if input == "" {
		return
	}
	wasEmpty := len(s.text) == 0
	g := uniseg.NewGraphemes(input)
	for g.Next() {
		s.text = append(s.text, g.Str())
	}
	s.lastInput = now
	if wasEmpty {
		s.state = SchedulerPriming
		s.primedAt = now
	}
}

// Tick removes at most one character from the front.
func (s *DeletionScheduler) Tick(now time.Time) (Removal, bool) {
	if len(s.text) == 0 {
		s.state = SchedulerIdle
		return Removal{}, false
	}
	if !s.due(now) {
		return Removal{}, false
	}
	r := Removal{Char: s.text[0], Index: 0}
	s.text[0] = ""
	s.text = s.text[1:]
	s.lastDeletion = now
	s.state = SchedulerSteady
	if len(s.text) == 0 {
		s.text = nil
		s.state = SchedulerIdle
		r.Emptied = true
	}
	return r, true
}

func (s *DeletionScheduler) due(now time.Time) bool {
	if len(s.text) >= s.capacity && now.Sub(s.lastInput) < activeTypingWindow {
		return true
	}
	if interval(s.rate) == neverInterval {
		return false
	}
	switch s.state {
	case SchedulerPriming:
		return now.Sub(s.primedAt) >= firstDeletionDelay
	case SchedulerSteady:
		return now.Sub(s.lastDeletion) >= interval(s.rate)
	default:
		return false
	}
}

func (s *DeletionScheduler) Text() string {
	return strings.Join(s.text, "")
}

// Chars returns a copy of the characters still on the line.
func (s *DeletionScheduler) Chars() []string {
	out := make([]string, len(s.text))
	copy(out, s.text)
	return out
}

func (s *DeletionScheduler) Len() int {
	return len(s.text)
}

// Reset drops the text and all timing state.
func (s *DeletionScheduler) Reset() {
	s.text = nil
	s.state = SchedulerIdle
	s.lastInput = time.Time{}
	s.lastDeletion = time.Time{}
	s.primedAt = time.Time{}
}
