// Package scheduler routes ticks to whichever feedback pattern is active.
package scheduler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"libdb.so/lectern/internal/clock"
	"libdb.so/lectern/internal/led"
	"libdb.so/lectern/internal/pattern"
)

// Kind names a pattern the scheduler can run.
type Kind uint8

const (
	Off Kind = iota
	Win
	Lose
	Warning
	numKinds
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Off:
		return "off"
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses the string form of a Kind.
func ParseKind(s string) (Kind, error) {
	for k := Off; k < numKinds; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return Off, fmt.Errorf("unknown pattern %q", s)
}

// Preemption decides what happens to the strip when a pattern is started
// while another one is still running.
type Preemption uint8

const (
	// PreemptAbrupt switches immediately. Whatever the old pattern last
	// flushed stays on the strip until the new one paints over it.
	PreemptAbrupt Preemption = iota
	// PreemptClear turns the strip off before switching.
	PreemptClear
)

// String returns a string representation of the policy.
func (p Preemption) String() string {
	switch p {
	case PreemptAbrupt:
		return "abrupt"
	case PreemptClear:
		return "clear"
	default:
		return fmt.Sprintf("Preemption(%d)", p)
	}
}

// ParsePreemption parses the string form of a Preemption. The empty string
// is PreemptAbrupt.
func ParsePreemption(s string) (Preemption, error) {
	switch strings.ToLower(s) {
	case "", "abrupt":
		return PreemptAbrupt, nil
	case "clear":
		return PreemptClear, nil
	default:
		return PreemptAbrupt, fmt.Errorf("unknown preemption policy %q", s)
	}
}

// Options tweaks a Scheduler.
type Options struct {
	Preemption Preemption
}

// Snapshot describes what the scheduler is doing.
type Snapshot struct {
	Active  Kind
	Phase   pattern.Phase
	Elapsed time.Duration
	// Color is the buffered color of the first LED.
	Color led.Color
}

// Scheduler owns the three patterns and runs at most one of them at a time.
// It is not safe for concurrent use; the host loop calls every method.
type Scheduler struct {
	strip  *led.Strip
	clock  clock.Clock
	logger *slog.Logger
	opts   Options

	patterns [numKinds]pattern.Pattern
	active   Kind
	started  time.Duration
}

// New creates a scheduler drawing onto strip. The patterns are built with
// their default parameters; New fails if the strip cannot fit them.
func New(strip *led.Strip, clk clock.Clock, logger *slog.Logger, opts Options) (*Scheduler, error) {
	s := &Scheduler{
		strip:  strip,
		clock:  clk,
		logger: logger,
		opts:   opts,
	}

	observe := func(name string, from, to pattern.Phase, now time.Duration) {
		s.logger.Debug(
			"pattern phase changed",
			"pattern", name,
			"from", from,
			"to", to,
			"elapsed", now-s.started)
	}

	win, err := pattern.NewWin(strip, pattern.DefaultWin, observe)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create win pattern")
	}
	lose, err := pattern.NewLose(strip, pattern.DefaultLose, observe)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lose pattern")
	}
	warning, err := pattern.NewWarning(strip, pattern.DefaultWarning, observe)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create warning pattern")
	}

	s.patterns[Win] = win
	s.patterns[Lose] = lose
	s.patterns[Warning] = warning
	return s, nil
}

// Active returns the running pattern, or Off.
func (s *Scheduler) Active() Kind { return s.active }

// Snapshot returns the current state.
func (s *Scheduler) Snapshot() Snapshot {
	snap := Snapshot{
		Active: s.active,
		Color:  s.strip.Pixel(0),
	}
	if s.active != Off {
		snap.Phase = s.patterns[s.active].Phase()
		snap.Elapsed = s.clock.Now() - s.started
	}
	return snap
}

// Start runs the given pattern from its first phase, replacing whatever was
// running. Starting Off is the same as Stop.
func (s *Scheduler) Start(k Kind) error {
	if k == Off {
		return s.Stop()
	}
	if k >= numKinds {
		return fmt.Errorf("unknown pattern %s", k)
	}

	if err := s.preempt(k); err != nil {
		return err
	}

	now := s.clock.Now()
	s.active = k
	s.started = now
	s.patterns[k].Start(now)

	s.logger.Debug("pattern started", "pattern", k)
	return nil
}

// StartWin starts the Win pattern.
func (s *Scheduler) StartWin() error { return s.Start(Win) }

// StartLose starts the Lose pattern.
func (s *Scheduler) StartLose() error { return s.Start(Lose) }

// StartWarning starts the Warning pattern.
func (s *Scheduler) StartWarning() error { return s.Start(Warning) }

// preempt applies the preemption policy before next takes over.
func (s *Scheduler) preempt(next Kind) error {
	if s.active == Off {
		return nil
	}

	s.logger.Debug(
		"pattern preempted",
		"pattern", s.active,
		"by", next,
		"phase", s.patterns[s.active].Phase(),
		"policy", s.opts.Preemption)

	switch s.opts.Preemption {
	case PreemptClear:
		s.strip.Clear()
		if err := s.strip.Flush(); err != nil {
			return errors.Wrap(err, "failed to clear preempted pattern")
		}
	}
	return nil
}

// Stop turns the strip off and deactivates the running pattern, if any.
func (s *Scheduler) Stop() error {
	if s.active == Off {
		return nil
	}

	s.logger.Debug("pattern stopped", "pattern", s.active)
	s.active = Off

	s.strip.Clear()
	if err := s.strip.Flush(); err != nil {
		return errors.Wrap(err, "failed to turn LEDs off")
	}
	return nil
}

// Tick advances the active pattern by one step. It never blocks and does
// nothing when no pattern is active.
func (s *Scheduler) Tick() error {
	if s.active == Off {
		return nil
	}

	now := s.clock.Now()
	active := s.active

	// A finished pattern has already rewound itself, so the scheduler goes
	// idle even if the final flush failed.
	status, err := s.patterns[active].Step(now)
	if status == pattern.Finished {
		s.logger.Info(
			"pattern completed",
			"pattern", active,
			"duration", now-s.started)
		s.active = Off
	}

	if err != nil {
		return errors.Wrapf(err, "%s pattern failed", active)
	}

	return nil
}
