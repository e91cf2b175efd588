// Package daterange resolves a reporting period, either a preset or an
// explicit pair of dates, into concrete start and end dates.
package daterange

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidArgument is returned for unknown presets and inverted bounds.
var ErrInvalidArgument = errors.New("invalid argument")

// Preset names a reporting period.
type Preset string

const (
	MonthToDate Preset = "monthToDate"
	YearToDate  Preset = "yearToDate"
	LastMonth   Preset = "lastMonth"
	Custom      Preset = "custom"
)

// Presets lists every accepted preset.
func Presets() []Preset {
	return []Preset{MonthToDate, YearToDate, LastMonth, Custom}
}

// ParsePreset validates s as a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown range %q", ErrInvalidArgument, s)
	}
	return p, nil
}

func (p Preset) Valid() bool {
	switch p {
	case MonthToDate, YearToDate, LastMonth, Custom:
		return true
	}
	return false
}

// Bounds is an inclusive date pair.
type Bounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// State is a consistent read of a Selector.
type State struct {
	SelectedRange Preset    `json:"selectedRange"`
	CustomBounds  *Bounds   `json:"customBounds"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// Selector holds the user-chosen reporting period. It is safe for
// concurrent use; reads never block each other.
type Selector struct {
	mu       sync.RWMutex
	selected Preset
	custom   *Bounds
	now      func() time.Time
}

type Option func(*Selector)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		s.now = now
	}
}

// WithPreset sets the initial preset. Invalid values keep MonthToDate.
func WithPreset(p Preset) Option {
	return func(s *Selector) {
		if p.Valid() {
			s.selected = p
		}
	}
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		selected: MonthToDate,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRange selects a preset. Any preset other than Custom drops stored
// custom bounds.
func (s *Selector) SetRange(p Preset) error {
	if !p.Valid() {
		return fmt.Errorf("%w: unknown range %q", ErrInvalidArgument, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = p
	if p != Custom {
		s.custom = nil
	}
	return nil
}

// SetCustomBounds stores an explicit pair without switching the mode; the
// pair only takes effect once the Custom preset is selected.
func (s *Selector) SetCustomBounds(start, end time.Time) error {
	if err := checkBounds(start, end); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.custom = &Bounds{Start: start, End: end}
	return nil
}

// SetCustomRange selects Custom and stores the pair in one step.
func (s *Selector) SetCustomRange(start, end time.Time) error {
	if err := checkBounds(start, end); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = Custom
	s.custom = &Bounds{Start: start, End: end}
	return nil
}

func (s *Selector) SelectedRange() Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// CustomBounds returns the stored pair, if any.
func (s *Selector) CustomBounds() (Bounds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.custom == nil {
		return Bounds{}, false
	}
	return *s.custom, true
}

func (s *Selector) EffectiveStart() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start(s.now())
}

// EffectiveEnd is "now" for every preset, not the end of the period.
func (s *Selector) EffectiveEnd() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.end(s.now())
}

func (s *Selector) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	st := State{
		SelectedRange: s.selected,
		Start:         s.start(now),
		End:           s.end(now),
	}
	if s.custom != nil {
		b := *s.custom
		st.CustomBounds = &b
	}
	return st
}

func (s *Selector) start(now time.Time) time.Time {
	if s.selected == Custom && s.custom != nil {
		return s.custom.Start
	}
	return StartOf(s.selected, now)
}

func (s *Selector) end(now time.Time) time.Time {
	if s.selected == Custom && s.custom != nil {
		return s.custom.End
	}
	return now
}

// StartOf returns the first day of the period p as seen from now, at
// midnight in now's location. Custom and unknown presets resolve like
// MonthToDate.
func StartOf(p Preset, now time.Time) time.Time {
	y, m, _ := now.Date()
	loc := now.Location()

	switch p {
	case YearToDate:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case LastMonth:
		return time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

func checkBounds(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: custom range needs both start and end", ErrInvalidArgument)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidArgument,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}
