package reconcile

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Session holds the full state of one pick operation: the expected units,
// the append-only scan log and the derived counters.
//
// A Session is not safe for concurrent use. Callers that receive scans from
// more than one goroutine must serialize ProcessScan calls.
type Session struct {
	units   []ExpectedUnit
	log     []ScanEvent
	matched int

	// clean holds the separator-free fields of units, same order as units.
	clean []cleanFields
	// byPart maps a clean part number to unit positions.
	byPart map[string][]int
	// candidates lists the clean part numbers, longest first.
	candidates []string

	now        func() time.Time
	separators string
}

type cleanFields struct {
	partNo    string
	remainder string
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for MatchedAt and scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeparators overrides the characters stripped from label fields.
func WithSeparators(separators string) Option {
	return func(s *Session) {
		s.separators = separators
	}
}

// NewSession validates the expected units and returns a session with every
// unit pending, an empty log and zeroed counters.
// It fails with ErrInvalidInput if a unit has an empty part number or bin, or if
// the unit indexes of a (PartNo, Bin, ReferenceCode) triple are duplicated or
// not a dense 0..count-1 range. Triples are compared after Clean, so "WX-9" and
// "wx9" share one index range.
func NewSession(units []ExpectedUnit, opts ...Option) (*Session, error) {
	s := configure(opts)

	if err := validateUnits(units, s.separators); err != nil {
		return nil, err
	}

	s.units = make([]ExpectedUnit, len(units))
	s.clean = make([]cleanFields, len(units))
	s.byPart = make(map[string][]int)

	for i, u := range units {
		u.State = StatePending
		u.MatchedAt = nil
		s.units[i] = u

		cf := cleanFields{
			partNo:    Clean(u.PartNo, s.separators),
			remainder: Clean(u.Bin, s.separators) + Clean(u.ReferenceCode, s.separators),
		}
		s.clean[i] = cf

		if _, seen := s.byPart[cf.partNo]; !seen {
			s.candidates = append(s.candidates, cf.partNo)
		}
		s.byPart[cf.partNo] = append(s.byPart[cf.partNo], i)
	}

	sort.SliceStable(s.candidates, func(i, j int) bool {
		if len(s.candidates[i]) != len(s.candidates[j]) {
			return len(s.candidates[i]) > len(s.candidates[j])
		}
		return s.candidates[i] < s.candidates[j]
	})

	return s, nil
}

func configure(opts []Option) *Session {
	s := &Session{
		now:        time.Now,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateUnits(units []ExpectedUnit, separators string) error {
	indexes := make(map[tripleKey][]int)
	for i, u := range units {
		if u.PartNo == "" || Clean(u.PartNo, separators) == "" {
			return fmt.Errorf("%w: unit %d has an empty part number", ErrInvalidInput, i)
		}
		if u.Bin == "" || Clean(u.Bin, separators) == "" {
			return fmt.Errorf("%w: unit %d (part %s) has an empty bin", ErrInvalidInput, i, u.PartNo)
		}
		key := cleanTriple(u.PartNo, u.Bin, u.ReferenceCode, separators)
		indexes[key] = append(indexes[key], u.UnitIndex)
	}

	for key, idx := range indexes {
		sort.Ints(idx)
		for want, got := range idx {
			if got == want {
				continue
			}
			if want > 0 && got == idx[want-1] {
				return fmt.Errorf("%w: duplicate unit index %d for %s/%s/%s", ErrInvalidInput, got, key.partNo, key.bin, key.referenceCode)
			}
			return fmt.Errorf("%w: unit indexes for %s/%s/%s are not contiguous (missing %d)", ErrInvalidInput, key.partNo, key.bin, key.referenceCode, want)
		}
	}

	return nil
}

// Progress returns the matched and total unit counts.
// Percent is 0 for a session without units.
func (s *Session) Progress() Progress {
	p := Progress{
		MatchedCount: s.matched,
		TotalUnits:   len(s.units),
	}
	if p.TotalUnits > 0 {
		p.Percent = int(math.Round(float64(p.MatchedCount) / float64(p.TotalUnits) * 100))
	}
	return p
}

// IsComplete reports whether every unit is matched. A session without units is
// never complete.
func (s *Session) IsComplete() bool {
	return len(s.units) > 0 && s.matched == len(s.units)
}

// Units returns a copy of the expected units in session order.
func (s *Session) Units() []ExpectedUnit {
	out := make([]ExpectedUnit, len(s.units))
	for i, u := range s.units {
		out[i] = copyUnit(u)
	}
	return out
}

// MatchedUnits returns copies of the units that have been matched.
func (s *Session) MatchedUnits() []ExpectedUnit {
	return s.filter(StateMatched)
}

// PendingUnits returns copies of the units still waiting for a scan.
func (s *Session) PendingUnits() []ExpectedUnit {
	return s.filter(StatePending)
}

// Log returns a copy of the scan log in processing order.
func (s *Session) Log() []ScanEvent {
	out := make([]ScanEvent, len(s.log))
	copy(out, s.log)
	return out
}

func (s *Session) filter(state UnitState) []ExpectedUnit {
	var out []ExpectedUnit
	for _, u := range s.units {
		if u.State == state {
			out = append(out, copyUnit(u))
		}
	}
	return out
}

func copyUnit(u ExpectedUnit) ExpectedUnit {
	if u.MatchedAt != nil {
		t := *u.MatchedAt
		u.MatchedAt = &t
	}
	return u
}
