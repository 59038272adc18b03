package reconcile

import (
	"fmt"
	"strings"
)

// ProcessScan resolves one raw scanned code against the session and records the
// result in the scan log.
//
// Every non-empty code produces a ScanEvent, including codes that match nothing;
// only an empty code fails, with ErrInvalidScan, and leaves the session as is.
// At most one unit transitions to StateMatched per call.
func (s *Session) ProcessScan(rawCode string) (ScanEvent, error) {
	code := Normalize(rawCode)
	if code == "" {
		return ScanEvent{}, fmt.Errorf("%w: empty code", ErrInvalidScan)
	}

	now := s.now()
	event := ScanEvent{
		Sequence:  len(s.log) + 1,
		RawCode:   rawCode,
		Code:      code,
		Timestamp: now,
	}

	partNo, positions, ok := s.resolve(code)
	switch {
	case partNo == "":
		event.Outcome = OutcomePartNotFound
	case !ok:
		event.Outcome = OutcomeFieldMismatch
		event.PartNo = s.units[positions[0]].PartNo
	default:
		event.PartNo = s.units[positions[0]].PartNo
		pos := s.firstPending(positions)
		if pos < 0 {
			event.Outcome = OutcomeAllUnitsAlreadyMatched
			break
		}
		u := &s.units[pos]
		matchedAt := now
		u.State = StateMatched
		u.MatchedAt = &matchedAt
		s.matched++

		ref := u.Ref()
		event.Outcome = OutcomeMatched
		event.Unit = &ref
	}

	s.log = append(s.log, event)
	return event, nil
}

// resolve finds the part number prefixing code and the units whose bin and
// reference form the rest of the code.
//
// Part numbers are tried longest first, since a short part number can be an
// accidental prefix of a longer one. The first part number whose remainder
// matches a pending unit wins. When every matching unit is already picked, the
// longest part number with a matching remainder is reported with ok=true and no
// pending position. If some part number prefixes the code but no remainder
// matches, the longest prefix is reported with ok=false and positions holding
// that part's units. If nothing prefixes the code, partNo is empty.
func (s *Session) resolve(code string) (partNo string, positions []int, ok bool) {
	var exhaustedPart string
	var exhausted []int
	for _, candidate := range s.candidates {
		if !strings.HasPrefix(code, candidate) {
			continue
		}
		remainder := code[len(candidate):]

		var hits []int
		for _, pos := range s.byPart[candidate] {
			if s.clean[pos].remainder == remainder {
				hits = append(hits, pos)
			}
		}
		if len(hits) > 0 {
			if s.firstPending(hits) >= 0 {
				return candidate, hits, true
			}
			if exhausted == nil {
				exhaustedPart, exhausted = candidate, hits
			}
			continue
		}
		if partNo == "" {
			partNo, positions = candidate, s.byPart[candidate]
		}
	}
	if exhausted != nil {
		return exhaustedPart, exhausted, true
	}
	return partNo, positions, false
}

// firstPending returns the position of the pending unit with the lowest unit
// index, or -1 if none is pending. Ties keep session order.
func (s *Session) firstPending(positions []int) int {
	best := -1
	for _, pos := range positions {
		u := s.units[pos]
		if u.State != StatePending {
			continue
		}
		if best < 0 || u.UnitIndex < s.units[best].UnitIndex {
			best = pos
		}
	}
	return best
}
