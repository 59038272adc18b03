package reconcile

import "time"

// UnitState represents the pick state of a single expected unit.
type UnitState string

const (
	// StatePending means the unit still waits for a scan.
	StatePending UnitState = "pending"
	// StateMatched means a scan consumed this unit.
	StateMatched UnitState = "matched"
	// StateMismatched is kept for audit data imported from older pick records.
	// Scanning never assigns it; conflicting scans are recorded on ScanEvent.
	StateMismatched UnitState = "mismatched"
)

// ExpectedUnit is one physical, individually scannable slot of an order line.
type ExpectedUnit struct {
	// LineID identifies the order line the unit belongs to.
	LineID string `json:"line_id"`

	// PartNo is the part number printed on the label.
	PartNo string `json:"part_no"`

	// Bin is the storage location code.
	Bin string `json:"bin"`

	// ReferenceCode is the order/batch reference concatenated after the bin.
	ReferenceCode string `json:"reference_code"`

	// UnitIndex is the 0-based index among units sharing the same
	// (PartNo, Bin, ReferenceCode) triple.
	UnitIndex int `json:"unit_index"`

	// State is the current pick state.
	State UnitState `json:"state"`

	// MatchedAt is set only on the transition to StateMatched.
	MatchedAt *time.Time `json:"matched_at,omitempty"`
}

// Ref returns the reference a scan event uses to point at this unit.
func (u ExpectedUnit) Ref() UnitRef {
	return UnitRef{LineID: u.LineID, UnitIndex: u.UnitIndex}
}

// UnitRef points at the unit consumed by a matched scan.
type UnitRef struct {
	LineID    string `json:"line_id"`
	UnitIndex int    `json:"unit_index"`
}

// Outcome is the resolution result of one scan.
type Outcome string

const (
	// OutcomeMatched means exactly one pending unit was consumed.
	OutcomeMatched Outcome = "matched"
	// OutcomePartNotFound means no part number of the session prefixes the code.
	OutcomePartNotFound Outcome = "part_not_found"
	// OutcomeFieldMismatch means the part resolved but bin/reference did not.
	OutcomeFieldMismatch Outcome = "field_mismatch"
	// OutcomeAllUnitsAlreadyMatched means every unit of the triple is already picked.
	OutcomeAllUnitsAlreadyMatched Outcome = "all_units_already_matched"
)

// Warning returns the operator-facing hint for a non-matching outcome.
// It returns an empty string for OutcomeMatched.
func (o Outcome) Warning() string {
	switch o {
	case OutcomePartNotFound:
		return "part number not on this order, check label"
	case OutcomeFieldMismatch:
		return "bin or reference does not match, check label"
	case OutcomeAllUnitsAlreadyMatched:
		return "all units already picked, possible rescan"
	default:
		return ""
	}
}

// ScanEvent is the immutable record of one processed scan.
type ScanEvent struct {
	// Sequence is the 1-based position of the event in the session log.
	Sequence int `json:"sequence"`

	// RawCode is the code exactly as read from the scanner.
	RawCode string `json:"raw_code"`

	// Code is the normalized code used for matching.
	Code string `json:"code"`

	// Timestamp is when the scan was processed.
	Timestamp time.Time `json:"timestamp"`

	// Outcome is the resolution result.
	Outcome Outcome `json:"outcome"`

	// PartNo is the part number the code resolved to, if any.
	PartNo string `json:"part_no,omitempty"`

	// Unit is set only when Outcome is OutcomeMatched.
	Unit *UnitRef `json:"unit,omitempty"`
}

// IsMatch reports whether the scan consumed a unit.
func (e ScanEvent) IsMatch() bool {
	return e.Outcome == OutcomeMatched && e.Unit != nil
}

// Line is one order line as supplied by the order-data backend.
type Line struct {
	LineID        string `json:"line_id"`
	PartNo        string `json:"part_no"`
	Bin           string `json:"bin"`
	ReferenceCode string `json:"reference_code"`
	Quantity      int    `json:"quantity"`
}

// Progress summarizes how far a session is.
type Progress struct {
	MatchedCount int `json:"matched_count"`
	TotalUnits   int `json:"total_units"`
	Percent      int `json:"percent"`
}
