package picking

import (
	"time"

	"pick-reconciler/core/reconcile"
)

// OrderLine is one line of a customer order as stored in the order-data
// database.
type OrderLine struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       string `gorm:"column:order_id;size:64;index:idx_order_line,unique,priority:1;not null"`
	LineID        string `gorm:"column:line_id;size:64;index:idx_order_line,unique,priority:2;not null"`
	PartNo        string `gorm:"column:part_no;size:128;not null"`
	Bin           string `gorm:"column:bin;size:64;not null"`
	ReferenceCode string `gorm:"column:reference_code;size:128"`
	Quantity      int    `gorm:"column:quantity;not null"`
	Position      int    `gorm:"column:position"`
}

func (OrderLine) TableName() string { return "order_lines" }

// Line converts the row to the engine's line type.
func (l OrderLine) Line() reconcile.Line {
	return reconcile.Line{
		LineID:        l.LineID,
		PartNo:        l.PartNo,
		Bin:           l.Bin,
		ReferenceCode: l.ReferenceCode,
		Quantity:      l.Quantity,
	}
}

// PickSession summarizes a closed session.
type PickSession struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	OrderID      string    `gorm:"column:order_id;size:64;index;not null"`
	Station      string    `gorm:"column:station;size:64"`
	MatchedCount int       `gorm:"column:matched_count"`
	TotalUnits   int       `gorm:"column:total_units"`
	Complete     bool      `gorm:"column:complete"`
	OpenedAt     time.Time `gorm:"column:opened_at"`
	ClosedAt     time.Time `gorm:"column:closed_at"`
}

func (PickSession) TableName() string { return "pick_sessions" }

// PickedUnit records one matched unit of a closed session.
type PickedUnit struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"column:session_id;size:36;index;not null"`
	OrderID   string    `gorm:"column:order_id;size:64;index;not null"`
	LineID    string    `gorm:"column:line_id;size:64;not null"`
	UnitIndex int       `gorm:"column:unit_index;not null"`
	PartNo    string    `gorm:"column:part_no;size:128"`
	MatchedAt time.Time `gorm:"column:matched_at"`
}

func (PickedUnit) TableName() string { return "picked_units" }

// ScanRecord is one entry of a closed session's scan log.
type ScanRecord struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"column:session_id;size:36;index:idx_scan_seq,unique,priority:1;not null"`
	Sequence  int       `gorm:"column:sequence;index:idx_scan_seq,unique,priority:2;not null"`
	RawCode   string    `gorm:"column:raw_code;size:255"`
	Code      string    `gorm:"column:code;size:255"`
	Outcome   string    `gorm:"column:outcome;size:32;not null"`
	PartNo    string    `gorm:"column:part_no;size:128"`
	LineID    *string   `gorm:"column:line_id;size:64"`
	UnitIndex *int      `gorm:"column:unit_index"`
	ScannedAt time.Time `gorm:"column:scanned_at"`
}

func (ScanRecord) TableName() string { return "scan_events" }

// Models returns the tables owned by the picking feature.
func Models() []any {
	return []any{&OrderLine{}, &PickSession{}, &PickedUnit{}, &ScanRecord{}}
}

// SessionRecord is the result of a closed session handed to the Store and
// the archive.
type SessionRecord struct {
	SessionID string                   `json:"session_id"`
	OrderID   string                   `json:"order_id"`
	Station   string                   `json:"station,omitempty"`
	OpenedAt  time.Time                `json:"opened_at"`
	ClosedAt  time.Time                `json:"closed_at"`
	Progress  reconcile.Progress       `json:"progress"`
	Complete  bool                     `json:"complete"`
	Units     []reconcile.ExpectedUnit `json:"units"`
	Log       []reconcile.ScanEvent    `json:"log"`
}

// Matched returns the matched units of the record.
func (r SessionRecord) Matched() []reconcile.ExpectedUnit {
	var out []reconcile.ExpectedUnit
	for _, u := range r.Units {
		if u.State == reconcile.StateMatched {
			out = append(out, u)
		}
	}
	return out
}
