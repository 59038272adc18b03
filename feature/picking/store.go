package picking

import (
	"context"
	"fmt"
	"sync"

	"pick-reconciler/core/reconcile"

	"gorm.io/gorm"
)

// Store loads order data and persists the result of closed sessions.
type Store interface {
	// LoadLines returns the lines of an order in pick-list order.
	LoadLines(ctx context.Context, orderID string) ([]reconcile.Line, error)
	// SaveSession records the matched units and the scan log of a session.
	SaveSession(ctx context.Context, record SessionRecord) error
}

// GormStore is the database-backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store on top of an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the picking tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(Models()...)
}

func (s *GormStore) LoadLines(ctx context.Context, orderID string) ([]reconcile.Line, error) {
	var rows []OrderLine
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of order %s: %w", orderID, err)
	}

	lines := make([]reconcile.Line, len(rows))
	for i, row := range rows {
		lines[i] = row.Line()
	}
	return lines, nil
}

// ReplaceLines swaps the stored lines of an order for the given ones.
func (s *GormStore) ReplaceLines(ctx context.Context, orderID string, lines []reconcile.Line) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&OrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear lines of order %s: %w", orderID, err)
		}
		if len(lines) == 0 {
			return nil
		}

		rows := make([]OrderLine, len(lines))
		for i, l := range lines {
			rows[i] = OrderLine{
				OrderID:       orderID,
				LineID:        l.LineID,
				PartNo:        l.PartNo,
				Bin:           l.Bin,
				ReferenceCode: l.ReferenceCode,
				Quantity:      l.Quantity,
				Position:      i,
			}
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert lines of order %s: %w", orderID, err)
		}
		return nil
	})
}

func (s *GormStore) SaveSession(ctx context.Context, record SessionRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		summary := PickSession{
			ID:           record.SessionID,
			OrderID:      record.OrderID,
			Station:      record.Station,
			MatchedCount: record.Progress.MatchedCount,
			TotalUnits:   record.Progress.TotalUnits,
			Complete:     record.Complete,
			OpenedAt:     record.OpenedAt,
			ClosedAt:     record.ClosedAt,
		}
		if err := tx.Create(&summary).Error; err != nil {
			return fmt.Errorf("failed to save session %s: %w", record.SessionID, err)
		}

		var picked []PickedUnit
		for _, u := range record.Matched() {
			row := PickedUnit{
				SessionID: record.SessionID,
				OrderID:   record.OrderID,
				LineID:    u.LineID,
				UnitIndex: u.UnitIndex,
				PartNo:    u.PartNo,
			}
			if u.MatchedAt != nil {
				row.MatchedAt = *u.MatchedAt
			}
			picked = append(picked, row)
		}
		if len(picked) > 0 {
			if err := tx.CreateInBatches(picked, 500).Error; err != nil {
				return fmt.Errorf("failed to save picked units: %w", err)
			}
		}

		scans := make([]ScanRecord, 0, len(record.Log))
		for _, ev := range record.Log {
			row := ScanRecord{
				SessionID: record.SessionID,
				Sequence:  ev.Sequence,
				RawCode:   ev.RawCode,
				Code:      ev.Code,
				Outcome:   string(ev.Outcome),
				PartNo:    ev.PartNo,
				ScannedAt: ev.Timestamp,
			}
			if ev.Unit != nil {
				lineID, idx := ev.Unit.LineID, ev.Unit.UnitIndex
				row.LineID = &lineID
				row.UnitIndex = &idx
			}
			scans = append(scans, row)
		}
		if len(scans) > 0 {
			if err := tx.CreateInBatches(scans, 500).Error; err != nil {
				return fmt.Errorf("failed to save scan log: %w", err)
			}
		}
		return nil
	})
}

// MemoryStore keeps order lines and closed sessions in memory. The pick CLI
// uses it when lines come from a spreadsheet instead of the database.
type MemoryStore struct {
	mu      sync.Mutex
	lines   map[string][]reconcile.Line
	records []SessionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lines: make(map[string][]reconcile.Line)}
}

// SetLines replaces the lines of an order.
func (s *MemoryStore) SetLines(orderID string, lines []reconcile.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[orderID] = append([]reconcile.Line(nil), lines...)
}

func (s *MemoryStore) LoadLines(_ context.Context, orderID string) ([]reconcile.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]reconcile.Line(nil), s.lines[orderID]...), nil
}

func (s *MemoryStore) SaveSession(_ context.Context, record SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns the saved sessions in close order.
func (s *MemoryStore) Records() []SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SessionRecord(nil), s.records...)
}
