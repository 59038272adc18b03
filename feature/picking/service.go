package picking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"pick-reconciler/core/events"
	"pick-reconciler/core/reconcile"
	"pick-reconciler/feature/picking/sheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Event types published by the service.
const (
	EventScan          = "pick.scan"
	EventSessionClosed = "pick.session-closed"
)

var (
	// ErrSessionNotFound is returned for unknown or already closed sessions.
	ErrSessionNotFound = errors.New("pick session not found")
	// ErrNoLines is returned when an order has no lines to pick.
	ErrNoLines = errors.New("order has no lines")
	// ErrArchiveDisabled is returned by archive lookups without object storage.
	ErrArchiveDisabled = errors.New("session archive is not configured")
)

// Snapshot is a point-in-time copy of an open session.
type Snapshot struct {
	SessionID string                   `json:"session_id"`
	OrderID   string                   `json:"order_id"`
	OpenedAt  time.Time                `json:"opened_at"`
	Progress  reconcile.Progress       `json:"progress"`
	Complete  bool                     `json:"complete"`
	Units     []reconcile.ExpectedUnit `json:"units"`
	Log       []reconcile.ScanEvent    `json:"log"`
}

// ScanResult is the outcome of one scan with the session progress after it.
type ScanResult struct {
	Event    reconcile.ScanEvent `json:"event"`
	Progress reconcile.Progress  `json:"progress"`
	Complete bool                `json:"complete"`
}

// scanPayload is the data of a pick.scan event.
type scanPayload struct {
	SessionID string              `json:"session_id"`
	OrderID   string              `json:"order_id"`
	Station   string              `json:"station,omitempty"`
	Event     reconcile.ScanEvent `json:"event"`
	Progress  reconcile.Progress  `json:"progress"`
}

// closedPayload is the data of a pick.session-closed event.
type closedPayload struct {
	SessionID  string             `json:"session_id"`
	OrderID    string             `json:"order_id"`
	Station    string             `json:"station,omitempty"`
	Progress   reconcile.Progress `json:"progress"`
	Complete   bool               `json:"complete"`
	Scans      int                `json:"scans"`
	ArchiveKey string             `json:"archive_key,omitempty"`
}

type activeSession struct {
	mu       sync.Mutex
	id       string
	orderID  string
	openedAt time.Time
	session  *reconcile.Session
	closed   bool
}

func (a *activeSession) snapshot() Snapshot {
	return Snapshot{
		SessionID: a.id,
		OrderID:   a.orderID,
		OpenedAt:  a.openedAt,
		Progress:  a.session.Progress(),
		Complete:  a.session.IsComplete(),
		Units:     a.session.Units(),
		Log:       a.session.Log(),
	}
}

// Service manages the open pick sessions of a station.
type Service struct {
	store     Store
	archiver  *Archiver
	publisher events.Publisher
	logger    *zap.Logger
	station   string
	options   []reconcile.Option
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*activeSession
	byOrder  map[string]string
	opens    singleflight.Group
}

// NewService creates a session manager. archiver may be nil, in which case
// closed sessions are only saved to the store.
func NewService(store Store, archiver *Archiver, publisher events.Publisher, logger *zap.Logger, station string, opts ...reconcile.Option) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		store:     store,
		archiver:  archiver,
		publisher: publisher,
		logger:    logger,
		station:   station,
		options:   opts,
		now:       time.Now,
		sessions:  make(map[string]*activeSession),
		byOrder:   make(map[string]string),
	}
}

// Open starts a session for an order, loading its lines from the store.
// An order that already has an open session gets that session back.
func (s *Service) Open(ctx context.Context, orderID string) (Snapshot, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Snapshot{}, fmt.Errorf("%w: order id is required", reconcile.ErrInvalidInput)
	}

	if active := s.activeForOrder(orderID); active != nil {
		return s.lockedSnapshot(active), nil
	}

	// The load is shared by all concurrent opens of the order and outlives
	// any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.opens.Do(orderID, func() (any, error) {
		if active := s.activeForOrder(orderID); active != nil {
			return active, nil
		}
		lines, err := s.store.LoadLines(loadCtx, orderID)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoLines, orderID)
		}
		return s.register(orderID, lines)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.lockedSnapshot(v.(*activeSession)), nil
}

// OpenWithLines starts a session from lines supplied by the caller, such as
// an imported pick list.
func (s *Service) OpenWithLines(orderID string, lines []reconcile.Line) (Snapshot, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Snapshot{}, fmt.Errorf("%w: order id is required", reconcile.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoLines, orderID)
	}
	if active := s.activeForOrder(orderID); active != nil {
		return s.lockedSnapshot(active), nil
	}

	active, err := s.register(orderID, lines)
	if err != nil {
		return Snapshot{}, err
	}
	return s.lockedSnapshot(active), nil
}

func (s *Service) register(orderID string, lines []reconcile.Line) (*activeSession, error) {
	units, err := reconcile.ExpandLines(lines, s.options...)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	session, err := reconcile.NewSession(units, s.options...)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	active := &activeSession{
		id:       uuid.NewString(),
		orderID:  orderID,
		openedAt: s.now(),
		session:  session,
	}

	s.mu.Lock()
	if id, ok := s.byOrder[orderID]; ok {
		existing := s.sessions[id]
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[active.id] = active
	s.byOrder[orderID] = active.id
	s.mu.Unlock()

	s.logger.Info("Pick session opened",
		zap.String("session_id", active.id),
		zap.String("order_id", orderID),
		zap.Int("lines", len(lines)),
		zap.Int("units", len(units)))

	return active, nil
}

// Scan feeds one raw scanner code to a session. Scans of one session are
// processed one at a time in arrival order.
func (s *Service) Scan(ctx context.Context, sessionID, raw string) (ScanResult, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return ScanResult{}, err
	}

	active.mu.Lock()
	if active.closed {
		active.mu.Unlock()
		return ScanResult{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	event, err := active.session.ProcessScan(raw)
	if err != nil {
		active.mu.Unlock()
		return ScanResult{}, err
	}
	result := ScanResult{
		Event:    event,
		Progress: active.session.Progress(),
		Complete: active.session.IsComplete(),
	}
	active.mu.Unlock()

	l := s.logger.With(
		zap.String("session_id", sessionID),
		zap.String("order_id", active.orderID),
		zap.Int("sequence", event.Sequence),
		zap.String("code", event.Code),
	)
	if event.IsMatch() {
		l.Info("Unit matched",
			zap.String("line_id", event.Unit.LineID),
			zap.Int("unit_index", event.Unit.UnitIndex),
			zap.Int("matched", result.Progress.MatchedCount),
			zap.Int("total", result.Progress.TotalUnits))
	} else {
		l.Warn(event.Outcome.Warning(), zap.String("outcome", string(event.Outcome)))
	}

	s.publish(ctx, events.Event{
		Type: EventScan,
		Key:  active.orderID,
		Time: event.Timestamp,
		Data: scanPayload{
			SessionID: sessionID,
			OrderID:   active.orderID,
			Station:   s.station,
			Event:     event,
			Progress:  result.Progress,
		},
	})

	return result, nil
}

// Get returns a snapshot of an open session.
func (s *Service) Get(sessionID string) (Snapshot, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.lockedSnapshot(active), nil
}

// Sessions returns snapshots of all open sessions, oldest first.
func (s *Service) Sessions() []Snapshot {
	s.mu.RLock()
	actives := make([]*activeSession, 0, len(s.sessions))
	for _, a := range s.sessions {
		actives = append(actives, a)
	}
	s.mu.RUnlock()

	out := make([]Snapshot, 0, len(actives))
	for _, a := range actives {
		out = append(out, s.lockedSnapshot(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// Close ends a session, complete or not. The record is archived and saved
// before the session is forgotten; on failure the session stays open so the
// close can be retried.
func (s *Service) Close(ctx context.Context, sessionID string) (SessionRecord, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return SessionRecord{}, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()
	if active.closed {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	snap := active.snapshot()
	record := SessionRecord{
		SessionID: snap.SessionID,
		OrderID:   snap.OrderID,
		Station:   s.station,
		OpenedAt:  snap.OpenedAt,
		ClosedAt:  s.now(),
		Progress:  snap.Progress,
		Complete:  snap.Complete,
		Units:     snap.Units,
		Log:       snap.Log,
	}

	l := s.logger.With(zap.String("session_id", sessionID), zap.String("order_id", active.orderID))

	var key string
	if s.archiver != nil {
		if key, err = s.archiver.Archive(ctx, record); err != nil {
			l.Error("Failed to archive session", zap.Error(err))
			return SessionRecord{}, err
		}
	}
	if err := s.store.SaveSession(ctx, record); err != nil {
		l.Error("Failed to save session", zap.Error(err))
		return SessionRecord{}, err
	}

	active.closed = true
	s.mu.Lock()
	delete(s.sessions, sessionID)
	if s.byOrder[active.orderID] == sessionID {
		delete(s.byOrder, active.orderID)
	}
	s.mu.Unlock()

	if record.Complete {
		l.Info("Pick session closed", zap.Int("units", record.Progress.TotalUnits), zap.String("archive_key", key))
	} else {
		l.Warn("Pick session closed before completion",
			zap.Int("matched", record.Progress.MatchedCount),
			zap.Int("total", record.Progress.TotalUnits),
			zap.String("archive_key", key))
	}

	s.publish(ctx, events.Event{
		Type: EventSessionClosed,
		Key:  record.OrderID,
		Time: record.ClosedAt,
		Data: closedPayload{
			SessionID:  record.SessionID,
			OrderID:    record.OrderID,
			Station:    record.Station,
			Progress:   record.Progress,
			Complete:   record.Complete,
			Scans:      len(record.Log),
			ArchiveKey: key,
		},
	})

	return record, nil
}

// ArchivedSessions returns the IDs of the closed sessions archived for an
// order, sorted.
func (s *Service) ArchivedSessions(ctx context.Context, orderID string) ([]string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", reconcile.ErrInvalidInput)
	}
	if s.archiver == nil {
		return nil, ErrArchiveDisabled
	}

	keys, err := s.archiver.List(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive of order %s: %w", orderID, err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if path.Ext(key) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(path.Base(key), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Archived returns the record of a closed session from the archive.
func (s *Service) Archived(ctx context.Context, orderID, sessionID string) (SessionRecord, error) {
	orderID, sessionID = strings.TrimSpace(orderID), strings.TrimSpace(sessionID)
	if orderID == "" || sessionID == "" {
		return SessionRecord{}, fmt.Errorf("%w: order id and session id are required", reconcile.ErrInvalidInput)
	}
	if s.archiver == nil {
		return SessionRecord{}, ErrArchiveDisabled
	}
	return s.archiver.Fetch(ctx, orderID, sessionID)
}

// Export writes the XLSX audit of an open session to w.
func (s *Service) Export(sessionID string, w io.Writer) error {
	snap, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	return sheet.WriteSession(w, sheet.Report{
		SessionID: snap.SessionID,
		OrderID:   snap.OrderID,
		Units:     snap.Units,
		Log:       snap.Log,
		Progress:  snap.Progress,
	})
}

func (s *Service) lookup(sessionID string) (*activeSession, error) {
	s.mu.RLock()
	active, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return active, nil
}

func (s *Service) activeForOrder(orderID string) *activeSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byOrder[orderID]; ok {
		return s.sessions[id]
	}
	return nil
}

func (s *Service) lockedSnapshot(a *activeSession) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// publish sends an event. Failures are logged and never fail the caller.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("key", event.Key),
			zap.Error(err))
	}
}
