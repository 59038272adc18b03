package picking

import (
	"bytes"
	"errors"
	"fmt"

	"pick-reconciler/core/logger"
	"pick-reconciler/core/reconcile"
	"pick-reconciler/feature/picking/sheet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pick sessions.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// OpenRequest is the body of POST /picking/sessions.
type OpenRequest struct {
	OrderID string `json:"order_id"`
	// Lines, when set, are used instead of the order lines in the database.
	Lines []reconcile.Line `json:"lines,omitempty"`
}

// ScanRequest is the body of POST /picking/sessions/{id}/scans.
type ScanRequest struct {
	Code string `json:"code"`
}

// RegisterRoutes registers the picking routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/picking/sessions")
	group.Post("/", h.HandleOpen)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Post("/:id/scans", h.HandleScan)
	group.Post("/:id/close", h.HandleClose)
	group.Get("/:id/export", h.HandleExport)

	orders := app.Group("/picking/orders")
	orders.Get("/:order/archive", h.HandleArchiveList)
	orders.Get("/:order/archive/:session", h.HandleArchiveGet)
}

// HandleOpen opens a pick session for an order.
// @Summary Open Pick Session
// @Description Expands the order lines into units and starts a session. Re-opening an order with an open session returns that session.
// @Tags picking
// @Accept json
// @Produce json
// @Param request body OpenRequest true "Order to pick"
// @Success 201 {object} Snapshot "Opened session"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 422 {object} map[string]string "Invalid order data"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /picking/sessions [post]
func (h *Handler) HandleOpen(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req OpenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var (
		snap Snapshot
		err  error
	)
	if len(req.Lines) > 0 {
		snap, err = h.service.OpenWithLines(req.OrderID, req.Lines)
	} else {
		snap, err = h.service.Open(c.Context(), req.OrderID)
	}
	if err != nil {
		return h.fail(c, l, "Failed to open session", err)
	}

	return c.Status(fiber.StatusCreated).JSON(snap)
}

// HandleList lists the open sessions.
// @Summary List Pick Sessions
// @Tags picking
// @Produce json
// @Success 200 {array} Snapshot "Open sessions"
// @Router /picking/sessions [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.Sessions())
}

// HandleGet returns one session.
// @Summary Get Pick Session
// @Tags picking
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Snapshot "Session"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /picking/sessions/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	snap, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), "Failed to get session", err)
	}
	return c.JSON(snap)
}

// HandleScan processes one scanner code.
// @Summary Scan Code
// @Description Matches a raw scanner code against the pending units. Non-matching codes are recorded with a warning outcome and still return 200.
// @Tags picking
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ScanRequest true "Scanned code"
// @Success 200 {object} ScanResult "Scan outcome"
// @Failure 400 {object} map[string]string "Empty code"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /picking/sessions/{id}/scans [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.Scan(c.Context(), c.Params("id"), req.Code)
	if err != nil {
		return h.fail(c, l, "Scan rejected", err)
	}
	return c.JSON(result)
}

// HandleClose closes a session and records its result.
// @Summary Close Pick Session
// @Description Saves matched units and the scan log, archives the session and forgets it. Incomplete sessions may be closed.
// @Tags picking
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Close summary"
// @Failure 404 {object} map[string]string "Unknown session"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /picking/sessions/{id}/close [post]
func (h *Handler) HandleClose(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	record, err := h.service.Close(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, l, "Failed to close session", err)
	}

	return c.JSON(fiber.Map{
		"status":     "closed",
		"session_id": record.SessionID,
		"order_id":   record.OrderID,
		"progress":   record.Progress,
		"complete":   record.Complete,
		"scans":      len(record.Log),
	})
}

// HandleExport downloads the session audit as a spreadsheet.
// @Summary Export Pick Session
// @Tags picking
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file "XLSX workbook"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /picking/sessions/{id}/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	id := c.Params("id")

	var buf bytes.Buffer
	if err := h.service.Export(id, &buf); err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), "Failed to export session", err)
	}

	c.Set(fiber.HeaderContentType, sheet.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="pick-%s.xlsx"`, id))
	return c.Send(buf.Bytes())
}

// HandleArchiveList lists the archived sessions of an order.
// @Summary List Archived Sessions
// @Tags picking
// @Produce json
// @Param order path string true "Order ID"
// @Success 200 {object} map[string]interface{} "Archived session IDs"
// @Failure 503 {object} map[string]string "Archive not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /picking/orders/{order}/archive [get]
func (h *Handler) HandleArchiveList(c *fiber.Ctx) error {
	order := c.Params("order")
	ids, err := h.service.ArchivedSessions(c.Context(), order)
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), "Failed to list archived sessions", err)
	}
	return c.JSON(fiber.Map{"order_id": order, "sessions": ids})
}

// HandleArchiveGet returns the archived record of a closed session.
// @Summary Get Archived Session
// @Tags picking
// @Produce json
// @Param order path string true "Order ID"
// @Param session path string true "Session ID"
// @Success 200 {object} SessionRecord "Archived session"
// @Failure 404 {object} map[string]string "Not archived"
// @Failure 503 {object} map[string]string "Archive not configured"
// @Router /picking/orders/{order}/archive/{session} [get]
func (h *Handler) HandleArchiveGet(c *fiber.Ctx) error {
	record, err := h.service.Archived(c.Context(), c.Params("order"), c.Params("session"))
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), "Failed to fetch archived session", err)
	}
	return c.JSON(record)
}

// fail maps service errors to HTTP responses.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor returns the HTTP status code for a picking error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidScan):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrInvalidInput), errors.Is(err, ErrNoLines):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
