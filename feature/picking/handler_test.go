package picking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"pick-reconciler/core/reconcile"
	"pick-reconciler/feature/picking/sheet"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc, _, client, _ := newTestService(t)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	app := fiber.New()
	feature := NewFeature(svc, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHandler_PickFlow(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/picking/sessions", OpenRequest{OrderID: "ORD-1"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["session_id"].(string)

	status, body = doJSON(t, app, "POST", "/picking/sessions/"+id+"/scans", ScanRequest{Code: "wx9b1r7"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "matched", body["event"].(map[string]any)["outcome"])
	assert.Equal(t, float64(50), body["progress"].(map[string]any)["percent"])

	status, body = doJSON(t, app, "POST", "/picking/sessions/"+id+"/scans", ScanRequest{Code: "WX9B2R7"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "field_mismatch", body["event"].(map[string]any)["outcome"])

	status, body = doJSON(t, app, "GET", "/picking/sessions/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["log"], 2)
	assert.Equal(t, false, body["complete"])

	status, body = doJSON(t, app, "POST", "/picking/sessions/"+id+"/close", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "closed", body["status"])
	assert.Equal(t, float64(2), body["scans"])

	status, _ = doJSON(t, app, "GET", "/picking/sessions/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandler_OpenWithLines(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/picking/sessions", OpenRequest{
		OrderID: "ADHOC",
		Lines:   []reconcile.Line{{LineID: "1", PartNo: "AB", Bin: "C", Quantity: 3}},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, float64(3), body["progress"].(map[string]any)["total_units"])

	req := httptest.NewRequest("GET", "/picking/sessions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)
}

func TestHandler_Errors(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "POST", "/picking/sessions", OpenRequest{OrderID: "EMPTY"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = doJSON(t, app, "POST", "/picking/sessions", OpenRequest{
		OrderID: "BAD",
		Lines:   []reconcile.Line{{LineID: "1", PartNo: "AB", Quantity: 1}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = doJSON(t, app, "POST", "/picking/sessions/nope/scans", ScanRequest{Code: "X"})
	assert.Equal(t, fiber.StatusNotFound, status)

	_, body := doJSON(t, app, "POST", "/picking/sessions", OpenRequest{OrderID: "ORD-1"})
	id := body["session_id"].(string)
	status, body = doJSON(t, app, "POST", "/picking/sessions/"+id+"/scans", ScanRequest{Code: " "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	req := httptest.NewRequest("POST", "/picking/sessions", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_Export(t *testing.T) {
	app, _ := setupTestApp(t)

	_, body := doJSON(t, app, "POST", "/picking/sessions", OpenRequest{OrderID: "ORD-1"})
	id := body["session_id"].(string)

	resp, err := app.Test(httptest.NewRequest("GET", "/picking/sessions/"+id+"/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, sheet.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), fmt.Sprintf("pick-%s.xlsx", id))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestHandler_Archive(t *testing.T) {
	svc, _, client, _ := newTestService(t)
	app := fiber.New()
	require.NoError(t, NewFeature(svc, zap.NewNop()).Load(app))

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "sessions/ORD-1/s-1.json"}
	close(ch)
	client.On("ListObjects", mock.Anything, "pick-audit", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	record, err := json.Marshal(SessionRecord{SessionID: "s-1", OrderID: "ORD-1"})
	require.NoError(t, err)
	client.On("GetObject", mock.Anything, "pick-audit", "sessions/ORD-1/s-1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(record)), nil)
	client.On("GetObject", mock.Anything, "pick-audit", "sessions/ORD-1/s-9.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	status, body := doJSON(t, app, "GET", "/picking/orders/ORD-1/archive", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{"s-1"}, body["sessions"])

	status, body = doJSON(t, app, "GET", "/picking/orders/ORD-1/archive/s-1", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "s-1", body["session_id"])

	status, _ = doJSON(t, app, "GET", "/picking/orders/ORD-1/archive/s-9", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{reconcile.ErrInvalidScan, fiber.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrSessionNotFound), fiber.StatusNotFound},
		{fmt.Errorf("order x: %w", reconcile.ErrInvalidInput), fiber.StatusUnprocessableEntity},
		{ErrNoLines, fiber.StatusUnprocessableEntity},
		{fmt.Errorf("%w: k", ErrRecordNotFound), fiber.StatusNotFound},
		{ErrArchiveDisabled, fiber.StatusServiceUnavailable},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
