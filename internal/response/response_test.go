package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"castnfish/internal/contextutils"
	"castnfish/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteSuccessCarriesRequestID(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-42"))
	rec := httptest.NewRecorder()

	builder.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	resp := decodeBody(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "req-42", resp.RequestID)
	assert.Equal(t, "v1", resp.Version)
}

func TestWriteErrorUsesServiceErrorStatus(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	builder.WriteError(rec, req, services.NewNotFoundError("topic not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Type)
	assert.Equal(t, "topic not found", resp.Error.Message)
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	builder.WriteError(rec, req, services.WrapInternal("database exploded at 10.0.0.3", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
}

func TestWriteErrorKeepsInternalMessagesWhenUnmasked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaskInternalErrors = false
	builder := NewBuilder(cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	builder.WriteError(rec, req, services.NewInternalError("something broke"))

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "something broke", resp.Error.Message)
}

func TestWritePaginatedMeta(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	builder.WritePaginated(rec, req, []int{1, 2, 3}, 2, 3, 8)

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Meta)
	require.NotNil(t, resp.Meta.Pagination)
	p := resp.Meta.Pagination
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.PageSize)
	assert.Equal(t, int64(8), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
