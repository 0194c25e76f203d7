package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	exportapp "github.com/fohr/contracts-backend/internal/application/export"
	"github.com/fohr/contracts-backend/internal/infrastructure/rendering"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, req *rendering.RenderRequest) (*rendering.RenderResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return &rendering.RenderResult{OutputPath: req.OutputPath}, nil
}

func (r *fakeRenderer) Close() error { return nil }

func newExportRouter(t *testing.T, renderer *fakeRenderer) (*gin.Engine, *exportapp.Service) {
	t.Helper()

	svc := exportapp.NewService(renderer, exportapp.ServiceConfig{OutputDir: t.TempDir()}, zap.NewNop())
	r := gin.New()
	NewExportHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r, svc
}

func TestExportToPDF(t *testing.T) {
	renderer := &fakeRenderer{}
	r, svc := newExportRouter(t, renderer)

	w := doJSON(r, http.MethodPost, "/export-to-pdf",
		`{"url":"http://localhost:5173/report","token":"session-token"}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "Export started")

	svc.Wait()
	assert.Equal(t, 1, renderer.calls)
}

func TestExportToPDF_MissingFields(t *testing.T) {
	renderer := &fakeRenderer{}
	r, svc := newExportRouter(t, renderer)

	w := doJSON(r, http.MethodPost, "/export-to-pdf", `{"url":"http://localhost:5173/report"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.Wait()
	assert.Zero(t, renderer.calls)
}
