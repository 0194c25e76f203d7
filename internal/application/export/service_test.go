package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/fohr/contracts-backend/internal/infrastructure/rendering"
)

type stubRenderer struct {
	mu       sync.Mutex
	requests []*rendering.RenderRequest
	err      error
}

func (r *stubRenderer) Render(ctx context.Context, req *rendering.RenderRequest) (*rendering.RenderResult, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return &rendering.RenderResult{OutputPath: req.OutputPath, Bytes: 1024}, nil
}

func (r *stubRenderer) Close() error { return nil }

func (r *stubRenderer) seen() []*rendering.RenderRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*rendering.RenderRequest(nil), r.requests...)
}

func TestEnqueue(t *testing.T) {
	renderer := &stubRenderer{}
	svc := NewService(renderer, ServiceConfig{OutputDir: t.TempDir(), Timeout: time.Second}, zap.NewNop())

	require.NoError(t, svc.Enqueue("http://localhost:5173/report", "session-token"))
	svc.Wait()

	requests := renderer.seen()
	require.Len(t, requests, 1)
	assert.Equal(t, "http://localhost:5173/report", requests[0].URL)
	assert.Equal(t, "session-token", requests[0].Token)
	assert.Contains(t, requests[0].OutputPath, "export.pdf")
}

func TestEnqueue_Validation(t *testing.T) {
	renderer := &stubRenderer{}
	svc := NewService(renderer, ServiceConfig{OutputDir: t.TempDir()}, zap.NewNop())

	err := svc.Enqueue("", "token")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	err = svc.Enqueue("http://localhost:5173/report", "")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	svc.Wait()
	assert.Empty(t, renderer.seen(), "invalid requests never reach the renderer")
}

func TestEnqueue_RenderFailureNotSurfaced(t *testing.T) {
	renderer := &stubRenderer{err: rendering.NewRenderError(rendering.ErrCodeRenderTimeout, "render timed out", nil)}
	svc := NewService(renderer, ServiceConfig{OutputDir: t.TempDir()}, zap.NewNop())

	err := svc.Enqueue("http://localhost:5173/report", "token")

	require.NoError(t, err, "render outcome is not the caller's problem")
	svc.Wait()
	assert.Len(t, renderer.seen(), 1)
}
