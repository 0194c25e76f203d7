package rendering

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	cause := errors.New("net::ERR_CONNECTION_REFUSED")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.Equal(t, ErrCodeRenderFailed, err.Code)
	assert.Contains(t, err.Error(), "chromedp execution failed")
	assert.Contains(t, err.Error(), "ERR_CONNECTION_REFUSED")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestRenderError_NoCause(t *testing.T) {
	err := NewRenderError(ErrCodeRenderTimeout, "timed out", nil)

	assert.Equal(t, "timed out", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestRender_RejectsInvalidRequests(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer renderer.Close()

	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{name: "nil request", req: nil, code: ErrCodeInvalidURL},
		{name: "empty url", req: &RenderRequest{OutputPath: "out.pdf"}, code: ErrCodeInvalidURL},
		{
			name: "missing output path",
			req:  &RenderRequest{URL: "http://localhost:5173/campaign/1"},
			code: ErrCodeStorageFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderer.Render(context.Background(), tt.req)

			require.Error(t, err)
			var renderErr *RenderError
			require.True(t, errors.As(err, &renderErr))
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

// A page that never settles must not hold the render past its deadline.
// The pipeline stub blocks until the browser context is torn down, which
// only happens if the deadline actually reaches it.
func TestRender_TimesOutOnHungPage(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer renderer.Close()

	renderer.run = func(ctx context.Context, actions ...chromedp.Action) error {
		<-ctx.Done()
		return ctx.Err()
	}

	start := time.Now()
	result, err := renderer.Render(context.Background(), &RenderRequest{
		URL:        "http://localhost:5173/campaign/1",
		OutputPath: filepath.Join(t.TempDir(), "out.pdf"),
		Timeout:    50 * time.Millisecond,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Less(t, time.Since(start), 5*time.Second)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
	assert.Contains(t, renderErr.Message, "timed out")
}

func TestRender_CallerCancellation(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer renderer.Close()

	renderer.run = func(ctx context.Context, actions ...chromedp.Action) error {
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := renderer.Render(ctx, &RenderRequest{
		URL:        "http://localhost:5173/campaign/1",
		OutputPath: filepath.Join(t.TempDir(), "out.pdf"),
	})

	require.Error(t, err)
	assert.Nil(t, result)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
	assert.Contains(t, renderErr.Message, "cancelled")
}

func TestRender_EmptyPDFIsFailure(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer renderer.Close()

	// Pipeline succeeds but produces no bytes.
	renderer.run = func(ctx context.Context, actions ...chromedp.Action) error {
		return nil
	}

	result, err := renderer.Render(context.Background(), &RenderRequest{
		URL:        "http://localhost:5173/campaign/1",
		OutputPath: filepath.Join(t.TempDir(), "out.pdf"),
	})

	require.Error(t, err)
	assert.Nil(t, result)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	renderer, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer renderer.Close()

	assert.Equal(t, defaultChromeTimeout, renderer.config.DefaultTimeout)
	assert.Equal(t, "localhost", renderer.config.CookieDomain)
}
