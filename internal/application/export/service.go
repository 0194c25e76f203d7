package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/fohr/contracts-backend/internal/infrastructure/rendering"
)

const defaultRenderTimeout = 2 * time.Minute

// ServiceConfig tunes the background render jobs.
type ServiceConfig struct {
	// OutputDir receives the rendered export.pdf.
	OutputDir string
	// Timeout bounds a single render including navigation.
	Timeout time.Duration
}

// Service runs fire-and-forget PDF exports of authenticated dashboard
// pages. Callers get an immediate acknowledgement; render failures are
// logged rather than surfaced.
type Service struct {
	renderer  rendering.PDFRenderer
	outputDir string
	timeout   time.Duration
	logger    *zap.Logger

	wg sync.WaitGroup
}

// NewService creates the export service.
func NewService(renderer rendering.PDFRenderer, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	return &Service{
		renderer:  renderer,
		outputDir: cfg.OutputDir,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enqueue validates the request and starts the render in the background.
// The returned error covers validation only; the render's own outcome is
// observable in the logs.
func (s *Service) Enqueue(url, token string) error {
	if url == "" {
		return fmt.Errorf("url required: %w", shared.ErrInvalidInput)
	}
	if token == "" {
		return fmt.Errorf("token required: %w", shared.ErrInvalidInput)
	}

	s.wg.Add(1)
	go s.run(url, token)
	return nil
}

func (s *Service) run(url, token string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	outputPath := filepath.Join(s.outputDir, "export.pdf")
	s.logger.Info("starting page export",
		zap.String("url", url),
		zap.String("output", outputPath))

	result, err := s.renderer.Render(ctx, &rendering.RenderRequest{
		URL:        url,
		Token:      token,
		OutputPath: outputPath,
		Timeout:    s.timeout,
	})
	if err != nil {
		s.logger.Error("page export failed",
			zap.String("url", url),
			zap.Error(err))
		return
	}

	s.logger.Info("page export completed",
		zap.String("output", result.OutputPath),
		zap.Int("bytes", result.Bytes),
		zap.Duration("duration", result.RenderDuration))
}

// Wait blocks until all in-flight renders finish. Used during shutdown
// and in tests.
func (s *Service) Wait() {
	s.wg.Wait()
}
