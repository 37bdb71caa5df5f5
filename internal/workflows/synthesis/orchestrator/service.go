// internal/workflows/synthesis/orchestrator/service.go
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"siteforge/internal/common/errors"
	"siteforge/internal/common/metrics"
	"siteforge/internal/models"
	"siteforge/internal/workflows/synthesis/fallback"
	"siteforge/internal/workflows/synthesis/progress"
)

// ContentProvider produces the site document.
type ContentProvider interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.SiteDocument, error)
}

// ImageResolver fills one image slot, never failing.
type ImageResolver interface {
	Resolve(ctx context.Context, slot fallback.Slot, excludeIDs map[string]bool) fallback.Result
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Service runs one site generation end to end: the content call and the
// three image slots fan out concurrently, then the results are assembled
// into a staged site.
type Service struct {
	config  *Config
	content ContentProvider
	images  ImageResolver
	logger  Logger
}

func NewService(config *Config, content ContentProvider, images ImageResolver, log Logger) *Service {
	return &Service{
		config:  config,
		content: content,
		images:  images,
		logger: log.With(map[string]interface{}{
			"component": "synthesis-orchestrator",
		}),
	}
}

// Generate validates the request, fans out the provider calls, and returns
// the assembled site. The tracker is raised at each stage boundary; a
// content failure fails the whole generation, image failures never do.
func (s *Service) Generate(ctx context.Context, pendingID string, req *models.GenerationRequest, tracker *progress.Tracker) (*models.StagedSite, error) {
	started := time.Now()

	if err := req.Validate(); err != nil {
		metrics.SynthesisCompleted.WithLabelValues("rejected").Inc()
		return nil, errors.NewRequestValidationError(err.Error())
	}

	tracker.Raise(progress.TargetAccepted)
	s.logger.Info("generation started", map[string]interface{}{
		"pendingId":   pendingID,
		"companyName": req.CompanyName,
	})

	tracker.Raise(progress.TargetProviders)

	var (
		wg         sync.WaitGroup
		doc        *models.SiteDocument
		contentErr error

		imageMu    sync.Mutex
		images     models.ImageSet
		excludeIDs = map[string]bool{}
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		doc, contentErr = s.content.Generate(ctx, req)
	}()

	slots := []struct {
		slot   fallback.Slot
		assign func(uri string)
	}{
		{
			slot: fallback.Slot{
				Category: "hero",
				Prompt: fmt.Sprintf("Wide photorealistic shot of a %s professional on the job in %s, natural light, no text",
					req.Industry, req.ServiceArea),
				Query: fmt.Sprintf("%s professional working", req.Industry),
			},
			assign: func(uri string) { images.HeroBackground = uri },
		},
		{
			slot: fallback.Slot{
				Category: "industryValue",
				Prompt: fmt.Sprintf("Photorealistic close-up of %s work in progress, tools visible, no text",
					req.Industry),
				Query: fmt.Sprintf("%s tools equipment", req.Industry),
			},
			assign: func(uri string) { images.IndustryValue = uri },
		},
		{
			slot: fallback.Slot{
				Category: "credentials",
				Prompt: fmt.Sprintf("Photorealistic portrait of a trustworthy %s contractor in uniform, no text",
					req.Industry),
				Query: fmt.Sprintf("%s contractor portrait", req.Industry),
			},
			assign: func(uri string) { images.CredentialsShowcase = uri },
		},
	}

	for _, entry := range slots {
		wg.Add(1)
		go func(slot fallback.Slot, assign func(string)) {
			defer wg.Done()
			imageMu.Lock()
			exclude := make(map[string]bool, len(excludeIDs))
			for id := range excludeIDs {
				exclude[id] = true
			}
			imageMu.Unlock()

			res := s.images.Resolve(ctx, slot, exclude)

			imageMu.Lock()
			if res.HitID != "" {
				excludeIDs[res.HitID] = true
			}
			assign(res.URI)
			imageMu.Unlock()
		}(entry.slot, entry.assign)
	}

	wg.Wait()

	if contentErr != nil {
		metrics.SynthesisCompleted.WithLabelValues("failed").Inc()
		s.logger.Error("generation failed", map[string]interface{}{
			"pendingId": pendingID,
			"error":     contentErr.Error(),
		})
		return nil, contentErr
	}

	tracker.Raise(progress.TargetAssembly)

	site := &models.StagedSite{
		PendingID: pendingID,
		Document:  *doc,
		Images:    images,
	}

	tracker.Raise(progress.TargetDone)

	// Hold briefly so the displayed bar reaches 100 before completion.
	if s.config.CompletionHold > 0 {
		select {
		case <-time.After(s.config.CompletionHold):
		case <-ctx.Done():
		}
	}

	metrics.SynthesisCompleted.WithLabelValues("succeeded").Inc()
	metrics.SynthesisDuration.Observe(time.Since(started).Seconds())
	s.logger.Info("generation completed", map[string]interface{}{
		"pendingId": pendingID,
		"duration":  time.Since(started).String(),
	})
	return site, nil
}
