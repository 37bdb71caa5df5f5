// internal/server/manager.go
package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"siteforge/internal/models"
	"siteforge/internal/workflows/synthesis/progress"
)

// Generation lifecycle states.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Synthesizer runs one site generation end to end.
type Synthesizer interface {
	Generate(ctx context.Context, pendingID string, req *models.GenerationRequest, tracker *progress.Tracker) (*models.StagedSite, error)
}

// Renderer turns a site document and its images into a standalone page.
type Renderer interface {
	Render(doc *models.SiteDocument, images *models.ImageSet) (string, error)
}

// BundleStore stages the finished bundle for later fulfillment.
type BundleStore interface {
	Put(ctx context.Context, site *models.StagedSite) error
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type generation struct {
	tracker *progress.Tracker
	status  string
	err     error
	started time.Time
	site    *models.StagedSite
}

// Snapshot is the externally visible state of one generation.
type Snapshot struct {
	Status   string
	Progress float64
	Error    error
	Started  time.Time
}

// Manager tracks in-flight generations by pending id. Generations run in
// the background; the HTTP layer polls or streams their progress.
type Manager struct {
	synth    Synthesizer
	renderer Renderer
	staged   BundleStore
	timeout  time.Duration
	logger   Logger

	mu          sync.RWMutex
	generations map[string]*generation
}

func NewManager(synth Synthesizer, renderer Renderer, staged BundleStore, timeout time.Duration, log Logger) *Manager {
	return &Manager{
		synth:    synth,
		renderer: renderer,
		staged:   staged,
		timeout:  timeout,
		logger: log.With(map[string]interface{}{
			"component": "generation-manager",
		}),
		generations: make(map[string]*generation),
	}
}

// Start accepts a validated request, assigns a pending id, and kicks off
// the generation in the background.
func (m *Manager) Start(req *models.GenerationRequest) string {
	pendingID := uuid.NewString()
	gen := &generation{
		tracker: progress.NewTracker(),
		status:  StatusRunning,
		started: time.Now(),
	}

	m.mu.Lock()
	m.generations[pendingID] = gen
	m.mu.Unlock()

	go m.run(pendingID, gen, req)
	return pendingID
}

func (m *Manager) run(pendingID string, gen *generation, req *models.GenerationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	site, err := m.synth.Generate(ctx, pendingID, req, gen.tracker)
	if err != nil {
		m.finish(pendingID, gen, StatusFailed, nil, err)
		return
	}

	html, err := m.renderer.Render(&site.Document, &site.Images)
	if err != nil {
		m.finish(pendingID, gen, StatusFailed, nil, err)
		return
	}
	site.HTML = html

	if err := m.staged.Put(ctx, site); err != nil {
		m.finish(pendingID, gen, StatusFailed, nil, err)
		return
	}

	m.finish(pendingID, gen, StatusCompleted, site, nil)
}

func (m *Manager) finish(pendingID string, gen *generation, status string, site *models.StagedSite, err error) {
	m.mu.Lock()
	gen.status = status
	gen.site = site
	gen.err = err
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("generation finished with failure", map[string]interface{}{
			"pendingId": pendingID,
			"error":     err.Error(),
		})
		return
	}
	m.logger.Info("generation staged", map[string]interface{}{
		"pendingId": pendingID,
	})
}

// Snapshot returns the current state of a generation.
func (m *Manager) Snapshot(pendingID string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gen, ok := m.generations[pendingID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Status:   gen.status,
		Progress: gen.tracker.Current(),
		Error:    gen.err,
		Started:  gen.started,
	}, true
}

// Advance ticks the displayed progress toward its target and returns the
// new value.
func (m *Manager) Advance(pendingID string) (float64, bool) {
	m.mu.RLock()
	gen, ok := m.generations[pendingID]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return gen.tracker.Advance(), true
}
