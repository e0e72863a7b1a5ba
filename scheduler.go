package plotdoc

import (
	"context"
	"log/slog"
	"sync"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/export"
	"github.com/vdobler/plotdoc/render"
)

// ErrRenderCancelled marks a render abandoned because a newer
// document version superseded it. Superseded renders deliver no
// result.
var ErrRenderCancelled = render.ErrCancelled

// State is the scheduler's render state, visible to UIs that want to
// show progress.
type State int

const (
	Idle State = iota
	Queued
	Scaling
	LayingOut
	Emitting
	Done
	Failed
)

func (s State) String() string {
	return []string{"idle", "queued", "scaling", "laying-out", "emitting",
		"done", "failed"}[s]
}

// A RenderResult is one completed render: the primitive stream of a
// specific document version plus its warnings.
type RenderResult struct {
	Version  int64
	Stream   *render.Stream
	Warnings []render.Warning
	Err      error
}

// A Scheduler renders document snapshots on a background goroutine.
// Every successful edit queues a render; if an edit arrives while a
// render is running, that render is cancelled and the newer version
// is rendered instead, so at most one render per document version
// ever completes and the completed one is always the newest.
type Scheduler struct {
	doc  *Document
	size vg.Point
	opts render.Options
	log  *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	latest *RenderResult
	onDone []func(*RenderResult)

	wake chan struct{}
	quit chan struct{}
	wg   sync.WaitGroup
}

// SchedulerOptions configures a scheduler.
type SchedulerOptions struct {
	// Size is the canvas size for rendered pages.
	Size vg.Point

	// Render is passed through to the pipeline. A stage hook set here
	// runs before the scheduler's own stage bookkeeping.
	Render render.Options

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewScheduler starts a scheduler for doc and queues an initial
// render. Close releases it.
func NewScheduler(doc *Document, opt SchedulerOptions) *Scheduler {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Size == (vg.Point{}) {
		opt.Size = vg.Point{X: 600, Y: 450}
	}
	s := &Scheduler{
		doc:  doc,
		size: opt.Size,
		opts: opt.Render,
		log:  opt.Logger,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
	doc.OnChange(func(int64) { s.Request() })
	s.wg.Add(1)
	go s.run()
	s.Request()
	return s
}

// Request queues a render of the newest document version. A render
// already in flight for an older version is cancelled.
func (s *Scheduler) Request() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.state == Idle || s.state == Done || s.state == Failed {
		s.state = Queued
	}
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// State returns the current render state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Latest returns the most recently completed render, or nil if none
// has completed yet.
func (s *Scheduler) Latest() *RenderResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// OnDone registers a listener called after every completed (not
// superseded) render.
func (s *Scheduler) OnDone(f func(*RenderResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = append(s.onDone, f)
}

// Close cancels any in-flight render and stops the worker. It waits
// for the worker to exit.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	close(s.quit)
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.quit:
			return
		case <-s.wake:
		}
		s.renderNewest()
	}
}

// renderNewest keeps rendering until the completed result matches
// the newest document version. A render cancelled by a newer edit
// just loops around and starts over on the new snapshot.
func (s *Scheduler) renderNewest() {
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		snap := s.doc.Snapshot()
		s.mu.Lock()
		if s.latest != nil && s.latest.Err == nil && s.latest.Version == snap.Version {
			s.state = Done
			s.mu.Unlock()
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.state = Scaling
		s.mu.Unlock()

		opts := s.opts
		userStage := s.opts.OnStage
		opts.OnStage = func(st render.Stage) {
			if userStage != nil {
				userStage(st)
			}
			// An edit landing between the snapshot above and the
			// cancel hookup finds no cancel func to call, so its
			// Request cannot stop this render. Re-checking the
			// version at stage boundaries closes that window: a
			// stale render cancels itself instead of running to
			// completion.
			if s.doc.Version() != snap.Version {
				cancel()
			}
			s.mu.Lock()
			switch st {
			case render.StageScaling:
				s.state = Scaling
			case render.StageLayingOut:
				s.state = LayingOut
			case render.StageEmitting:
				s.state = Emitting
			}
			s.mu.Unlock()
		}

		s.log.Debug("render start", "version", snap.Version)
		stream, warnings, err := render.Render(ctx, snap.Root, snap.Data, s.size, opts)
		cancel()

		if err == render.ErrCancelled {
			s.log.Debug("render superseded", "version", snap.Version)
			continue
		}

		res := &RenderResult{
			Version:  snap.Version,
			Stream:   stream,
			Warnings: warnings,
			Err:      err,
		}
		s.mu.Lock()
		s.cancel = nil
		s.latest = res
		if err != nil {
			s.state = Failed
		} else {
			s.state = Done
		}
		listeners := append(([]func(*RenderResult))(nil), s.onDone...)
		s.mu.Unlock()

		if err != nil {
			s.log.Error("render failed", "version", snap.Version, "err", err)
		} else {
			s.log.Debug("render done", "version", snap.Version,
				"primitives", len(stream.Prims), "warnings", len(warnings))
		}
		for _, f := range listeners {
			f(res)
		}
	}
}

// Export writes the newest committed document version to path, every
// page, with the format chosen by the file extension. If the latest
// completed render is stale (or none exists) the snapshot is rendered
// synchronously; an edit racing the export never produces a file of a
// half-applied state.
func (s *Scheduler) Export(path string) error {
	snap := s.doc.Snapshot()
	if res := s.Latest(); res != nil && res.Err == nil && res.Version == snap.Version {
		return export.WriteAll(path, res.Stream, s.size)
	}
	stream, _, err := render.Render(context.Background(), snap.Root, snap.Data,
		s.size, s.opts)
	if err != nil {
		return err
	}
	return export.WriteAll(path, stream, s.size)
}
