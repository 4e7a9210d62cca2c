// Package session owns the loaded bookmark snapshot and the process-wide
// navigation state shared by the MCP server, the web UI and the CLI.
package session

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/source"
)

// Status is the load status of a Session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Snapshot is one immutable load of the bookmark source. Every load
// produces a new snapshot with a new ID.
type Snapshot struct {
	ID        string
	Source    string
	LoadedAt  time.Time
	Hierarchy []*bookmark.Node
	Index     []bookmark.IndexedResource
	Issues    []bookmark.Issue
	Stats     bookmark.Stats
}

// FetchFunc retrieves the raw document for src.
type FetchFunc func(ctx context.Context, src string, timeout time.Duration) ([]byte, error)

// Options configures a Session.
type Options struct {
	Source    string
	Timeout   time.Duration
	Transform bookmark.TransformOptions

	// Fetch defaults to source.Fetch.
	Fetch FetchFunc
}

// Session serialises navigation over the current snapshot.
type Session struct {
	opts   Options
	logger *zap.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	status  Status
	snap    *Snapshot
	state   nav.State
	loadErr error

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// New returns an idle session. Nothing is loaded until Load is called.
func New(opts Options, logger *zap.Logger) *Session {
	if opts.Fetch == nil {
		opts.Fetch = source.Fetch
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		opts:   opts,
		logger: logger,
		status: StatusIdle,
		subs:   make(map[int]chan Event),
	}
}

// Source returns the configured source.
func (s *Session) Source() string { return s.opts.Source }

// Status returns the current load status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Load fetches, decodes and transforms the source, replacing the current
// snapshot and resetting navigation. Concurrent calls share one load.
// A caller whose ctx ends stops waiting; the load itself runs to completion.
func (s *Session) Load(ctx context.Context) (*Snapshot, error) {
	ch := s.group.DoChan("load", func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, errors.NewCancelled("load")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Session) load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()
	s.publish(Event{Kind: EventLoading, Status: StatusLoading})

	start := time.Now()
	src := s.opts.Source
	s.logger.Info("loading bookmarks", zap.String("source", src))

	data, err := s.opts.Fetch(ctx, src, s.opts.Timeout)
	if err != nil {
		return nil, s.fail(errors.NewLoadFailed(src, err))
	}
	roots, issues, err := bookmark.Decode(data)
	if err != nil {
		return nil, s.fail(errors.NewLoadFailed(src, err))
	}

	h := bookmark.Transform(roots, s.opts.Transform)
	snap := &Snapshot{
		ID:        newSnapshotID(),
		Source:    src,
		LoadedAt:  time.Now().UTC(),
		Hierarchy: h,
		Index:     bookmark.Flatten(h),
		Issues:    issues,
		Stats:     bookmark.Analyze(h),
	}
	if snap.Issues == nil {
		snap.Issues = []bookmark.Issue{}
	}
	state := nav.Initial(h)

	s.mu.Lock()
	s.snap = snap
	s.state = state
	s.status = StatusReady
	s.loadErr = nil
	s.mu.Unlock()

	s.logger.Info("bookmarks loaded",
		zap.String("snapshot", snap.ID),
		zap.Int("folders", snap.Stats.Folders),
		zap.Int("links", snap.Stats.Links),
		zap.Int("issues", len(snap.Issues)),
		zap.Duration("elapsed", time.Since(start)))
	for _, is := range issues {
		s.logger.Debug("malformed entry", zap.String("issue", is.String()))
	}

	s.publish(Event{Kind: EventReady, Status: StatusReady, State: state, SnapshotID: snap.ID})
	return snap, nil
}

func (s *Session) fail(err *errors.PintreeError) error {
	s.mu.Lock()
	s.snap = nil
	s.state = nav.State{}
	s.status = StatusFailed
	s.loadErr = err
	s.mu.Unlock()

	s.logger.Error("bookmark load failed", zap.String("source", s.opts.Source), zap.Error(err))
	s.publish(Event{Kind: EventFailed, Status: StatusFailed, Err: err})
	return err
}

// readyLocked returns the error that blocks navigation, if any.
// Callers hold s.mu.
func (s *Session) readyLocked() error {
	switch s.status {
	case StatusReady:
		return nil
	case StatusFailed:
		return s.loadErr
	}
	return errors.NewNotReady(string(s.status))
}

// Current returns the navigation state and the snapshot it points into.
func (s *Session) Current() (nav.State, *Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.readyLocked(); err != nil {
		return nav.State{}, nil, err
	}
	return s.state, s.snap, nil
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() (*Snapshot, error) {
	_, snap, err := s.Current()
	return snap, err
}

// Result is the outcome of a dispatched action.
type Result struct {
	State    nav.State
	Snapshot *Snapshot

	// LookupMiss is set when a selection matched no folder; State is then
	// the unchanged previous state.
	LookupMiss bool
	Miss       string
}

// Dispatch applies a to the process-wide navigation state. Actions are
// rejected until a load has succeeded and while a reload is in flight.
func (s *Session) Dispatch(a nav.Action) (Result, error) {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}

	next, err := nav.Reduce(s.state, s.snap.Hierarchy, a)
	res := Result{State: s.state, Snapshot: s.snap}
	switch {
	case nav.IsLookupMiss(err):
		res.LookupMiss = true
		res.Miss = errors.As(err).Message
	case err != nil:
		s.mu.Unlock()
		return Result{}, err
	default:
		s.state = next
		res.State = next
	}
	s.mu.Unlock()

	if res.LookupMiss {
		s.logger.Warn("navigation lookup miss", zap.String("snapshot", res.Snapshot.ID), zap.String("detail", res.Miss))
		return res, nil
	}
	s.publish(Event{Kind: EventState, Status: StatusReady, State: res.State, SnapshotID: res.Snapshot.ID})
	return res, nil
}

func newSnapshotID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
