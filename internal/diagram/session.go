package diagram

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/genomeviz/exonview/internal/labelbox"
	"github.com/genomeviz/exonview/internal/overlay"
)

// Session is one diagram's live interactive state, shared by every client
// watching it. Pointer events from all connections funnel through the
// session's dispatcher, so the at-most-one-visible invariant holds no
// matter how many websockets are open.
type Session struct {
	DiagramID string

	doc        *Document
	dispatcher *overlay.Dispatcher
	store      *Store

	mu       sync.Mutex
	watchers map[chan overlay.State]struct{}
}

// Apply routes one pointer event through the session, records it in the
// audit trail, and broadcasts the resulting state to every watcher. The
// returned state carries the event's outcome; an unknown activate target
// surfaces as State.Err, not as a session failure.
func (s *Session) Apply(ctx context.Context, ev overlay.Event) (overlay.State, error) {
	st, err := s.dispatcher.Apply(ctx, ev)
	if err != nil {
		return overlay.State{}, err
	}

	if s.store != nil {
		rec := &InteractionEvent{DiagramID: s.DiagramID, Kind: string(ev.Kind), Target: ev.Target}
		if err := s.store.RecordEvent(ctx, rec); err != nil {
			log.Printf("diagram: recording event for %s: %v", s.DiagramID, err)
		}
	}

	s.broadcast(st)
	return st, nil
}

// Render serializes the session's current document state. The read runs on
// the dispatcher's owning goroutine so it never observes a half-applied
// event.
func (s *Session) Render(ctx context.Context) (string, error) {
	var svg string
	if _, err := s.dispatcher.Sync(ctx, func() { svg = s.doc.Render() }); err != nil {
		return "", err
	}
	return svg, nil
}

// State returns the register state as of the latest applied event.
func (s *Session) State(ctx context.Context) (overlay.State, error) {
	return s.dispatcher.Sync(ctx, nil)
}

// Active returns the register's current value.
func (s *Session) Active(ctx context.Context) (string, error) {
	st, err := s.State(ctx)
	if err != nil {
		return "", err
	}
	return st.Active, nil
}

// Watch registers a channel receiving every post-event state until ctx is
// done. The channel is buffered; slow watchers drop intermediate states
// rather than stall the event path.
func (s *Session) Watch(ctx context.Context) <-chan overlay.State {
	ch := make(chan overlay.State, 8)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
	}()
	return ch
}

func (s *Session) broadcast(st overlay.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- st:
		default:
		}
	}
}

// close shuts down the session's dispatcher.
func (s *Session) close() {
	s.dispatcher.Close()
}

// Manager opens sessions on demand and caches them per diagram id, so all
// clients of a diagram share one live document.
type Manager struct {
	store    *Store
	measurer labelbox.Measurer
	box      labelbox.Options

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry guards one diagram's load. Loading happens outside the
// manager lock, so a slow open of one diagram never blocks opens of others;
// concurrent opens of the same diagram share the single load.
type sessionEntry struct {
	once sync.Once
	sess *Session
	err  error
}

// NewManager creates a session manager backed by store.
func NewManager(store *Store, measurer labelbox.Measurer, box labelbox.Options) *Manager {
	return &Manager{
		store:    store,
		measurer: measurer,
		box:      box,
		sessions: make(map[string]*sessionEntry),
	}
}

// Open returns the live session for the given diagram, loading and
// finalizing the document on first use. A failed load is not cached; the
// next Open retries.
func (m *Manager) Open(ctx context.Context, diagramID string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.sessions[diagramID]
	if !ok {
		e = &sessionEntry{}
		m.sessions[diagramID] = e
	}
	m.mu.Unlock()

	e.once.Do(func() { e.sess, e.err = m.load(ctx, diagramID) })
	if e.err != nil {
		m.mu.Lock()
		if m.sessions[diagramID] == e {
			delete(m.sessions, diagramID)
		}
		m.mu.Unlock()
		return nil, e.err
	}
	return e.sess, nil
}

func (m *Manager) load(ctx context.Context, diagramID string) (*Session, error) {
	rec, err := m.store.Get(ctx, diagramID)
	if err != nil {
		return nil, err
	}

	doc, err := Open(rec.SVG, DocumentOptions{
		LabelIDs: rec.LabelIDs,
		HolderID: rec.HolderID,
		Box:      m.box,
		Measurer: m.measurer,
	})
	if err != nil {
		return nil, err
	}
	if err := doc.Finalize(); err != nil {
		return nil, fmt.Errorf("finalizing diagram %s: %w", diagramID, err)
	}

	return &Session{
		DiagramID:  diagramID,
		doc:        doc,
		dispatcher: overlay.NewDispatcher(context.Background(), doc.Controller()),
		store:      m.store,
		watchers:   make(map[chan overlay.State]struct{}),
	}, nil
}

// Evict closes and forgets the session for a diagram, if one is open. Used
// when a diagram is deleted.
func (m *Manager) Evict(diagramID string) {
	m.mu.Lock()
	e, ok := m.sessions[diagramID]
	delete(m.sessions, diagramID)
	m.mu.Unlock()
	if ok && e.sess != nil {
		e.sess.close()
	}
}

// Close shuts down every open session.
func (m *Manager) Close() {
	m.mu.Lock()
	entries := m.sessions
	m.sessions = make(map[string]*sessionEntry)
	m.mu.Unlock()
	for _, e := range entries {
		if e.sess != nil {
			e.sess.close()
		}
	}
}
