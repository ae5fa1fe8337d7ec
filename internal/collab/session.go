package collab

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/pkg/content"
	"collab-docs-be/pkg/pagination"
)

const (
	// AutosaveDelay is the quiet period after the last edit before the
	// session persists the document.
	AutosaveDelay = 2 * time.Second

	// EchoSuppressWindow is how long after applying an update from
	// another instance the session withholds re-publishing identical
	// content. Without it two instances bounce the same payload back
	// and forth through the fanout channel.
	EchoSuppressWindow = 100 * time.Millisecond
)

// Persister loads and stores a document's serialized content.
type Persister interface {
	LoadContent(ctx context.Context, documentID uuid.UUID) (string, error)
	SaveContent(ctx context.Context, documentID uuid.UUID, content string) error
}

// Broadcaster fans an updated document out to the other participants,
// both on this instance and on peers. origin identifies the client the
// update came from so it is not echoed back to itself.
type Broadcaster interface {
	Emit(documentID uuid.UUID, payload string, origin string)
}

// Session is the authoritative in-memory copy of one open document. It
// serializes concurrent edits, rebroadcasts them to the other
// participants immediately, and persists them after a quiet period.
type Session struct {
	documentID  uuid.UUID
	persister   Persister
	broadcaster Broadcaster
	log         logger.ILogger

	mu            sync.Mutex
	root          []content.Node
	serialized    string
	lastSaved     string
	suppressUntil time.Time
	autosave      *Debouncer

	now func() time.Time
}

func NewSession(documentID uuid.UUID, p Persister, b Broadcaster, log logger.ILogger, autosaveDelay time.Duration) *Session {
	s := &Session{
		documentID:  documentID,
		persister:   p,
		broadcaster: b,
		log:         log,
		now:         time.Now,
	}
	s.autosave = NewDebouncer(autosaveDelay, s.saveDebounced)
	return s
}

// Load pulls the persisted content into the session. Unparseable
// content is replaced with a single default page rather than failing
// the open.
func (s *Session) Load(ctx context.Context) error {
	raw, err := s.persister.LoadContent(ctx, s.documentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root, perr := content.UnmarshalNodes([]byte(raw))
	if perr != nil || len(root) == 0 {
		if perr != nil {
			s.log.Warn("Collab", "Stored content unparseable, starting from empty page", map[string]interface{}{
				"document_id": s.documentID.String(),
				"error":       perr.Error(),
			})
		}
		root = []content.Node{content.DefaultPage()}
	}
	root = pagination.Normalize(root)

	s.root = root
	s.serialized = s.marshalLocked()
	s.lastSaved = raw
	return nil
}

// ApplyLocal replaces the document with an edit made by a participant
// on this instance. The update is rebroadcast immediately and an
// autosave is scheduled. During the echo-suppression window an update
// identical to the current content is treated as the reflection of a
// remote overwrite and is neither rebroadcast nor persisted.
func (s *Session) ApplyLocal(raw string, origin string) {
	s.mu.Lock()

	if s.now().Before(s.suppressUntil) && raw == s.serialized {
		s.mu.Unlock()
		return
	}

	if !s.overwriteLocked(raw) {
		s.mu.Unlock()
		return
	}
	payload := s.serialized
	s.mu.Unlock()

	s.broadcaster.Emit(s.documentID, payload, origin)
	s.autosave.Trigger()
}

// ApplyRemote replaces the document with an update that arrived from
// another instance. The originating instance persists it, so this side
// only updates its live copy and arms echo suppression.
func (s *Session) ApplyRemote(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overwriteLocked(raw) {
		s.lastSaved = s.serialized
	}
	s.suppressUntil = s.now().Add(EchoSuppressWindow)
}

// overwriteLocked parses raw and swaps the tree. On parse failure the
// prior tree is kept and the failure is logged; the edit is dropped.
func (s *Session) overwriteLocked(raw string) bool {
	root, err := content.UnmarshalNodes([]byte(raw))
	if err != nil {
		s.log.Warn("Collab", "Dropping unparseable document update", map[string]interface{}{
			"document_id": s.documentID.String(),
			"error":       err.Error(),
		})
		return false
	}
	s.root = pagination.Normalize(root)
	s.serialized = s.marshalLocked()
	return true
}

// Mutate applies fn to the live tree under the session lock and, when
// fn reports a change, broadcasts and schedules an autosave like any
// other local edit. Server-side operations (generation inserts,
// repagination) go through here.
func (s *Session) Mutate(fn func(root []content.Node) ([]content.Node, bool)) {
	s.mu.Lock()
	next, changed := fn(s.root)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.root = pagination.Normalize(next)
	s.serialized = s.marshalLocked()
	payload := s.serialized
	s.mu.Unlock()

	s.broadcaster.Emit(s.documentID, payload, "")
	s.autosave.Trigger()
}

// SaveNow persists immediately, regardless of any pending autosave.
func (s *Session) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	payload := s.serialized
	s.mu.Unlock()

	if err := s.persister.SaveContent(ctx, s.documentID, payload); err != nil {
		return err
	}

	s.mu.Lock()
	if s.serialized == payload {
		s.lastSaved = payload
	}
	s.mu.Unlock()
	return nil
}

// Content returns the current serialized document.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serialized
}

// Dirty reports whether the live document differs from the last
// persisted snapshot.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serialized != s.lastSaved
}

// Close flushes any pending autosave and stops the session's timers.
func (s *Session) Close() {
	s.autosave.Flush()
	s.autosave.Stop()
}

// saveDebounced is the autosave body. A failed save keeps lastSaved
// stale so the next trigger retries.
func (s *Session) saveDebounced() {
	s.mu.Lock()
	payload := s.serialized
	dirty := payload != s.lastSaved
	s.mu.Unlock()

	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.persister.SaveContent(ctx, s.documentID, payload); err != nil {
		s.log.Error("Collab", "Autosave failed", map[string]interface{}{
			"document_id": s.documentID.String(),
			"error":       err.Error(),
		})
		return
	}

	s.mu.Lock()
	if s.serialized == payload {
		s.lastSaved = payload
	}
	s.mu.Unlock()
}

func (s *Session) marshalLocked() string {
	data, err := content.MarshalNodes(s.root)
	if err != nil {
		// Trees built from our own types always marshal.
		s.log.Error("Collab", "Failed to marshal document tree", map[string]interface{}{
			"document_id": s.documentID.String(),
			"error":       err.Error(),
		})
		return s.serialized
	}
	return string(data)
}
