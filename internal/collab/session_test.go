package collab

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/pkg/content"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

type fakePersister struct {
	mu      sync.Mutex
	stored  string
	saves   int
	failing bool
}

func (f *fakePersister) LoadContent(ctx context.Context, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, nil
}

func (f *fakePersister) SaveContent(ctx context.Context, id uuid.UUID, c string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("database unavailable")
	}
	f.saves++
	f.stored = c
	return nil
}

func (f *fakePersister) snapshot() (string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, f.saves
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	emits []string
}

func (f *fakeBroadcaster) Emit(id uuid.UUID, payload, origin string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, payload)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emits)
}

func serialize(t *testing.T, nodes []content.Node) string {
	t.Helper()
	data, err := content.MarshalNodes(nodes)
	if err != nil {
		t.Fatalf("MarshalNodes: %v", err)
	}
	return string(data)
}

func pageWith(text string) []content.Node {
	return []content.Node{content.NewPage(content.NewParagraph(content.NewText(text)))}
}

func newTestSession(t *testing.T, p *fakePersister, b *fakeBroadcaster) *Session {
	t.Helper()
	s := NewSession(uuid.New(), p, b, nopLogger{}, time.Hour)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { s.autosave.Stop() })
	return s
}

func TestLoadEmptyStorageYieldsDefaultPage(t *testing.T) {
	s := newTestSession(t, &fakePersister{}, &fakeBroadcaster{})

	root, err := content.UnmarshalNodes([]byte(s.Content()))
	if err != nil {
		t.Fatalf("UnmarshalNodes: %v", err)
	}
	if len(root) != 1 {
		t.Fatalf("pages = %d, want 1", len(root))
	}
	page, ok := root[0].(*content.Element)
	if !ok || page.Type != content.TypePage {
		t.Fatalf("root[0] = %#v, want a page", root[0])
	}
}

func TestLoadUnparseableContentFallsBackToDefaultPage(t *testing.T) {
	p := &fakePersister{stored: "not json at all"}
	s := newTestSession(t, p, &fakeBroadcaster{})

	if _, err := content.UnmarshalNodes([]byte(s.Content())); err != nil {
		t.Fatalf("session content should be valid, got %v", err)
	}
	// The bad payload stays on disk until a real edit is saved.
	stored, _ := p.snapshot()
	if stored != "not json at all" {
		t.Fatalf("stored = %q, want untouched", stored)
	}
}

func TestApplyLocalBroadcastsAndSchedulesSave(t *testing.T) {
	p := &fakePersister{}
	b := &fakeBroadcaster{}
	s := newTestSession(t, p, b)

	edit := serialize(t, pageWith("hello"))
	s.ApplyLocal(edit, "client-1")

	if b.count() != 1 {
		t.Fatalf("emits = %d, want 1", b.count())
	}
	if !s.Dirty() {
		t.Fatal("session should be dirty before autosave fires")
	}

	s.autosave.Flush()

	stored, saves := p.snapshot()
	if saves != 1 {
		t.Fatalf("saves = %d, want 1", saves)
	}
	if stored != s.Content() {
		t.Fatalf("stored content does not match session content")
	}
	if s.Dirty() {
		t.Fatal("session should be clean after save")
	}
}

func TestApplyLocalDropsUnparseableEdit(t *testing.T) {
	p := &fakePersister{}
	b := &fakeBroadcaster{}
	s := newTestSession(t, p, b)
	before := s.Content()

	s.ApplyLocal("{broken", "client-1")

	if b.count() != 0 {
		t.Fatalf("emits = %d, want 0", b.count())
	}
	if s.Content() != before {
		t.Fatal("tree should be unchanged after a bad edit")
	}
}

func TestApplyRemoteOverwritesWithoutRebroadcast(t *testing.T) {
	p := &fakePersister{}
	b := &fakeBroadcaster{}
	s := newTestSession(t, p, b)

	remote := serialize(t, pageWith("from peer"))
	s.ApplyRemote(remote)

	if b.count() != 0 {
		t.Fatalf("emits = %d, want 0", b.count())
	}
	if s.Content() != remote {
		t.Fatalf("content = %q, want remote payload", s.Content())
	}
	if s.Dirty() {
		t.Fatal("remote overwrite is persisted by its origin, session should be clean")
	}
}

func TestApplyRemoteKeepsTreeOnParseFailure(t *testing.T) {
	s := newTestSession(t, &fakePersister{}, &fakeBroadcaster{})
	edit := serialize(t, pageWith("kept"))
	s.ApplyLocal(edit, "client-1")
	before := s.Content()

	s.ApplyRemote("][")

	if s.Content() != before {
		t.Fatalf("content = %q, want prior tree kept", s.Content())
	}
}

func TestEchoOfRemoteUpdateIsSuppressed(t *testing.T) {
	p := &fakePersister{}
	b := &fakeBroadcaster{}
	s := newTestSession(t, p, b)

	base := time.Now()
	s.now = func() time.Time { return base }

	remote := serialize(t, pageWith("synced"))
	s.ApplyRemote(remote)

	// A participant reflecting the same content back inside the window
	// must not cause a second fanout.
	s.now = func() time.Time { return base.Add(50 * time.Millisecond) }
	s.ApplyLocal(s.Content(), "client-1")
	if b.count() != 0 {
		t.Fatalf("emits = %d, want 0 inside suppression window", b.count())
	}

	// Past the window the same payload is an ordinary edit again.
	s.now = func() time.Time { return base.Add(200 * time.Millisecond) }
	s.ApplyLocal(s.Content(), "client-1")
	if b.count() != 1 {
		t.Fatalf("emits = %d, want 1 after suppression window", b.count())
	}
}

func TestEchoSuppressionDoesNotSwallowNewEdits(t *testing.T) {
	b := &fakeBroadcaster{}
	s := newTestSession(t, &fakePersister{}, b)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.ApplyRemote(serialize(t, pageWith("synced")))

	s.now = func() time.Time { return base.Add(10 * time.Millisecond) }
	s.ApplyLocal(serialize(t, pageWith("different")), "client-1")

	if b.count() != 1 {
		t.Fatalf("emits = %d, want 1 for a genuinely new edit", b.count())
	}
}

func TestAutosaveFailureKeepsDirtyAndRetries(t *testing.T) {
	p := &fakePersister{failing: true}
	s := newTestSession(t, p, &fakeBroadcaster{})

	s.ApplyLocal(serialize(t, pageWith("unsaved")), "client-1")
	s.autosave.Flush()

	if !s.Dirty() {
		t.Fatal("failed save must leave the session dirty")
	}

	p.mu.Lock()
	p.failing = false
	p.mu.Unlock()

	s.autosave.Trigger()
	s.autosave.Flush()

	if s.Dirty() {
		t.Fatal("retry should have cleaned the session")
	}
	_, saves := p.snapshot()
	if saves != 1 {
		t.Fatalf("saves = %d, want 1", saves)
	}
}

func TestSaveNowPersistsRegardlessOfDebounce(t *testing.T) {
	p := &fakePersister{}
	s := newTestSession(t, p, &fakeBroadcaster{})

	s.ApplyLocal(serialize(t, pageWith("manual")), "client-1")
	if err := s.SaveNow(context.Background()); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	_, saves := p.snapshot()
	if saves != 1 {
		t.Fatalf("saves = %d, want 1", saves)
	}
	if s.Dirty() {
		t.Fatal("session should be clean after manual save")
	}
}

func TestMutateBroadcastsOnChangeOnly(t *testing.T) {
	b := &fakeBroadcaster{}
	s := newTestSession(t, &fakePersister{}, b)

	s.Mutate(func(root []content.Node) ([]content.Node, bool) {
		return root, false
	})
	if b.count() != 0 {
		t.Fatalf("emits = %d, want 0 for a no-op mutation", b.count())
	}

	s.Mutate(func(root []content.Node) ([]content.Node, bool) {
		return pageWith("generated"), true
	})
	if b.count() != 1 {
		t.Fatalf("emits = %d, want 1", b.count())
	}
	if !s.Dirty() {
		t.Fatal("mutation should schedule a save")
	}
}

func TestManagerSharesSessionAndFlushesOnLastRelease(t *testing.T) {
	p := &fakePersister{}
	m := NewManager(p, &fakeBroadcaster{}, nopLogger{})
	m.autosaveDelay = time.Hour

	id := uuid.New()
	ctx := context.Background()

	first, err := m.Acquire(ctx, id)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := m.Acquire(ctx, id)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first != second {
		t.Fatal("both participants should share one session")
	}

	first.ApplyLocal(serialize(t, pageWith("pending")), "client-1")

	m.Release(id)
	if m.Lookup(id) == nil {
		t.Fatal("session should survive while a participant remains")
	}

	m.Release(id)
	if m.Lookup(id) != nil {
		t.Fatal("last release should discard the session")
	}
	_, saves := p.snapshot()
	if saves != 1 {
		t.Fatalf("saves = %d, want 1 flushed on close", saves)
	}
}
