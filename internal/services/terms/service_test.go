package terms

import (
	"context"
	"strings"
	"testing"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()
	logger := common.NewSilentLogger()

	mgr, err := storage.NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	return NewService(mgr, logger)
}

func TestPublish_FirstRevisionIsOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	term, err := svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "content v1")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if term.Revision != 1 {
		t.Errorf("Revision = %d, want 1 for a new document", term.Revision)
	}
	if term.Owner != "alice" {
		t.Errorf("Owner = %q, want alice", term.Owner)
	}
	if term.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestPublish_RevisionIncrements(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")
	term, err := svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v2")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if term.Revision != 2 {
		t.Errorf("Revision = %d, want 2", term.Revision)
	}
}

func TestPublish_RejectsInvalidName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"", "Has Spaces", "UPPER", "-leading", "trailing-"} {
		if _, err := svc.Publish(ctx, "alice", name, "Title", "content"); err == nil {
			t.Errorf("Publish(%q) should fail", name)
		}
	}
}

func TestPublish_RejectsEmptyContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Publish(ctx, "alice", "canonical", "Title", "")
	if err == nil || !strings.Contains(err.Error(), "content") {
		t.Errorf("expected content-required error, got %v", err)
	}
}

func TestLookup_LatestByDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")
	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v2")

	term, err := svc.Lookup(ctx, "canonical")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if term == nil || term.Revision != 2 {
		t.Errorf("Lookup = %+v, want latest revision 2", term)
	}
	if term.Content != "v2" {
		t.Errorf("Content = %q, want v2", term.Content)
	}
}

func TestLookup_SpecificRevision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")
	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v2")

	term, err := svc.Lookup(ctx, "canonical", interfaces.WithRevision(1))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if term == nil || term.Revision != 1 || term.Content != "v1" {
		t.Errorf("Lookup(rev 1) = %+v", term)
	}
}

func TestLookup_UnknownNameIsNilNil(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	term, err := svc.Lookup(ctx, "no-such-terms")
	if err != nil {
		t.Fatalf("unknown name should not error: %v", err)
	}
	if term != nil {
		t.Errorf("term = %+v, want nil", term)
	}
}

func TestLookup_UnknownRevisionIsNilNil(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")

	term, err := svc.Lookup(ctx, "canonical", interfaces.WithRevision(99))
	if err != nil {
		t.Fatalf("unknown revision should not error: %v", err)
	}
	if term != nil {
		t.Errorf("term = %+v, want nil", term)
	}
}

func TestList_LatestOfEachDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")
	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v2")
	svc.Publish(ctx, "bob", "privacy-policy", "Privacy Policy", "v1")

	terms, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(terms))
	}
	if terms[0].Name != "canonical" || terms[0].Revision != 2 {
		t.Errorf("terms[0] = %+v, want canonical rev 2", terms[0])
	}
}

func TestRevisions_OldestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v1")
	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v2")
	svc.Publish(ctx, "alice", "canonical", "Canonical Terms", "v3")

	revisions, err := svc.Revisions(ctx, "canonical")
	if err != nil {
		t.Fatalf("Revisions: %v", err)
	}
	if len(revisions) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revisions))
	}
	for i, rev := range revisions {
		if rev.Revision != i+1 {
			t.Errorf("revisions[%d].Revision = %d, want %d", i, rev.Revision, i+1)
		}
	}
}
