package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockRepo is a map-backed Repository with the same status guards as the
// SQL implementation.
type mockRepo struct {
	entries map[uuid.UUID]*Entry
}

func newMockRepo() *mockRepo {
	return &mockRepo{entries: make(map[uuid.UUID]*Entry)}
}

func copyEntry(e *Entry) *Entry {
	cp := *e
	return &cp
}

func (m *mockRepo) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.entries[e.ID] = copyEntry(e)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEntry(e), nil
}

func (m *mockRepo) guardedUpdate(e *Entry, expected Status, apply func(stored *Entry)) error {
	stored, ok := m.entries[e.ID]
	if !ok || stored.Status != expected {
		return ErrStaleEntry
	}
	apply(stored)
	return nil
}

func (m *mockRepo) UpdateDraft(ctx context.Context, e *Entry) error {
	return m.guardedUpdate(e, StatusDraft, func(stored *Entry) {
		cp := copyEntry(e)
		cp.CreatedAt = stored.CreatedAt
		m.entries[e.ID] = cp
	})
}

func (m *mockRepo) MarkSigned(ctx context.Context, e *Entry) error {
	return m.guardedUpdate(e, StatusDraft, func(stored *Entry) {
		stored.Status = StatusCompleted
		stored.SignedBy = e.SignedBy
		stored.SignedByName = e.SignedByName
		stored.SignedAt = e.SignedAt
	})
}

func (m *mockRepo) AppendContent(ctx context.Context, e *Entry) error {
	return m.guardedUpdate(e, StatusCompleted, func(stored *Entry) {
		stored.Content = e.Content
		stored.UpdatedBy = e.UpdatedBy
		stored.UpdatedByName = e.UpdatedByName
	})
}

func (m *mockRepo) MarkArchived(ctx context.Context, e *Entry) error {
	return m.guardedUpdate(e, StatusCompleted, func(stored *Entry) {
		stored.Status = StatusArchived
	})
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var items []*Entry
	for _, e := range m.entries {
		if e.PatientID == patientID {
			items = append(items, copyEntry(e))
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	var items []*Entry
	for _, e := range m.entries {
		if v, ok := params["status"]; ok && string(e.Status) != v {
			continue
		}
		if v, ok := params["entry_type"]; ok && string(e.EntryType) != v {
			continue
		}
		if v, ok := params["patient_id"]; ok && e.PatientID.String() != v {
			continue
		}
		items = append(items, copyEntry(e))
	}
	return items, len(items), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestServiceCreateEntry_Defaults(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), Status: StatusCompleted} // caller-supplied status is ignored

	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("CreateEntry() error: %v", err)
	}

	if e.Status != StatusDraft {
		t.Errorf("expected new entry to be draft, got %s", e.Status)
	}
	if e.EntryType != EntryTypeNote {
		t.Errorf("expected note default type, got %s", e.EntryType)
	}
	if e.Title != "Note" {
		t.Errorf("expected default title, got %q", e.Title)
	}
	if e.CreatedBy != testActor.ID || e.CreatedByName != testActor.Name {
		t.Error("expected creator provenance to be set")
	}
}

func TestServiceCreateEntry_MedicationTimeDefaults(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeMedication}

	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("CreateEntry() error: %v", err)
	}
	if e.MedicationTime == nil {
		t.Fatal("expected medication time to default to now")
	}
	if !e.MedicationTime.Equal(svc.now()) {
		t.Errorf("expected %v, got %v", svc.now(), e.MedicationTime)
	}
}

func TestServiceCreateEntry_Invalid(t *testing.T) {
	svc, _ := newTestService()

	if err := svc.CreateEntry(context.Background(), &Entry{}, testActor); err == nil {
		t.Error("expected error for missing patient")
	}

	e := &Entry{PatientID: uuid.New(), EntryType: "diary"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err == nil {
		t.Error("expected error for unknown entry type")
	}

	bad := "sports"
	e = &Entry{PatientID: uuid.New(), Category: &bad}
	if err := svc.CreateEntry(context.Background(), e, testActor); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestServiceUpdateDraft(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := &Entry{ID: e.ID, Title: "Evening note", Content: "Calm evening."}
	updated, err := svc.UpdateDraft(context.Background(), edit, testActor)
	if err != nil {
		t.Fatalf("UpdateDraft() error: %v", err)
	}

	if updated.Title != "Evening note" || updated.Content != "Calm evening." {
		t.Error("expected edits to be applied")
	}
	if updated.PatientID != e.PatientID {
		t.Error("patient must be preserved on update")
	}
	if updated.EntryType != EntryTypeNote {
		t.Error("entry type must be preserved on update")
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != testActor.ID {
		t.Error("expected updater provenance")
	}
}

func TestServiceUpdateDraft_CompletedRejected(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "text"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SignEntry(context.Background(), e.ID, testActor); err != nil {
		t.Fatalf("sign: %v", err)
	}

	edit := &Entry{ID: e.ID, Title: "rewrite", Content: "changed"}
	_, err := svc.UpdateDraft(context.Background(), edit, testActor)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestServiceSignEntry(t *testing.T) {
	svc, repo := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "text"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}

	signed, err := svc.SignEntry(context.Background(), e.ID, testActor)
	if err != nil {
		t.Fatalf("SignEntry() error: %v", err)
	}
	if signed.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", signed.Status)
	}

	stored, _ := repo.GetByID(context.Background(), e.ID)
	if stored.Status != StatusCompleted {
		t.Error("expected persisted status to be completed")
	}
	if stored.SignedBy == nil || *stored.SignedBy != testActor.ID {
		t.Error("expected persisted signature")
	}
}

func TestServiceSignEntry_ValidationFailureNotPersisted(t *testing.T) {
	svc, repo := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote} // empty content
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.SignEntry(context.Background(), e.ID, testActor)
	ve, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, has := ve["content"]; !has {
		t.Errorf("expected content error, got %v", ve)
	}

	stored, _ := repo.GetByID(context.Background(), e.ID)
	if stored.Status != StatusDraft {
		t.Error("failed sign must leave the entry a draft")
	}
}

func TestServiceAppendNote(t *testing.T) {
	svc, repo := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "first"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SignEntry(context.Background(), e.ID, testActor); err != nil {
		t.Fatalf("sign: %v", err)
	}

	updated, err := svc.AppendNote(context.Background(), e.ID, "second", testActor)
	if err != nil {
		t.Fatalf("AppendNote() error: %v", err)
	}

	vc := ParseVersionedContent(updated.Content)
	if vc.Current != "second" || len(vc.Previous) != 1 {
		t.Errorf("unexpected decoded content: %+v", vc)
	}

	stored, _ := repo.GetByID(context.Background(), e.ID)
	if VersionCount(stored.Content) != 1 {
		t.Error("expected persisted content to carry one version")
	}
}

func TestServiceAppendNote_EmptyText(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AppendNote(context.Background(), uuid.New(), "", testActor)
	ve, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, has := ve["text"]; !has {
		t.Errorf("expected text error, got %v", ve)
	}
}

func TestServiceArchiveEntry(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "text"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SignEntry(context.Background(), e.ID, testActor); err != nil {
		t.Fatalf("sign: %v", err)
	}

	archived, err := svc.ArchiveEntry(context.Background(), e.ID, testActor)
	if err != nil {
		t.Fatalf("ArchiveEntry() error: %v", err)
	}
	if archived.Status != StatusArchived {
		t.Errorf("expected archived, got %s", archived.Status)
	}

	// Terminal state: no further writes.
	if _, err := svc.AppendNote(context.Background(), e.ID, "more", testActor); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition after archive, got %v", err)
	}
	if _, err := svc.ArchiveEntry(context.Background(), e.ID, testActor); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition for double archive, got %v", err)
	}
}

func TestServiceVersions(t *testing.T) {
	svc, _ := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "first"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SignEntry(context.Background(), e.ID, testActor); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.AppendNote(context.Background(), e.ID, "second", testActor); err != nil {
		t.Fatalf("append: %v", err)
	}

	vc, err := svc.Versions(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}
	if vc.Current != "second" {
		t.Errorf("expected current second, got %q", vc.Current)
	}
	if len(vc.Previous) != 1 || vc.Previous[0].Content != "first" {
		t.Errorf("unexpected history %+v", vc.Previous)
	}
}

func TestServiceGetEntry_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetEntry(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceStaleEntrySurfaced(t *testing.T) {
	svc, repo := newTestService()
	e := &Entry{PatientID: uuid.New(), EntryType: EntryTypeNote, Content: "text"}
	if err := svc.CreateEntry(context.Background(), e, testActor); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another client signs the entry between our fetch and write.
	fetched, _ := repo.GetByID(context.Background(), e.ID)
	if _, err := svc.SignEntry(context.Background(), e.ID, testActor); err != nil {
		t.Fatalf("concurrent sign: %v", err)
	}

	fetched.Title = "late edit"
	err := repo.UpdateDraft(context.Background(), fetched)
	if !errors.Is(err, ErrStaleEntry) {
		t.Errorf("expected ErrStaleEntry, got %v", err)
	}
}
