package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	entries Repository
	now     func() time.Time
}

func NewService(entries Repository) *Service {
	return &Service{
		entries: entries,
		now:     time.Now,
	}
}

// CreateEntry stores a new draft. Drafts may be incomplete; only the owning
// patient, a valid entry type and a sane category are enforced here. The
// full per-type rules run at signing time.
func (s *Service) CreateEntry(ctx context.Context, e *Entry, by Actor) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.EntryType == "" {
		e.EntryType = EntryTypeNote
	}
	if !e.EntryType.Valid() {
		return fmt.Errorf("invalid entry_type: %s", e.EntryType)
	}
	if e.Category != nil && *e.Category != "" && !validCategory(*e.Category) {
		return fmt.Errorf("invalid category: %s", *e.Category)
	}

	// Entries always start as drafts regardless of what the caller sent.
	e.Status = StatusDraft
	if e.Title == "" {
		e.Title = DefaultTitle(e.EntryType)
	}
	if e.EntryType == EntryTypeMedication && e.MedicationTime == nil {
		t := s.now()
		e.MedicationTime = &t
	}
	e.CreatedBy = by.ID
	e.CreatedByName = by.Name
	e.SignedBy = nil
	e.SignedByName = nil
	e.SignedAt = nil

	return s.entries.Create(ctx, e)
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// UpdateDraft applies field edits to a draft entry. The entry type is fixed
// at creation and silently preserved; edits to any non-draft entry are an
// illegal transition.
func (s *Service) UpdateDraft(ctx context.Context, e *Entry, by Actor) (*Entry, error) {
	existing, err := s.entries.GetByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if !CanEditFields(existing) {
		return nil, ErrIllegalTransition
	}
	if e.Category != nil && *e.Category != "" && !validCategory(*e.Category) {
		return nil, fmt.Errorf("invalid category: %s", *e.Category)
	}

	e.PatientID = existing.PatientID
	e.EntryType = existing.EntryType
	e.Status = StatusDraft
	e.CreatedBy = existing.CreatedBy
	e.CreatedByName = existing.CreatedByName
	e.UpdatedBy = &by.ID
	e.UpdatedByName = &by.Name
	e.UpdatedAt = s.now()

	if err := s.entries.UpdateDraft(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SignEntry completes a draft. On validation failure the ValidationErrors are
// returned and nothing is persisted; the caller fixes the fields and retries.
// The returned entry carries the server-assigned provenance and is the
// canonical state the caller must adopt.
func (s *Service) SignEntry(ctx context.Context, id uuid.UUID, by Actor) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Sign(e, by, s.now()); err != nil {
		return nil, err
	}
	if err := s.entries.MarkSigned(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// AppendNote adds a content version to a completed entry.
func (s *Service) AppendNote(ctx context.Context, id uuid.UUID, text string, by Actor) (*Entry, error) {
	if text == "" {
		return nil, ValidationErrors{"text": msgRequired}
	}
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AppendNote(e, text, by, s.now()); err != nil {
		return nil, err
	}
	if err := s.entries.AppendContent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ArchiveEntry moves a completed entry to its terminal archived state.
func (s *Service) ArchiveEntry(ctx context.Context, id uuid.UUID, by Actor) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Archive(e, by, s.now()); err != nil {
		return nil, err
	}
	if err := s.entries.MarkArchived(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Versions returns the decoded content history so clients never have to
// parse the delimiter format themselves.
func (s *Service) Versions(ctx context.Context, id uuid.UUID) (VersionedContent, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return VersionedContent{}, err
	}
	return ParseVersionedContent(e.Content), nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.entries.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) SearchEntries(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	return s.entries.Search(ctx, params, limit, offset)
}
