package journal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carejournal/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, patient_id, entry_type, title, category, content, status,
	medication_name, medication_dose, medication_time,
	test_type, test_method, test_result, positive_substances,
	incident_severity, incident_details,
	created_by, created_by_name, updated_by, updated_by_name,
	signed_by, signed_by_name, signed_at, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PatientID, &e.EntryType, &e.Title, &e.Category, &e.Content, &e.Status,
		&e.MedicationName, &e.MedicationDose, &e.MedicationTime,
		&e.TestType, &e.TestMethod, &e.TestResult, &e.PositiveSubstances,
		&e.IncidentSeverity, &e.IncidentDetails,
		&e.CreatedBy, &e.CreatedByName, &e.UpdatedBy, &e.UpdatedByName,
		&e.SignedBy, &e.SignedByName, &e.SignedAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO journal_entry (id, patient_id, entry_type, title, category, content, status,
			medication_name, medication_dose, medication_time,
			test_type, test_method, test_result, positive_substances,
			incident_severity, incident_details,
			created_by, created_by_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING created_at, updated_at`,
		e.ID, e.PatientID, e.EntryType, e.Title, e.Category, e.Content, e.Status,
		e.MedicationName, e.MedicationDose, e.MedicationTime,
		e.TestType, e.TestMethod, e.TestResult, e.PositiveSubstances,
		e.IncidentSeverity, e.IncidentDetails,
		e.CreatedBy, e.CreatedByName)
	return row.Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+entryCols+` FROM journal_entry WHERE id = $1`, id))
}

func (r *repoPG) UpdateDraft(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE journal_entry SET title=$2, category=$3, content=$4,
			medication_name=$5, medication_dose=$6, medication_time=$7,
			test_type=$8, test_method=$9, test_result=$10, positive_substances=$11,
			incident_severity=$12, incident_details=$13,
			updated_by=$14, updated_by_name=$15, updated_at=NOW()
		WHERE id = $1 AND status = 'draft'`,
		e.ID, e.Title, e.Category, e.Content,
		e.MedicationName, e.MedicationDose, e.MedicationTime,
		e.TestType, e.TestMethod, e.TestResult, e.PositiveSubstances,
		e.IncidentSeverity, e.IncidentDetails,
		e.UpdatedBy, e.UpdatedByName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleEntry
	}
	return nil
}

func (r *repoPG) MarkSigned(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE journal_entry SET status='completed',
			signed_by=$2, signed_by_name=$3, signed_at=$4,
			updated_by=$2, updated_by_name=$3, updated_at=$4
		WHERE id = $1 AND status = 'draft'`,
		e.ID, e.SignedBy, e.SignedByName, e.SignedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleEntry
	}
	return nil
}

func (r *repoPG) AppendContent(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE journal_entry SET content=$2,
			updated_by=$3, updated_by_name=$4, updated_at=NOW()
		WHERE id = $1 AND status = 'completed'`,
		e.ID, e.Content, e.UpdatedBy, e.UpdatedByName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleEntry
	}
	return nil
}

func (r *repoPG) MarkArchived(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE journal_entry SET status='archived',
			updated_by=$2, updated_by_name=$3, updated_at=NOW()
		WHERE id = $1 AND status = 'completed'`,
		e.ID, e.UpdatedBy, e.UpdatedByName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleEntry
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entry WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM journal_entry
		 WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEntries(rows, total)
}

// searchCols maps query parameters to filterable columns.
var searchCols = map[string]string{
	"patient_id": "patient_id",
	"entry_type": "entry_type",
	"status":     "status",
	"category":   "category",
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	where := ""
	var args []interface{}
	for param, col := range searchCols {
		v, ok := params[param]
		if !ok || v == "" {
			continue
		}
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += col + " = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entry`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM journal_entry%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		entryCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEntries(rows, total)
}

func collectEntries(rows pgx.Rows, total int) ([]*Entry, int, error) {
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
