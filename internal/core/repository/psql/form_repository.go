package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/form-service/internal/core/domain"
)

// DBTX is the subset of *pgxpool.Pool the repository needs
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// seq keeps insertion order for List; id is the public identifier.
const schema = `CREATE TABLE IF NOT EXISTS forms (
	seq         BIGSERIAL,
	id          UUID PRIMARY KEY,
	username    TEXT NOT NULL,
	email       TEXT NOT NULL,
	description TEXT NOT NULL,
	phone       TEXT NOT NULL,
	city        TEXT NOT NULL
)`

const formColumns = `id::text, username, email, description, phone, city`

// FormRepository implements domain.FormRepository using PostgreSQL
type FormRepository struct {
	db DBTX
}

// NewFormRepository creates a new PostgreSQL form repository
func NewFormRepository(db DBTX) *FormRepository {
	return &FormRepository{db: db}
}

// EnsureSchema creates the forms table if it does not exist
func (r *FormRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create forms table: %w", err)
	}
	return nil
}

// Create inserts a new form with a generated UUID
func (r *FormRepository) Create(ctx context.Context, in domain.FormInput) (*domain.Form, error) {
	id := uuid.New().String()

	query := `INSERT INTO forms (id, username, email, description, phone, city) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.Exec(ctx, query, id, in.Username, in.Email, in.Description, in.Phone, in.City); err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}

	return &domain.Form{
		ID:          id,
		Username:    in.Username,
		Email:       in.Email,
		Description: in.Description,
		Phone:       in.Phone,
		City:        in.City,
	}, nil
}

// List returns all forms in insertion order
func (r *FormRepository) List(ctx context.Context) ([]domain.Form, error) {
	rows, err := r.db.Query(ctx, `SELECT `+formColumns+` FROM forms ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	forms := make([]domain.Form, 0)
	for rows.Next() {
		var f domain.Form
		if err := rows.Scan(&f.ID, &f.Username, &f.Email, &f.Description, &f.Phone, &f.City); err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}

	return forms, nil
}

// Update overwrites all fields in one statement and returns the new row
func (r *FormRepository) Update(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update form %q: %w", id, domain.ErrFormNotFound)
	}

	query := `UPDATE forms SET username = $2, email = $3, description = $4, phone = $5, city = $6
		WHERE id = $1 RETURNING ` + formColumns

	var f domain.Form
	err := r.db.QueryRow(ctx, query, id, in.Username, in.Email, in.Description, in.Phone, in.City).
		Scan(&f.ID, &f.Username, &f.Email, &f.Description, &f.Phone, &f.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update form %q: %w", id, domain.ErrFormNotFound)
		}
		return nil, fmt.Errorf("update form %q: %w", id, err)
	}

	return &f, nil
}

// Delete removes a form by id
func (r *FormRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete form %q: %w", id, domain.ErrFormNotFound)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete form %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete form %q: %w", id, domain.ErrFormNotFound)
	}
	return nil
}

// Ping checks the database connection
func (r *FormRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
