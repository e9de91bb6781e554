// Package memory keeps forms in process memory. It backs local runs without
// a database (STORE_DRIVER=memory) and the handler and service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/duynhne/form-service/internal/core/domain"
)

// FormRepository implements domain.FormRepository on a slice kept in insertion order
type FormRepository struct {
	mu    sync.RWMutex
	forms []domain.Form
}

// NewFormRepository creates an empty repository
func NewFormRepository() *FormRepository {
	return &FormRepository{}
}

func (r *FormRepository) Create(_ context.Context, in domain.FormInput) (*domain.Form, error) {
	form := domain.Form{
		ID:          uuid.NewString(),
		Username:    in.Username,
		Email:       in.Email,
		Description: in.Description,
		Phone:       in.Phone,
		City:        in.City,
	}

	r.mu.Lock()
	r.forms = append(r.forms, form)
	r.mu.Unlock()

	return &form, nil
}

func (r *FormRepository) List(_ context.Context) ([]domain.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Form, len(r.forms))
	copy(out, r.forms)
	return out, nil
}

func (r *FormRepository) Update(_ context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("update form %q: %w", id, domain.ErrFormNotFound)
	}

	r.forms[i] = domain.Form{
		ID:          id,
		Username:    in.Username,
		Email:       in.Email,
		Description: in.Description,
		Phone:       in.Phone,
		City:        in.City,
	}
	form := r.forms[i]
	return &form, nil
}

func (r *FormRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete form %q: %w", id, domain.ErrFormNotFound)
	}
	r.forms = slices.Delete(r.forms, i, i+1)
	return nil
}

func (r *FormRepository) Ping(_ context.Context) error {
	return nil
}

// indexOf must be called with mu held
func (r *FormRepository) indexOf(id string) int {
	return slices.IndexFunc(r.forms, func(f domain.Form) bool { return f.ID == id })
}
