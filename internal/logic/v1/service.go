package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/form-service/internal/core/domain"
	"github.com/duynhne/form-service/middleware"
)

// FormService holds the business logic for form submissions
type FormService struct {
	repo domain.FormRepository
}

// NewFormService creates a new form service over the given repository
func NewFormService(repo domain.FormRepository) *FormService {
	return &FormService{repo: repo}
}

// CreateForm validates the input and stores a new form
func (s *FormService) CreateForm(ctx context.Context, in domain.FormInput) (*domain.Form, error) {
	ctx, span := middleware.StartSpan(ctx, "form.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := in.Validate(); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, fmt.Errorf("create form: %w", err)
	}

	form, err := s.repo.Create(ctx, in)
	observeStoreOp(opCreate, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create form: %w", err)
	}

	span.SetAttributes(attribute.String("form.id", form.ID))
	span.AddEvent("form.created")
	return form, nil
}

// ListForms returns all stored forms
func (s *FormService) ListForms(ctx context.Context) ([]domain.Form, error) {
	ctx, span := middleware.StartSpan(ctx, "form.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	forms, err := s.repo.List(ctx)
	observeStoreOp(opList, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list forms: %w", err)
	}

	span.SetAttributes(attribute.Int("form.count", len(forms)))
	return forms, nil
}

// UpdateForm validates the input and replaces every field of the form
func (s *FormService) UpdateForm(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	ctx, span := middleware.StartSpan(ctx, "form.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("form.id", id),
	))
	defer span.End()

	if err := in.Validate(); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, fmt.Errorf("update form %q: %w", id, err)
	}

	form, err := s.repo.Update(ctx, id, in)
	observeStoreOp(opUpdate, err)
	if err != nil {
		if errors.Is(err, domain.ErrFormNotFound) {
			span.SetAttributes(attribute.Bool("form.found", false))
		} else {
			span.RecordError(err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Bool("form.found", true))
	return form, nil
}

// DeleteForm removes the form with the given id
func (s *FormService) DeleteForm(ctx context.Context, id string) error {
	ctx, span := middleware.StartSpan(ctx, "form.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("form.id", id),
	))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	observeStoreOp(opDelete, err)
	if err != nil {
		if errors.Is(err, domain.ErrFormNotFound) {
			span.SetAttributes(attribute.Bool("form.found", false))
		} else {
			span.RecordError(err)
		}
		return err
	}

	span.SetAttributes(attribute.Bool("form.found", true))
	return nil
}

// Ping reports whether the store is reachable
func (s *FormService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
