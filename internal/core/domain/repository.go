package domain

import "context"

// FormRepository defines the interface for form data access.
// Every method is a single store call.
type FormRepository interface {
	Create(ctx context.Context, in FormInput) (*Form, error)
	List(ctx context.Context) ([]Form, error)
	// Update replaces all fields and returns the stored record after the write.
	// Returns ErrFormNotFound when nothing matches id.
	Update(ctx context.Context, id string, in FormInput) (*Form, error)
	// Delete returns ErrFormNotFound when nothing matches id.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
