package vaccinations

import "context"

type Repository interface {
	Create(ctx context.Context, r Record) error
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByPet devuelve en orden de inserción (created_at asc).
	ListByPet(ctx context.Context, petID string) ([]Record, error)
	DeleteByPet(ctx context.Context, petID string) error
}
