package vehicle

import "context"

// Repository defines the persistence interface for vehicles.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Vehicle, error)
	FindAll(ctx context.Context) ([]*Vehicle, error)
	// Save inserts a new vehicle and assigns its id.
	Save(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id int64) error
}
