package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/fleetrent/service-reservation/internal/domain"
	clientDomain "github.com/fleetrent/service-reservation/internal/domain/client"
)

// ClientModel is the GORM model for the clients table.
type ClientModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	LastName  string    `gorm:"not null;size:100"`
	FirstName string    `gorm:"not null;size:100"`
	Email     string    `gorm:"not null;size:255;uniqueIndex"`
	Phone     string    `gorm:"not null;size:30"`
	Address   string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ClientModel) TableName() string {
	return "clients"
}

// GormClientRepository is the GORM-based implementation of client.Repository.
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository.
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID retrieves a client by its identifier.
func (r *GormClientRepository) FindByID(ctx context.Context, id int64) (*clientDomain.Client, error) {
	var model ClientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Client", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}
	return toDomainClient(&model), nil
}

// Save inserts a new client and assigns the generated id to it.
func (r *GormClientRepository) Save(ctx context.Context, c *clientDomain.Client) error {
	model := toClientModel(c)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("a client with email %s already exists", c.Email()))
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return c.AssignID(model.ID)
}

// Update persists contact changes of an existing client.
func (r *GormClientRepository) Update(ctx context.Context, c *clientDomain.Client) error {
	result := r.db.WithContext(ctx).
		Model(&ClientModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"email":      c.Email(),
			"phone":      c.Phone(),
			"address":    c.Address(),
			"updated_at": c.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Client", strconv.FormatInt(c.ID(), 10))
	}
	return nil
}

// --- Conversion Helpers ---

func toClientModel(c *clientDomain.Client) *ClientModel {
	return &ClientModel{
		ID:        c.ID(),
		LastName:  c.LastName(),
		FirstName: c.FirstName(),
		Email:     c.Email(),
		Phone:     c.Phone(),
		Address:   c.Address(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toDomainClient(m *ClientModel) *clientDomain.Client {
	return clientDomain.Reconstruct(m.ID, m.LastName, m.FirstName, m.Email, m.Phone, m.Address, m.CreatedAt, m.UpdatedAt)
}
