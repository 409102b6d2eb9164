package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	clientDomain "github.com/fleetrent/service-reservation/internal/domain/client"
	"github.com/fleetrent/service-reservation/internal/domain/reservation"
)

// CreateClientRequest holds the data needed to register a client.
type CreateClientRequest struct {
	LastName  string `json:"last_name" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address"`
}

// UpdateContactRequest holds a partial contact update. Empty fields are kept.
type UpdateContactRequest struct {
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ClientDTO is the response representation of a client.
type ClientDTO struct {
	ID        int64     `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientHistoryDTO is a client's rental history.
type ClientHistoryDTO struct {
	ClientID        int64            `json:"client_id"`
	Active          []ReservationDTO `json:"active"`
	Past            []ReservationDTO `json:"past"`
	TotalSpentCents int64            `json:"total_spent_cents"`
	Loyal           bool             `json:"loyal"`
}

// ClientService handles client registration and history.
type ClientService struct {
	repo             clientDomain.Repository
	reservations     reservation.Repository
	loyaltyThreshold int
	logger           *zap.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(
	repo clientDomain.Repository,
	reservations reservation.Repository,
	loyaltyThreshold int,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		repo:             repo,
		reservations:     reservations,
		loyaltyThreshold: loyaltyThreshold,
		logger:           logger,
	}
}

// CreateClient validates and stores a new client.
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientDTO, error) {
	c, err := clientDomain.NewClient(req.LastName, req.FirstName, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("client created", zap.Int64("client_id", c.ID()))
	result := toClientDTO(c)
	return &result, nil
}

// GetClient returns a client by id.
func (s *ClientService) GetClient(ctx context.Context, id int64) (*ClientDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toClientDTO(c)
	return &result, nil
}

// UpdateContact changes a client's email, phone or address.
func (s *ClientService) UpdateContact(ctx context.Context, id int64, req UpdateContactRequest) (*ClientDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateContact(req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("client contact updated", zap.Int64("client_id", id))
	result := toClientDTO(c)
	return &result, nil
}

// History summarizes a client's reservations.
func (s *ClientService) History(ctx context.Context, id int64) (*ClientHistoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	rs, err := s.reservations.FindByClientID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load client reservations: %w", err)
	}

	summary := clientDomain.Summarize(rs, s.loyaltyThreshold)
	return &ClientHistoryDTO{
		ClientID:        id,
		Active:          toReservationDTOs(summary.Active),
		Past:            toReservationDTOs(summary.Past),
		TotalSpentCents: summary.TotalSpentCents,
		Loyal:           summary.Loyal,
	}, nil
}

func toClientDTO(c *clientDomain.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID(),
		LastName:  c.LastName(),
		FirstName: c.FirstName(),
		FullName:  c.FullName(),
		Email:     c.Email(),
		Phone:     c.Phone(),
		Address:   c.Address(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}
