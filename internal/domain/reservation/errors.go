package reservation

import "github.com/fleetrent/service-reservation/internal/domain"

var (
	// ErrInvalidRange is returned when a reservation does not end after it starts.
	ErrInvalidRange = domain.NewValidationError("reservation end must be after its start")

	// ErrInvalidStatus is returned for a status outside confirmed, cancelled and completed.
	ErrInvalidStatus = domain.NewValidationError("invalid reservation status")
)
