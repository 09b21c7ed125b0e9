package negotiation

import (
	"context"

	"realtyflow/internal/domain"
	"realtyflow/internal/modules/booking"
	"realtyflow/internal/repository"
)

// Booker writes a booking inside the approval transaction and announces it
// after commit.
type Booker interface {
	CreateInTx(ctx context.Context, tx *repository.Repositories, actor domain.Actor, req booking.CreateBookingRequest) (*booking.Result, error)
	Announce(res *booking.Result)
}
