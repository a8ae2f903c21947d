package inquiry

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/booking"
	"github.com/nekogravitycat/estify-backend/internal/pkg/validate"
)

// BookingReader resolves a booking as seen by its owner.
type BookingReader interface {
	GetBooking(ctx context.Context, id, userID string) (*booking.Booking, error)
}

type Service interface {
	// Submit files an inquiry about a booking the user owns.
	Submit(ctx context.Context, bookingID, userID, message string) (*Inquiry, error)
	Respond(ctx context.Context, id, response string) (*Inquiry, error)
	ListForUser(ctx context.Context, userID string, filter Filter) ([]*Inquiry, int, error)
	ListAll(ctx context.Context, filter Filter) ([]*Inquiry, int, error)
}

type service struct {
	repo     Repository
	bookings BookingReader
}

func NewService(repo Repository, bookings BookingReader) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
	}
}

func (s *service) Submit(ctx context.Context, bookingID, userID, message string) (*Inquiry, error) {
	message = strings.TrimSpace(message)
	if err := validate.Struct(submission{Message: message}); err != nil {
		return nil, err
	}

	if _, err := s.bookings.GetBooking(ctx, bookingID, userID); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	inq := &Inquiry{
		BookingID: bookingID,
		UserID:    userID,
		Message:   message,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, inq); err != nil {
		return nil, err
	}

	log.Info().Str("inquiry_id", inq.ID).Str("booking_id", bookingID).Msg("inquiry submitted")
	return inq, nil
}

func (s *service) Respond(ctx context.Context, id, response string) (*Inquiry, error) {
	response = strings.TrimSpace(response)
	if err := validate.Struct(reply{Response: response}); err != nil {
		return nil, err
	}

	inq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inq.Response = &response
	inq.Status = StatusResponded
	if err := s.repo.Respond(ctx, inq); err != nil {
		return nil, err
	}

	log.Info().Str("inquiry_id", id).Msg("inquiry responded")
	return inq, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, filter Filter) ([]*Inquiry, int, error) {
	filter.UserID = userID
	return s.repo.List(ctx, filter)
}

func (s *service) ListAll(ctx context.Context, filter Filter) ([]*Inquiry, int, error) {
	return s.repo.List(ctx, filter)
}
