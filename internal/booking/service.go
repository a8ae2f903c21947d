package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type CreateRequest struct {
	UserID     string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateRequest) (*Booking, error)
	// UpdateBookingDates moves a booking; nil dates keep their current value.
	UpdateBookingDates(ctx context.Context, id, userID string, newStart, newEnd *time.Time) (*Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*Booking, error)
	RejectBooking(ctx context.Context, id string) (*Booking, error)
	CancelBooking(ctx context.Context, id, userID string) error
	// ListAvailability defaults to the date-occupying statuses when status is nil.
	ListAvailability(ctx context.Context, propertyID string, status *Status) ([]Slot, error)
	GetBooking(ctx context.Context, id, userID string) (*Booking, error)
	ListBookings(ctx context.Context, filter Filter, actorID string, isAdmin bool) ([]*Booking, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateBooking(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, ErrMissingDates
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidDateRange
	}

	b := &Booking{
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     StatusPending,
	}

	err := s.repo.WithPropertyLock(ctx, req.PropertyID, func(repo Repository) error {
		// Read from the store, not the public cache: the listing must still be
		// live when the row is inserted.
		listing, err := repo.LockListing(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if !listing.rentable() {
			return ErrPropertyNotFound
		}
		b.PropertyTitle = listing.Title
		b.Price = listing.Price

		overlap, err := repo.HasOverlap(ctx, b.PropertyID, b.StartDate, b.EndDate, "")
		if err != nil {
			return err
		}
		if overlap {
			return ErrDatesUnavailable
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID).
		Str("property_id", b.PropertyID).
		Time("start_date", b.StartDate).
		Time("end_date", b.EndDate).
		Msg("booking created")
	return b, nil
}

func (s *service) UpdateBookingDates(ctx context.Context, id, userID string, newStart, newEnd *time.Time) (*Booking, error) {
	b, err := s.GetBooking(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	start, end := b.StartDate, b.EndDate
	if newStart != nil {
		start = *newStart
	}
	if newEnd != nil {
		end = *newEnd
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	err = s.repo.WithPropertyLock(ctx, b.PropertyID, func(repo Repository) error {
		// Re-read under the lock; the booking may have been cancelled meanwhile.
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return ErrNotFound
		}

		overlap, err := repo.HasOverlap(ctx, current.PropertyID, start, end, current.ID)
		if err != nil {
			return err
		}
		if overlap {
			return ErrDatesUnavailable
		}

		current.StartDate, current.EndDate = start, end
		if err := repo.UpdateDates(ctx, current); err != nil {
			return err
		}
		b = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("booking_id", b.ID).Time("start_date", start).Time("end_date", end).Msg("booking dates updated")
	return b, nil
}

func (s *service) ConfirmBooking(ctx context.Context, id string) (*Booking, error) {
	return s.resolve(ctx, id, StatusConfirmed)
}

func (s *service) RejectBooking(ctx context.Context, id string) (*Booking, error) {
	return s.resolve(ctx, id, StatusRejected)
}

// resolve moves a pending booking to its final status. Overlap is not
// re-checked: it was guaranteed when the dates were last written.
func (s *service) resolve(ctx context.Context, id string, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithPropertyLock(ctx, b.PropertyID, func(repo Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return ErrNotPending
		}
		current.Status = to
		if err := repo.UpdateStatus(ctx, current); err != nil {
			return err
		}
		b = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("booking_id", id).Str("status", string(to)).Msg("booking resolved")
	return b, nil
}

func (s *service) CancelBooking(ctx context.Context, id, userID string) error {
	if _, err := s.GetBooking(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("booking_id", id).Msg("booking cancelled")
	return nil
}

func (s *service) ListAvailability(ctx context.Context, propertyID string, status *Status) ([]Slot, error) {
	statuses := activeStatuses
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		statuses = []Status{*status}
	}
	return s.repo.ListAvailability(ctx, propertyID, statuses)
}

// GetBooking is owner scoped: another user's booking reads as not found.
func (s *service) GetBooking(ctx context.Context, id, userID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context, filter Filter, actorID string, isAdmin bool) ([]*Booking, int, error) {
	if !isAdmin {
		filter.UserID = actorID
	}
	return s.repo.List(ctx, filter)
}
