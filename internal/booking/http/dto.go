package http

import (
	"time"

	"github.com/nekogravitycat/estify-backend/internal/booking"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
// user_id is only honoured for admins.
type ListBookingsRequest struct {
	request.ListParams
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed rejected"`
}

// AvailabilityRequest selects the calendar of one property.
type AvailabilityRequest struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed rejected"`
}

func (r *AvailabilityRequest) status() *booking.Status {
	if r.Status == "" {
		return nil
	}
	s := booking.Status(r.Status)
	return &s
}

type CreateBookingRequest struct {
	PropertyID string        `json:"property_id" binding:"required,uuid"`
	StartDate  *request.Date `json:"start_date"`
	EndDate    *request.Date `json:"end_date"`
}

func (r *CreateBookingRequest) toInput(userID string) booking.CreateRequest {
	in := booking.CreateRequest{UserID: userID, PropertyID: r.PropertyID}
	if r.StartDate != nil {
		in.StartDate = r.StartDate.Time
	}
	if r.EndDate != nil {
		in.EndDate = r.EndDate.Time
	}
	return in
}

// UpdateBookingRequest moves a booking; omitted dates keep their value.
type UpdateBookingRequest struct {
	StartDate *request.Date `json:"start_date"`
	EndDate   *request.Date `json:"end_date"`
}

type BookingResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	PropertyID    string    `json:"property_id"`
	PropertyTitle string    `json:"property_title,omitempty"`
	Price         float64   `json:"price"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		PropertyID:    b.PropertyID,
		PropertyTitle: b.PropertyTitle,
		Price:         b.Price,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type SlotResponse struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

func NewSlotResponses(slots []booking.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{StartDate: s.StartDate, EndDate: s.EndDate, Status: string(s.Status)}
	}
	return out
}
