package inquiry

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "inquiry not found")
	ErrBookingNotFound = apperror.New(http.StatusNotFound, "booking not found")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
)

// Inquiry is a question a user asks about one of their bookings.
type Inquiry struct {
	ID        string
	BookingID string
	UserID    string
	Message   string
	Response  *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	UserID   string
	Status   Status
	Page     int
	PageSize int
}

type submission struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

type reply struct {
	Response string `json:"response" validate:"required,notblank,max=2000"`
}
