package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/estify-backend/internal/property"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, "property not found or not available for rent")
	ErrDatesUnavailable = apperror.New(http.StatusConflict, "dates unavailable")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "start date must be before end date")
	ErrMissingDates     = apperror.New(http.StatusBadRequest, "start date and end date are required")
	ErrNotPending       = apperror.New(http.StatusConflict, "booking is no longer pending")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// Listing is the part of a property row a booking is checked and priced against.
type Listing struct {
	ID    string
	Title string
	Type  property.Type
	Price float64
	Live  bool
}

func (l *Listing) rentable() bool {
	return l.Live && l.Type == property.TypeRent
}

// Booking reserves a rental property for [StartDate, EndDate).
// Price is copied from the property when the booking is made.
type Booking struct {
	ID            string
	UserID        string
	PropertyID    string
	PropertyTitle string
	Price         float64
	StartDate     time.Time
	EndDate       time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Slot is the calendar projection of a booking.
type Slot struct {
	StartDate time.Time
	EndDate   time.Time
	Status    Status
}

// Overlaps reports whether [s1, e1) and [s2, e2) share any instant.
// Back-to-back ranges (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// activeStatuses are the statuses that occupy dates.
var activeStatuses = []Status{StatusPending, StatusConfirmed}

type Filter struct {
	UserID     string
	PropertyID string
	Status     Status
	Page       int
	PageSize   int
}
