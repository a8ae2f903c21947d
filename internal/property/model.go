package property

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "property not found")
	ErrRequestNotFound  = apperror.New(http.StatusNotFound, "property request not found")
	ErrOriginalNotFound = apperror.New(http.StatusNotFound, "original property not found")
	ErrNoChanges        = apperror.New(http.StatusBadRequest, "at least one field must be changed")
)

type Type string

const (
	TypeRent    Type = "rent"
	TypeSelling Type = "selling"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

type RequestType string

const (
	RequestAdd    RequestType = "add"
	RequestUpdate RequestType = "update"
	RequestDelete RequestType = "delete"
)

// Lifecycle is the approval state of a property record. The set of
// variants is closed: Live, PendingAdd, PendingUpdate and PendingDelete.
type Lifecycle interface {
	lifecycle()
}

// Live is an approved, publicly listed record.
type Live struct{}

// PendingAdd is a new listing awaiting its first approval.
type PendingAdd struct{}

// PendingUpdate is a shadow record staging changes for OriginalID.
// OriginalID is only ever looked up, never followed as ownership.
type PendingUpdate struct {
	OriginalID string
}

// PendingDelete is a live record flagged for removal. It is hidden from
// public listings until the request is resolved.
type PendingDelete struct{}

func (Live) lifecycle()          {}
func (PendingAdd) lifecycle()    {}
func (PendingUpdate) lifecycle() {}
func (PendingDelete) lifecycle() {}

// Fields are the agent-editable attributes of a listing.
type Fields struct {
	Title         string  `json:"title" validate:"required,min=3"`
	Description   string  `json:"description" validate:"required,min=10"`
	ContactName   string  `json:"contact_name" validate:"required,alphaspace"`
	ContactNumber string  `json:"contact_number" validate:"required,len=10,numeric"`
	Type          Type    `json:"property_type" validate:"required,oneof=rent selling"`
	District      string  `json:"district" validate:"required,notblank"`
	Price         float64 `json:"price" validate:"gte=0"`
	Image         *string `json:"image,omitempty"`
}

// normalize trims the short fields. The description is kept verbatim and
// its length counts surrounding whitespace.
func (f *Fields) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.ContactName = strings.TrimSpace(f.ContactName)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)
	f.District = strings.TrimSpace(f.District)
}

// mergeFrom copies every editable field of src onto f. The image is only
// replaced when src carries one.
func (f *Fields) mergeFrom(src Fields) {
	image := f.Image
	*f = src
	if src.Image == nil {
		f.Image = image
	}
}

// Changes is a partial edit; nil fields keep the original's value.
type Changes struct {
	Title         *string
	Description   *string
	ContactName   *string
	ContactNumber *string
	Type          *Type
	District      *string
	Price         *float64
	Image         *string
}

func (c Changes) empty() bool {
	return c == Changes{}
}

func (c Changes) applyTo(f *Fields) {
	if c.Title != nil {
		f.Title = *c.Title
	}
	if c.Description != nil {
		f.Description = *c.Description
	}
	if c.ContactName != nil {
		f.ContactName = *c.ContactName
	}
	if c.ContactNumber != nil {
		f.ContactNumber = *c.ContactNumber
	}
	if c.Type != nil {
		f.Type = *c.Type
	}
	if c.District != nil {
		f.District = *c.District
	}
	if c.Price != nil {
		f.Price = *c.Price
	}
	if c.Image != nil {
		f.Image = c.Image
	}
}

// Property is a listing, either live or a pending change request.
type Property struct {
	ID string
	Fields
	Lifecycle     Lifecycle
	PostedByAgent string
	// AgentEmail is filled by list queries for reporting; empty when the
	// agent account no longer exists.
	AgentEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Property) IsLive() bool {
	_, ok := p.Lifecycle.(Live)
	return ok
}

// IsRentable reports whether the property can take bookings.
func (p *Property) IsRentable() bool {
	return p.IsLive() && p.Type == TypeRent
}

// Status, RequestType and OriginalID flatten the lifecycle for storage and transport.
func (p *Property) Status() Status {
	s, _, _ := flatten(p.Lifecycle)
	return s
}

func (p *Property) RequestType() RequestType {
	_, rt, _ := flatten(p.Lifecycle)
	return rt
}

func (p *Property) OriginalID() *string {
	_, _, orig := flatten(p.Lifecycle)
	return orig
}

func flatten(l Lifecycle) (Status, RequestType, *string) {
	switch v := l.(type) {
	case Live:
		return StatusApproved, RequestAdd, nil
	case PendingAdd:
		return StatusPending, RequestAdd, nil
	case PendingUpdate:
		id := v.OriginalID
		return StatusPending, RequestUpdate, &id
	case PendingDelete:
		return StatusPending, RequestDelete, nil
	default:
		panic(fmt.Sprintf("property: unknown lifecycle %T", l))
	}
}

// lifecycleOf rebuilds a Lifecycle from stored columns and rejects
// combinations no variant can express.
func lifecycleOf(status Status, rt RequestType, originalID *string) (Lifecycle, error) {
	if (rt == RequestUpdate) != (originalID != nil) {
		return nil, fmt.Errorf("request type %q with original id set=%t", rt, originalID != nil)
	}
	switch {
	case status == StatusApproved && rt == RequestAdd:
		return Live{}, nil
	case status == StatusPending && rt == RequestAdd:
		return PendingAdd{}, nil
	case status == StatusPending && rt == RequestUpdate:
		return PendingUpdate{OriginalID: *originalID}, nil
	case status == StatusPending && rt == RequestDelete:
		return PendingDelete{}, nil
	default:
		return nil, fmt.Errorf("invalid lifecycle status=%q request_type=%q", status, rt)
	}
}

// record is the flat shape of a Property used for caching.
type record struct {
	ID                 string      `json:"id"`
	Fields             Fields      `json:"fields"`
	Status             Status      `json:"status"`
	RequestType        RequestType `json:"request_type"`
	OriginalPropertyID *string     `json:"original_property_id,omitempty"`
	PostedByAgent      string      `json:"posted_by_agent"`
	AgentEmail         string      `json:"agent_email,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (p Property) MarshalJSON() ([]byte, error) {
	status, rt, orig := flatten(p.Lifecycle)
	return json.Marshal(record{
		ID:                 p.ID,
		Fields:             p.Fields,
		Status:             status,
		RequestType:        rt,
		OriginalPropertyID: orig,
		PostedByAgent:      p.PostedByAgent,
		AgentEmail:         p.AgentEmail,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	})
}

func (p *Property) UnmarshalJSON(b []byte) error {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	lc, err := lifecycleOf(r.Status, r.RequestType, r.OriginalPropertyID)
	if err != nil {
		return err
	}
	*p = Property{
		ID:            r.ID,
		Fields:        r.Fields,
		Lifecycle:     lc,
		PostedByAgent: r.PostedByAgent,
		AgentEmail:    r.AgentEmail,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	return nil
}

// Action describes how Approve or Reject resolved a request.
type Action string

const (
	ActionPublished Action = "published"
	ActionMerged    Action = "merged"
	ActionRemoved   Action = "removed"
	ActionRestored  Action = "restored"
	ActionDiscarded Action = "discarded"
)

// Resolution is the outcome of Approve or Reject. Property is the record
// that survives, or the removed one for ActionRemoved and ActionDiscarded.
type Resolution struct {
	RequestID string
	Action    Action
	Property  *Property
}

// PendingItem is an entry of the admin review queue. Original is set for
// update requests whose original still exists.
type PendingItem struct {
	Request  *Property
	Original *Property
}

// Filter defines parameters for listing properties.
type Filter struct {
	Status      Status
	RequestType RequestType
	Type        Type
	District    string
	AgentID     string
	Page        int
	PageSize    int
}
