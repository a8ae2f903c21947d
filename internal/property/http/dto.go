package http

import (
	"time"

	"github.com/nekogravitycat/estify-backend/internal/file"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
	"github.com/nekogravitycat/estify-backend/internal/property"
)

type PropertyResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ContactName        string    `json:"contact_name"`
	ContactNumber      string    `json:"contact_number"`
	PropertyType       string    `json:"property_type"`
	District           string    `json:"district"`
	Price              float64   `json:"price"`
	Image              *string   `json:"image"`
	ImageURL           *string   `json:"image_url"`
	ThumbnailURL       *string   `json:"thumbnail_url"`
	Status             string    `json:"status"`
	RequestType        string    `json:"request_type"`
	OriginalPropertyID *string   `json:"original_property_id"`
	PostedByAgent      string    `json:"posted_by_agent"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewPropertyResponse(p *property.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		ContactName:        p.ContactName,
		ContactNumber:      p.ContactNumber,
		PropertyType:       string(p.Type),
		District:           p.District,
		Price:              p.Price,
		Image:              p.Image,
		Status:             string(p.Status()),
		RequestType:        string(p.RequestType()),
		OriginalPropertyID: p.OriginalID(),
		PostedByAgent:      p.PostedByAgent,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Image != nil {
		url, thumb := file.FileURL(*p.Image), file.ThumbnailURL(*p.Image)
		resp.ImageURL, resp.ThumbnailURL = &url, &thumb
	}
	return resp
}

// PendingResponse is a review-queue entry; Original is present for update
// requests whose original still exists.
type PendingResponse struct {
	PropertyResponse
	Original *PropertyResponse `json:"original,omitempty"`
}

func NewPendingResponse(item *property.PendingItem) PendingResponse {
	resp := PendingResponse{PropertyResponse: NewPropertyResponse(item.Request)}
	if item.Original != nil {
		orig := NewPropertyResponse(item.Original)
		resp.Original = &orig
	}
	return resp
}

type ReportRowResponse struct {
	PropertyResponse
	AgentEmail string `json:"agent_email"`
}

func NewReportRowResponse(p *property.Property) ReportRowResponse {
	return ReportRowResponse{PropertyResponse: NewPropertyResponse(p), AgentEmail: p.AgentEmail}
}

type ResolutionResponse struct {
	Message   string           `json:"message"`
	RequestID string           `json:"request_id"`
	Action    string           `json:"action"`
	Property  PropertyResponse `json:"property"`
}

var resolutionMessages = map[property.Action]string{
	property.ActionPublished: "property approved and published",
	property.ActionMerged:    "property update approved and merged",
	property.ActionRemoved:   "property deletion approved",
	property.ActionRestored:  "property deletion rejected; listing restored",
	property.ActionDiscarded: "property request rejected",
}

func NewResolutionResponse(r *property.Resolution) ResolutionResponse {
	return ResolutionResponse{
		Message:   resolutionMessages[r.Action],
		RequestID: r.RequestID,
		Action:    string(r.Action),
		Property:  NewPropertyResponse(r.Property),
	}
}

// SubmitAddRequest accepts JSON or multipart form data; a multipart
// "image" file becomes the listing image.
type SubmitAddRequest struct {
	Title         string   `json:"title" form:"title" binding:"required"`
	Description   string   `json:"description" form:"description" binding:"required"`
	ContactName   string   `json:"contact_name" form:"contact_name" binding:"required"`
	ContactNumber string   `json:"contact_number" form:"contact_number" binding:"required"`
	PropertyType  string   `json:"property_type" form:"property_type" binding:"required"`
	District      string   `json:"district" form:"district" binding:"required"`
	Price         *float64 `json:"price" form:"price" binding:"required"`
}

func (r SubmitAddRequest) toFields(image *string) property.Fields {
	return property.Fields{
		Title:         r.Title,
		Description:   r.Description,
		ContactName:   r.ContactName,
		ContactNumber: r.ContactNumber,
		Type:          property.Type(r.PropertyType),
		District:      r.District,
		Price:         *r.Price,
		Image:         image,
	}
}

type SubmitUpdateRequest struct {
	PropertyID    string   `json:"property_id" form:"property_id" binding:"required,uuid"`
	Title         *string  `json:"title" form:"title"`
	Description   *string  `json:"description" form:"description"`
	ContactName   *string  `json:"contact_name" form:"contact_name"`
	ContactNumber *string  `json:"contact_number" form:"contact_number"`
	PropertyType  *string  `json:"property_type" form:"property_type"`
	District      *string  `json:"district" form:"district"`
	Price         *float64 `json:"price" form:"price"`
}

func (r SubmitUpdateRequest) toChanges(image *string) property.Changes {
	c := property.Changes{
		Title:         r.Title,
		Description:   r.Description,
		ContactName:   r.ContactName,
		ContactNumber: r.ContactNumber,
		District:      r.District,
		Price:         r.Price,
		Image:         image,
	}
	if r.PropertyType != nil {
		t := property.Type(*r.PropertyType)
		c.Type = &t
	}
	return c
}

type ListPublicRequest struct {
	request.ListParams
	District     string `form:"district"`
	PropertyType string `form:"property_type" binding:"omitempty,oneof=rent selling"`
}

type ListMineRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending approved"`
}

type ListPendingRequest struct {
	request.ListParams
	RequestType string `form:"request_type" binding:"omitempty,oneof=add update delete"`
}

type ReportRequest struct {
	request.ListParams
	PropertyType string `form:"property_type" binding:"omitempty,oneof=rent selling"`
	Status       string `form:"status" binding:"omitempty,oneof=pending approved"`
	District     string `form:"district"`
	AgentID      string `form:"agent_id" binding:"omitempty,uuid"`
}
