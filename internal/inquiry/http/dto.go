package http

import (
	"time"

	"github.com/nekogravitycat/estify-backend/internal/inquiry"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
)

type InquiryResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  *string   `json:"response"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewInquiryResponse(i *inquiry.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:        i.ID,
		BookingID: i.BookingID,
		UserID:    i.UserID,
		Message:   i.Message,
		Response:  i.Response,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

type SubmitRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Message   string `json:"message" binding:"required"`
}

type RespondRequest struct {
	Response string `json:"response" binding:"required"`
}

type ListRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending responded"`
}
