package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/inquiry"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
)

type Handler struct {
	service inquiry.Service
}

func NewHandler(service inquiry.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Submit(c *gin.Context) {
	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	inq, err := h.service.Submit(c.Request.Context(), body.BookingID, auth.GetUserID(c), body.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewInquiryResponse(inq))
}

// ListMine returns the caller's own inquiries.
func (h *Handler) ListMine(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	list, total, err := h.service.ListForUser(c.Request.Context(), auth.GetUserID(c), inquiry.Filter{
		Status:   inquiry.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(list, NewInquiryResponse, req.Page, req.PageSize, total))
}

func (h *Handler) ListAll(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	list, total, err := h.service.ListAll(c.Request.Context(), inquiry.Filter{
		Status:   inquiry.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(list, NewInquiryResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Respond(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid inquiry id")
		return
	}
	var body RespondRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	inq, err := h.service.Respond(c.Request.Context(), uri.ID, body.Response)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewInquiryResponse(inq))
}
