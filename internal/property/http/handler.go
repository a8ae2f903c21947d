package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/file"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
	"github.com/nekogravitycat/estify-backend/internal/property"
)

const imageFormField = "image"

// ImageStore is the part of file.Service the listing handlers need.
type ImageStore interface {
	Upload(ctx context.Context, in file.UploadInput) (*file.File, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	service property.Service
	images  ImageStore
}

// NewHandler builds the property handler. images may be nil, in which case
// uploaded files are ignored.
func NewHandler(service property.Service, images ImageStore) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

// ListPublic returns approved listings only.
func (h *Handler) ListPublic(c *gin.Context) {
	var req ListPublicRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	items, total, err := h.service.ListApprovedPublic(c.Request.Context(), property.Filter{
		Type:     property.Type(req.PropertyType),
		District: req.District,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(items, NewPropertyResponse, req.Page, req.PageSize, total))
}

func (h *Handler) GetPublic(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	p, err := h.service.GetPublic(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

func (h *Handler) SubmitAdd(c *gin.Context) {
	var req SubmitAddRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	image, ok := h.uploadImage(c)
	if !ok {
		return
	}

	p, err := h.service.SubmitAdd(c.Request.Context(), req.toFields(image), auth.GetUserID(c))
	if err != nil {
		h.discardImage(c, image)
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPropertyResponse(p))
}

func (h *Handler) SubmitUpdate(c *gin.Context) {
	var req SubmitUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	image, ok := h.uploadImage(c)
	if !ok {
		return
	}

	p, err := h.service.SubmitUpdate(c.Request.Context(), req.PropertyID, req.toChanges(image), auth.GetUserID(c))
	if err != nil {
		h.discardImage(c, image)
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPropertyResponse(p))
}

func (h *Handler) SubmitDelete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	p, err := h.service.SubmitDelete(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

// ListMine returns every record the calling agent owns, newest first.
func (h *Handler) ListMine(c *gin.Context) {
	var req ListMineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	items, total, err := h.service.ListForAgent(c.Request.Context(), auth.GetUserID(c), property.Filter{
		Status:   property.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(items, NewPropertyResponse, req.Page, req.PageSize, total))
}

func (h *Handler) ListPending(c *gin.Context) {
	var req ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	items, total, err := h.service.ListPending(c.Request.Context(), property.Filter{
		RequestType: property.RequestType(req.RequestType),
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(items, NewPendingResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Approve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	res, err := h.service.Approve(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResolutionResponse(res))
}

func (h *Handler) Reject(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	res, err := h.service.Reject(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResolutionResponse(res))
}

func (h *Handler) Report(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	items, total, err := h.service.Report(c.Request.Context(), property.Filter{
		Type:     property.Type(req.PropertyType),
		Status:   property.Status(req.Status),
		District: req.District,
		AgentID:  req.AgentID,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(items, NewReportRowResponse, req.Page, req.PageSize, total))
}

// uploadImage stores the optional multipart image. It writes the error
// response itself and returns ok=false when the upload fails.
func (h *Handler) uploadImage(c *gin.Context) (*string, bool) {
	if h.images == nil || !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, true
	}

	header, err := c.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		response.BadRequest(c, "invalid image upload")
		return nil, false
	}

	f, err := h.images.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   header,
		UserID:       auth.GetUserID(c),
		MaxSizeBytes: file.DefaultImageMaxBytes,
		AllowedTypes: file.ImageTypes,
	})
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return &f.ID, true
}

func (h *Handler) discardImage(c *gin.Context, image *string) {
	if image == nil {
		return
	}
	if err := h.images.Delete(c.Request.Context(), *image); err != nil {
		log.Warn().Err(err).Str("file_id", *image).Msg("failed to discard image of rejected submission")
	}
}
