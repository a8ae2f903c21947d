package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
	"github.com/nekogravitycat/estify-backend/internal/valuation"
)

type Handler struct {
	service valuation.Service
}

func NewHandler(service valuation.Service) *Handler {
	return &Handler{service: service}
}

// EstimateResponse mirrors the predictor's answer.
type EstimateResponse struct {
	Success        bool    `json:"success"`
	PredictedPrice float64 `json:"predicted_price"`
}

func (h *Handler) Estimate(c *gin.Context) {
	var req valuation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	est, err := h.service.Estimate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, EstimateResponse{Success: true, PredictedPrice: est.PredictedPrice})
}
