package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/account"
	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
	"github.com/nekogravitycat/estify-backend/internal/pkg/response"
)

// TokenIssuer signs access tokens for logged-in accounts.
type TokenIssuer interface {
	GenerateAccessToken(accountID, role string) (string, error)
	TTL() time.Duration
}

type Handler struct {
	service account.Service
	tokens  TokenIssuer
}

func NewHandler(service account.Service, tokens TokenIssuer) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
	}
}

//
// POST /v1/auth/register
//

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.service.RegisterUser(c.Request.Context(), req.toRegistration())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAccountResponse(a))
}

//
// POST /v1/auth/register/agent
//

func (h *Handler) RegisterAgent(c *gin.Context) {
	var req RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.service.RegisterAgent(c.Request.Context(), account.AgentRegistration{
		Registration: req.toRegistration(),
		Phone:        req.Phone,
		AgencyName:   req.AgencyName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAccountResponse(a))
}

//
// POST /v1/auth/login
//

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(a.ID, string(a.Role))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokens.TTL().Seconds()),
		Account:     NewAccountResponse(a),
	})
}

//
// GET /v1/me
//

func (h *Handler) Me(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAccountResponse(a))
}

func (h *Handler) ListAgents(c *gin.Context) {
	var req ListAgentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	list, total, err := h.service.ListAgents(c.Request.Context(), account.Filter{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MapPage(list, NewAccountResponse, req.Page, req.PageSize, total))
}

func (h *Handler) GetAgent(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid agent id")
		return
	}

	a, err := h.service.GetAgent(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAccountResponse(a))
}
