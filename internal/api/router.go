package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/estify-backend/internal/account"
	accountHttp "github.com/nekogravitycat/estify-backend/internal/account/http"
	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/estify-backend/internal/booking/http"
	"github.com/nekogravitycat/estify-backend/internal/file"
	fileHttp "github.com/nekogravitycat/estify-backend/internal/file/http"
	"github.com/nekogravitycat/estify-backend/internal/inquiry"
	inquiryHttp "github.com/nekogravitycat/estify-backend/internal/inquiry/http"
	"github.com/nekogravitycat/estify-backend/internal/pkg/logger"
	"github.com/nekogravitycat/estify-backend/internal/property"
	propertyHttp "github.com/nekogravitycat/estify-backend/internal/property/http"
	"github.com/nekogravitycat/estify-backend/internal/valuation"
	valuationHttp "github.com/nekogravitycat/estify-backend/internal/valuation/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	RequestTimeout time.Duration

	AccountService   account.Service
	PropertyService  property.Service
	BookingService   booking.Service
	InquiryService   inquiry.Service
	FileService      file.Service
	ValuationService valuation.Service
	JWTManager       *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestID/RequestLogger: one structured log line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.RequestID(), logger.RequestLogger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.IsProduction, cfg.ProdOrigins)))
	if cfg.RequestTimeout > 0 {
		r.Use(RequestTimeout(cfg.RequestTimeout))
	}

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	agentOnly := auth.RequireRole(auth.RoleAgent)
	adminOnly := RequireAdmin(cfg.AccountService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.GET("/health", Health)

		accountHttp.RegisterRoutes(v1, accountHttp.NewHandler(cfg.AccountService, cfg.JWTManager), authMiddleware)
		propertyHttp.RegisterRoutes(v1, propertyHttp.NewHandler(cfg.PropertyService, cfg.FileService), authMiddleware, agentOnly, adminOnly)
		bookingHttp.RegisterRoutes(v1, bookingHttp.NewHandler(cfg.BookingService), authMiddleware, adminOnly)
		inquiryHttp.RegisterRoutes(v1, inquiryHttp.NewHandler(cfg.InquiryService), authMiddleware, adminOnly)
		fileHttp.RegisterRoutes(v1, fileHttp.NewHandler(cfg.FileService))
		valuationHttp.RegisterRoutes(v1, valuationHttp.NewHandler(cfg.ValuationService))
	}

	return r
}

// Health is the liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// corsConfig allows any origin in development and only PROD_ORIGINS in production.
func corsConfig(production bool, prodOrigins string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}
	config.ExposeHeaders = []string{logger.RequestIDHeader}

	if !production {
		config.AllowAllOrigins = true
		return config
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	config.AllowOrigins = origins
	return config
}
