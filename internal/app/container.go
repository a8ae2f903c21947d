package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/account"
	"github.com/nekogravitycat/estify-backend/internal/api"
	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/booking"
	"github.com/nekogravitycat/estify-backend/internal/file"
	"github.com/nekogravitycat/estify-backend/internal/inquiry"
	"github.com/nekogravitycat/estify-backend/internal/pkg/cache"
	"github.com/nekogravitycat/estify-backend/internal/pkg/storage"
	"github.com/nekogravitycat/estify-backend/internal/property"
	"github.com/nekogravitycat/estify-backend/internal/valuation"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	RequestTimeout time.Duration

	DBPool     *pgxpool.Pool
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	// Cache is optional; a no-op cache is used when nil.
	Cache    cache.Cache
	CacheTTL time.Duration

	Storage storage.Storage

	ValuationURL     string
	ValuationTimeout time.Duration

	AdminEmail    string
	AdminPassword string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	AccountService  account.Service
	PropertyService property.Service
	BookingService  booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	c := cfg.Cache
	if c == nil {
		c = cache.NewNoop()
	}

	// Account Module
	accountRepo := account.NewPgxRepository(cfg.DBPool)
	accountService := account.NewService(accountRepo, passwordHasher)
	if cfg.AdminEmail != "" {
		if err := accountService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin account: %w", err)
		}
	}

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, cfg.Storage)

	// Property Module
	propertyRepo := property.NewPgxRepository(cfg.DBPool)
	propertyService := property.NewService(propertyRepo, fileService, c, cfg.CacheTTL)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo)

	// Inquiry Module
	inquiryRepo := inquiry.NewPgxRepository(cfg.DBPool)
	inquiryService := inquiry.NewService(inquiryRepo, bookingService)

	// Valuation Module
	valuationService := valuation.NewService(cfg.ValuationURL, cfg.ValuationTimeout)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		RequestTimeout:   cfg.RequestTimeout,
		AccountService:   accountService,
		PropertyService:  propertyService,
		BookingService:   bookingService,
		InquiryService:   inquiryService,
		FileService:      fileService,
		ValuationService: valuationService,
		JWTManager:       jwtManager,
	})

	return &Container{
		Router:          router,
		JWTManager:      jwtManager,
		AccountService:  accountService,
		PropertyService: propertyService,
		BookingService:  bookingService,
	}, nil
}

// NewStorage selects the blob store named by driver.
func NewStorage(ctx context.Context, driver, localPath string, s3 storage.S3Options) (storage.Storage, error) {
	switch driver {
	case "s3":
		log.Info().Str("bucket", s3.Bucket).Msg("using s3 storage")
		return storage.NewS3Storage(ctx, s3)
	case "local", "":
		log.Info().Str("path", localPath).Msg("using local storage")
		return storage.NewLocalStorage(localPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// NewCache connects to Redis when addr is set and falls back to a no-op
// cache otherwise. The returned client is nil when no connection was made.
func NewCache(ctx context.Context, addr, password string, db int) (cache.Cache, *redis.Client, error) {
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, listing cache disabled")
		return cache.NewNoop(), nil, nil
	}
	client, err := cache.NewRedisClient(ctx, addr, password, db)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisCache(client), client, nil
}
