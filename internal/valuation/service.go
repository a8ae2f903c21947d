package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/estify-backend/internal/pkg/validate"
)

// minSqftPerBedroom is the smallest house size per bedroom the model accepts.
const minSqftPerBedroom = 80

type Service interface {
	Estimate(ctx context.Context, req Request) (*Estimate, error)
}

type service struct {
	url    string
	client *http.Client
}

// NewService returns a Service that posts to the predictor at url.
func NewService(url string, timeout time.Duration) Service {
	return &service{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *service) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	req.District = strings.TrimSpace(req.District)
	req.Town = strings.TrimSpace(req.Town)
	if err := Validate(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode valuation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build valuation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, apperror.Wrap(err, ErrUpstream.Code, ErrUpstream.Message)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperror.Wrap(err, ErrUpstream.Code, ErrUpstream.Message)
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Bytes("body", raw).Msg("predictor rejected valuation request")
		return nil, apperror.Wrap(fmt.Errorf("predictor returned %d", resp.StatusCode), ErrUpstream.Code, ErrUpstream.Message)
	}

	var out struct {
		PredictedPrice *float64 `json:"predicted_price"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.PredictedPrice == nil {
		return nil, apperror.Wrap(fmt.Errorf("unexpected predictor response: %s", raw), ErrUpstream.Code, ErrUpstream.Message)
	}
	return &Estimate{PredictedPrice: *out.PredictedPrice}, nil
}

// Validate checks the ranges and the plausibility rules the model was trained under.
func Validate(req Request) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if !slices.Contains(Districts, req.District) {
		return apperror.Validation("district must be a valid Sri Lankan district")
	}

	switch {
	case req.Baths > req.Beds:
		return apperror.Validation("Bathrooms cannot exceed the number of bedrooms")
	case float64(req.Baths) > float64(req.Beds)/2:
		return apperror.Validation("Bathrooms should not be more than half the bedrooms")
	case req.HouseSize > req.LandSize*100:
		return apperror.Validation("House size cannot be larger than available land")
	case req.HouseSize < float64(req.Beds*minSqftPerBedroom):
		return apperror.Validation("Each bedroom should have at least 80 sq. ft of house size")
	}
	return nil
}
