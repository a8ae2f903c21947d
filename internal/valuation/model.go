package valuation

import (
	"net/http"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var ErrUpstream = apperror.New(http.StatusBadGateway, "valuation failed")

// Districts accepted by the price predictor.
var Districts = []string{
	"Ampara", "Anuradhapura", "Badulla", "Batticaloa", "Colombo",
	"Galle", "Gampaha", "Hambantota", "Jaffna", "Kalutara",
	"Kandy", "Kegalle", "Kurunegala", "Mannar", "Matale",
	"Matara", "Monaragala", "Mullativu", "Nuwara Eliya",
	"Polonnaruwa", "Puttalam", "Ratnapura", "Trincomalee", "Vavuniya",
}

// Request is forwarded to the predictor as-is, so its JSON names follow the
// predictor's model features. Sizes are perches (land) and square feet (house).
type Request struct {
	Baths     int     `json:"Baths" validate:"gte=1,lte=10"`
	Beds      int     `json:"Beds" validate:"gte=2,lte=20"`
	LandSize  float64 `json:"Land_size" validate:"gte=40,lte=1000"`
	HouseSize float64 `json:"House_size" validate:"gte=1000,lte=10000"`
	District  string  `json:"district" validate:"required"`
	Town      string  `json:"town" validate:"required,notblank"`
}

type Estimate struct {
	PredictedPrice float64 `json:"predicted_price"`
}
