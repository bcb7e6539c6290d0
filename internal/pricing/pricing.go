package pricing

import (
	"WooWithFeed/internal/config"
	"math"

	"github.com/pkg/errors"
)

// Policy derives the retail price from a vendor offer price. The vendor price
// is never stored or sent verbatim.
type Policy struct {
	Markup   int    // percent on top of the offer price
	Vat      int    // percent on top of the marked-up price
	Rounding string // config.ROUNDING_WHOLE / ROUNDING_HALF / ROUNDING_NONE
}

func FromConfig(cfg *config.Config) Policy {
	return Policy{
		Markup:   cfg.PRICING.Markup,
		Vat:      cfg.PRICING.Vat,
		Rounding: cfg.PRICING.Rounding,
	}
}

// Retail computes offer -> markup -> VAT -> rounding. Ties round half-up.
func (p Policy) Retail(offer float64) (float64, error) {
	if offer < 0 {
		return 0, errors.Errorf("negative offer price: %f", offer)
	}

	base := offer * (1 + float64(p.Markup)/100)
	withVat := base * (1 + float64(p.Vat)/100)

	switch p.Rounding {
	case config.ROUNDING_WHOLE:
		return math.Floor(withVat + 0.5), nil
	case config.ROUNDING_HALF:
		return math.Floor(withVat*2+0.5) / 2, nil
	case config.ROUNDING_NONE:
		return math.Floor(withVat*100+0.5) / 100, nil
	default:
		return 0, errors.Errorf("unknown rounding policy: %s", p.Rounding)
	}
}
