package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dyike/ArenaGo/consts"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// StanceDirection collapses the five stances into a directional lean used
// for consensus measurement.
type StanceDirection int

const (
	DirectionSell StanceDirection = iota - 1
	DirectionHold
	DirectionBuy
)

func (d StanceDirection) String() string {
	switch d {
	case DirectionBuy:
		return "buy-leaning"
	case DirectionSell:
		return "sell-leaning"
	default:
		return "hold"
	}
}

// DirectionOf maps a stance to its directional lean.
func DirectionOf(stance string) StanceDirection {
	switch stance {
	case consts.StanceStrongBuy, consts.StanceBuy:
		return DirectionBuy
	case consts.StanceSell, consts.StanceStrongSell:
		return DirectionSell
	default:
		return DirectionHold
	}
}

// PriceTarget is a three-point target for a fixed horizon.
type PriceTarget struct {
	Bull          decimal.Decimal `json:"bull"`
	Base          decimal.Decimal `json:"base"`
	Bear          decimal.Decimal `json:"bear"`
	HorizonMonths int             `json:"horizon_months"`
}

// Viewpoint is one analyst's generated investment thesis, the tournament
// entrant. It is owned by the generation coordinator until handed to the
// scheduler and read-only afterwards.
type Viewpoint struct {
	ProfileID   string      `json:"profile_id" validate:"required"`
	ProfileName string      `json:"profile_name"`
	Methodology string      `json:"methodology" validate:"required"`
	Symbol      string      `json:"symbol" validate:"required"`
	Stance      string      `json:"stance" validate:"oneof=strong_buy buy hold sell strong_sell"`
	Confidence  float64     `json:"confidence" validate:"gte=0,lte=100"`
	Target      PriceTarget `json:"target" validate:"-"`
	BullCase    []string    `json:"bull_case" validate:"min=1"`
	BearCase    []string    `json:"bear_case" validate:"min=1"`
	Catalysts   []string    `json:"catalysts"`
	Summary     string      `json:"summary" validate:"required"`
}

// Direction returns the viewpoint's directional lean.
func (v *Viewpoint) Direction() StanceDirection {
	return DirectionOf(v.Stance)
}

// Validate checks the shape and ranges a freshly generated viewpoint must
// satisfy before it is accepted as an entrant.
func (v *Viewpoint) Validate() error {
	if err := validate.Struct(v); err != nil {
		return err
	}
	if v.Target.Bear.GreaterThan(v.Target.Base) || v.Target.Base.GreaterThan(v.Target.Bull) {
		return fmt.Errorf("price target not ordered: bear=%s base=%s bull=%s",
			v.Target.Bear, v.Target.Base, v.Target.Bull)
	}
	if v.Target.Base.IsNegative() {
		return fmt.Errorf("negative base price target: %s", v.Target.Base)
	}
	return nil
}
