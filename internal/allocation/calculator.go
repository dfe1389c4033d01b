// Package allocation computes the share plan for a bulk pack: how many
// claimable shares the surplus splits into, what each share costs, and
// what falls back to the organizer.
package allocation

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/HAHAtool/ShareBasket/pkg/errors"
)

// Input is the raw pack economics the organizer enters on publish.
type Input struct {
	// TotalPrice is the price paid for the whole pack, in whole
	// currency units.
	TotalPrice int
	// TotalUnits is the physical item count of the pack.
	TotalUnits int
	// OrganizerRetain is how many units the organizer keeps before
	// offering the rest.
	OrganizerRetain int
	// UnitsPerShare is how many physical units make one claimable share.
	UnitsPerShare int
}

// Plan is the deterministic result of splitting a pack.
type Plan struct {
	// Shares is the number of whole claimable shares.
	Shares int `json:"shares"`
	// UnitPrice is the price per share, rounded up to the nearest whole
	// currency unit.
	UnitPrice int `json:"unit_price"`
	// Leftover is the unit count that cannot form a complete share and
	// folds back to the organizer.
	Leftover int `json:"leftover"`
	// OrganizerEffectiveTotal is OrganizerRetain plus Leftover.
	OrganizerEffectiveTotal int `json:"organizer_effective_total"`
	// OrganizerPay is whatever the collected share payments do not
	// cover, clamped at zero.
	OrganizerPay int `json:"organizer_pay"`
	// Surcharge is the amount collected beyond TotalPrice once the
	// organizer's clamped payment is accounted for. Zero unless the
	// rounding premium alone exceeds the pack price.
	Surcharge int `json:"surcharge"`
}

// Calculate converts pack parameters into a share plan. Pure function;
// the only failure mode is input validation.
func Calculate(in Input) (Plan, error) {
	if err := validate(in); err != nil {
		return Plan{}, err
	}

	available := in.TotalUnits - in.OrganizerRetain
	shares := available / in.UnitsPerShare
	leftover := available % in.UnitsPerShare

	// Price density of the whole pack: TotalPrice over the ideal share
	// count TotalUnits/UnitsPerShare, which is a real number, not the
	// integer share count. Rounded up so the premium flows to the
	// organizer, never away from them. Deliberate business rule.
	unitPrice := decimal.NewFromInt(int64(in.TotalPrice)).
		Mul(decimal.NewFromInt(int64(in.UnitsPerShare))).
		Div(decimal.NewFromInt(int64(in.TotalUnits))).
		Ceil().
		IntPart()

	organizerPay := in.TotalPrice - shares*int(unitPrice)
	surcharge := 0
	if organizerPay < 0 {
		surcharge = -organizerPay
		organizerPay = 0
	}

	return Plan{
		Shares:                  shares,
		UnitPrice:               int(unitPrice),
		Leftover:                leftover,
		OrganizerEffectiveTotal: in.OrganizerRetain + leftover,
		OrganizerPay:            organizerPay,
		Surcharge:               surcharge,
	}, nil
}

func validate(in Input) error {
	if in.TotalPrice <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total price must be positive")
	}
	if in.TotalUnits <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total units must be positive")
	}
	if in.UnitsPerShare < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "units per share must be at least 1")
	}
	if in.OrganizerRetain < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "organizer must retain at least 1 unit")
	}
	if in.OrganizerRetain > in.TotalUnits {
		return pkgerrors.New(pkgerrors.CodeValidation, "organizer retain exceeds total units")
	}
	return nil
}
