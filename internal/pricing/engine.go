package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/parcelpoint/courier-backend/pkg/enums"
)

const (
	documentBaseSameRegion  = 60
	documentBaseCrossRegion = 80

	goodsBaseSameRegion  = 110
	goodsBaseCrossRegion = 150

	weightThresholdKG   = 3
	weightRatePerKG     = 40
	crossRegionFlatRate = 40
)

// Breakdown itemizes a parcel quote in whole currency units.
type Breakdown struct {
	Base            int `json:"base"`
	WeightSurcharge int `json:"weight_surcharge"`
	RegionSurcharge int `json:"region_surcharge"`
	Total           int `json:"total"`
}

// ComputeCost quotes a parcel from its category, declared weight, and region pairing.
// It is deterministic and must stay byte-identical with the client-side preview,
// since parcel creation rejects any submitted total that differs from this result.
//
// Unknown categories produce a zero breakdown rather than an error; creation-time
// validation is responsible for rejecting them before a quote is ever trusted.
func ComputeCost(category enums.ParcelType, weightKG decimal.Decimal, sameRegion bool) Breakdown {
	switch category {
	case enums.ParcelTypeDocument:
		base := documentBaseSameRegion
		if !sameRegion {
			base = documentBaseCrossRegion
		}
		return Breakdown{Base: base, Total: base}

	case enums.ParcelTypeNonDocument:
		base := goodsBaseSameRegion
		if !sameRegion {
			base = goodsBaseCrossRegion
		}

		weightSurcharge := 0
		regionSurcharge := 0
		if excess := normalizeWeight(weightKG).Sub(decimal.NewFromInt(weightThresholdKG)); excess.IsPositive() {
			weightSurcharge = int(excess.Mul(decimal.NewFromInt(weightRatePerKG)).Round(0).IntPart())
			if !sameRegion {
				regionSurcharge = crossRegionFlatRate
			}
		}

		return Breakdown{
			Base:            base,
			WeightSurcharge: weightSurcharge,
			RegionSurcharge: regionSurcharge,
			Total:           base + weightSurcharge + regionSurcharge,
		}

	default:
		return Breakdown{}
	}
}

// normalizeWeight coerces negative declarations to zero.
func normalizeWeight(weightKG decimal.Decimal) decimal.Decimal {
	if weightKG.IsNegative() {
		return decimal.Zero
	}
	return weightKG
}
