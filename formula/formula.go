package formula

import (
	"math/big"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/types"
)

var halfScale = new(big.Int).Rsh(types.PrecisionScale(), 1)

// CalculateShare returns amount * numerator / denominator computed in fixed point
// with 27 decimals and rounded half-up to an integer.
//
// scaled = PrecisionScale * numerator / denominator
// raw    = scaled * amount
// result = round(raw / PrecisionScale)
//
// The result never exceeds amount; a ratio above one is rejected instead of paid.
func CalculateShare(amount *big.Int, numerator *big.Int, denominator *big.Int) (*big.Int, error) {
	if numerator == nil || numerator.Sign() == 0 {
		return big.NewInt(0), nil
	}

	if amount == nil || amount.Sign() < 0 || numerator.Sign() < 0 {
		return nil, code.New(code.InvalidInput, "share arguments must be non-negative", nil)
	}

	if denominator == nil || denominator.Sign() <= 0 {
		return nil, code.New(code.ZeroDenominator, "share denominator must be positive", nil)
	}

	precMax := types.PrecMax()
	if amount.Cmp(precMax) > 0 {
		return nil, code.New(code.AmountTooLarge, "share amount "+amount.String()+" exceeds precision ceiling "+precMax.String(), nil)
	}

	if numerator.Cmp(precMax) > 0 {
		return nil, code.New(code.AmountTooLarge, "share numerator "+numerator.String()+" exceeds precision ceiling "+precMax.String(), nil)
	}

	scale := types.PrecisionScale()

	scaled := new(big.Int).Mul(scale, numerator) // PrecisionScale * numerator
	scaled.Quo(scaled, denominator)              // PrecisionScale * numerator / denominator

	raw := new(big.Int).Mul(scaled, amount) // scaled * amount
	if !types.IsUint256(raw) {
		return nil, code.New(code.AmountTooLarge, "share of "+amount.String()+" overflows uint256", nil)
	}

	result, rem := new(big.Int).QuoRem(raw, scale, new(big.Int))
	if rem.Cmp(halfScale) >= 0 {
		result.Add(result, big.NewInt(1))
	}

	if result.Cmp(amount) > 0 {
		return nil, code.New(code.ShareExceedsAmount, "share "+result.String()+" exceeds amount "+amount.String(), nil)
	}

	return result, nil
}
