package types

import "math/big"

// PrecisionDecimals is the number of decimal digits kept by fixed-point share math.
const PrecisionDecimals = 27

var (
	maxUint256     = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	precisionScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(PrecisionDecimals), nil)
	precMax        = new(big.Int).Div(maxUint256, precisionScale)
)

// MaxUint256 returns 2^256 - 1, the widest value any amount or score may take.
func MaxUint256() *big.Int {
	return new(big.Int).Set(maxUint256)
}

// PrecisionScale returns 10^27.
func PrecisionScale() *big.Int {
	return new(big.Int).Set(precisionScale)
}

// PrecMax returns the largest value that can be multiplied by PrecisionScale
// without leaving the uint256 range. Amounts passed to share math and the
// running influence total must stay at or below (respectively strictly below) it.
func PrecMax() *big.Int {
	return new(big.Int).Set(precMax)
}

// IsUint256 reports whether v fits into an unsigned 256-bit integer.
func IsUint256(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(maxUint256) <= 0
}
