package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// maxExponent keeps scientific notation within the digits of a uint256.
const maxExponent = 77

var (
	ErrInvalidAmount = errors.New("invalid amount")

	ten = big.NewInt(10)
)

// ToBN returns n * 10^power.
func ToBN(n int64, power uint) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(ten, big.NewInt(int64(power)), nil))
}

// ToWei returns n ether in wei.
func ToWei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// ToGwei returns n gwei in wei.
func ToGwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.GWei))
}

// ParseAmount parses an exact integer amount. Accepted forms are plain
// decimals ("1000"), hex ("0x3e8"), scientific notation with an integral
// result ("1653e16", "2.5e18") and ether/gwei suffixes ("30ether", "5gwei").
func ParseAmount(s string) (*big.Int, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "_", ""))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasSuffix(lower, "ether"):
		return scaled(strings.TrimSuffix(lower, "ether"), 18, s)
	case strings.HasSuffix(lower, "gwei"):
		return scaled(strings.TrimSuffix(lower, "gwei"), 9, s)
	case strings.HasPrefix(lower, "0x"):
		v, ok := new(big.Int).SetString(lower[2:], 16)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
		}
		return v, nil
	}

	if idx := strings.IndexAny(lower, "e"); idx >= 0 {
		exp, ok := new(big.Int).SetString(lower[idx+1:], 10)
		if !ok || exp.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
		}
		if exp.Cmp(big.NewInt(maxExponent)) > 0 {
			return nil, fmt.Errorf("%w: exponent of %s above %d", ErrInvalidAmount, s, maxExponent)
		}
		return scaled(lower[:idx], uint(exp.Int64()), s)
	}

	return scaled(lower, 0, s)
}

func scaled(mantissa string, power uint, orig string) (*big.Int, error) {
	mantissa = strings.TrimSpace(mantissa)
	neg := strings.HasPrefix(mantissa, "-")
	mantissa = strings.TrimPrefix(mantissa, "-")

	intPart, fracPart := mantissa, ""
	if idx := strings.Index(mantissa, "."); idx >= 0 {
		intPart, fracPart = mantissa[:idx], mantissa[idx+1:]
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if uint(len(fracPart)) > power {
		return nil, fmt.Errorf("%w: %s is not integral", ErrInvalidAmount, orig)
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, orig)
	}

	digits := intPart + fracPart + strings.Repeat("0", int(power)-len(fracPart))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, orig)
	}
	if neg {
		v.Neg(v)
	}

	return v, nil
}

// Format renders v / 10^decimals with at most precision fractional digits,
// trailing zeros trimmed.
func Format(v *big.Int, decimals uint, precision int) string {
	if v == nil {
		return "0"
	}
	f := new(big.Float).SetPrec(256).SetInt(v)
	f.Quo(f, new(big.Float).SetPrec(256).SetInt(new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil)))

	out := f.Text('f', precision)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	}
	if out == "-0" {
		return "0"
	}

	return out
}
