package entity

import (
	"fmt"
	"math/big"
	"time"
)

// PlayerContract is a rentable playing period for a player NFT.
type PlayerContract struct {
	Duration   uint32   `json:"duration" abi:"duration"`
	PriceInUSD *big.Int `json:"priceInUSD" abi:"priceInUSD"`
	Enable     bool     `json:"enable" abi:"enable"`
}

func NewPlayerContract(duration time.Duration, priceInUSD *big.Int, enable bool) PlayerContract {
	return PlayerContract{
		Duration:   uint32(duration / time.Second),
		PriceInUSD: priceInUSD,
		Enable:     enable,
	}
}

// DisabledPlayerContract is the [0, 0, false] record used to switch a contract off.
func DisabledPlayerContract() PlayerContract {
	return PlayerContract{PriceInUSD: big.NewInt(0)}
}

func (c PlayerContract) Tuple() []interface{} {
	return []interface{}{c.Duration, orZero(c.PriceInUSD), c.Enable}
}

func (c PlayerContract) String() string {
	return fmt.Sprintf("[%d,%s,%t]", c.Duration, orZero(c.PriceInUSD), c.Enable)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
