package entity

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
)

// RewardToken is paid out per won round, either valued in USD through the
// oracle or as a fixed token amount.
type RewardToken struct {
	Token         common.Address `json:"token" abi:"token"`
	RewardInUSD   *big.Int       `json:"rewardInUSD" abi:"rewardInUSD"`
	RewardInToken *big.Int       `json:"rewardInToken" abi:"rewardInToken"`
}

func (r RewardToken) Tuple() []interface{} {
	return []interface{}{r.Token, orZero(r.RewardInUSD), orZero(r.RewardInToken)}
}

type RewardTokens []RewardToken

func (r RewardTokens) Tuples() []interface{} {
	tuples := make([]interface{}, len(r))
	for i, token := range r {
		tuples[i] = token.Tuple()
	}
	return tuples
}

type Game struct {
	MinSeAmount    *big.Int     `json:"minSeAmount" abi:"minSeAmount"`
	MinStakeAmount *big.Int     `json:"minStakeAmount" abi:"minStakeAmount"`
	ChanceToWin    uint32       `json:"chanceToWin" abi:"chanceToWin"`
	RewardTokens   RewardTokens `json:"rewardTokens" abi:"rewardTokens"`
	Name           string       `json:"name" abi:"name"`
	Enable         bool         `json:"enable" abi:"enable"`
}

func (g Game) Tuple() []interface{} {
	return []interface{}{
		orZero(g.MinSeAmount),
		orZero(g.MinStakeAmount),
		g.ChanceToWin,
		g.RewardTokens.Tuples(),
		g.Name,
		g.Enable,
	}
}

func (g Game) Slug() string {
	return slug.Make(g.Name)
}

func (g Game) Parameters() GameParameters {
	return GameParameters{MinSeAmount: g.MinSeAmount, MinStakeAmount: g.MinStakeAmount, ChanceToWin: g.ChanceToWin}
}

// GameParameters is the argument triple of the legacy setGameParameters.
type GameParameters struct {
	MinSeAmount    *big.Int `json:"minSeAmount"`
	MinStakeAmount *big.Int `json:"minStakeAmount"`
	ChanceToWin    uint32   `json:"chanceToWin"`
}

func (p GameParameters) String() string {
	return fmt.Sprintf("[%s,%s,%d]", orZero(p.MinSeAmount), orZero(p.MinStakeAmount), p.ChanceToWin)
}

// ChancePercent renders basis points as a percentage.
func ChancePercent(chanceToWin uint32) string {
	return fmt.Sprintf("%d.%02d%%", chanceToWin/100, chanceToWin%100)
}
