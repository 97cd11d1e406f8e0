package entity

import (
	"fmt"
	"math/big"

	"github.com/gosimple/slug"
)

// Player is a player NFT as returned by getPlayerTokens and arrayUserPlayers.
type Player struct {
	TokenId              uint64   `json:"tokenId" abi:"tokenId"`
	Rarity               uint8    `json:"rarity" abi:"rarity"`
	SquidEnergy          *big.Int `json:"squidEnergy" abi:"squidEnergy"`
	MaxSquidEnergy       *big.Int `json:"maxSquidEnergy" abi:"maxSquidEnergy"`
	ContractEndTimestamp uint64   `json:"contractEndTimestamp" abi:"contractEndTimestamp"`
	BusyTo               uint64   `json:"busyTo" abi:"busyTo"`
	CreateTimestamp      uint64   `json:"createTimestamp" abi:"createTimestamp"`
	StakeFreeze          bool     `json:"stakeFreeze" abi:"stakeFreeze"`
	Uri                  string   `json:"uri" abi:"uri"`
	ContractV2           bool     `json:"contractV2" abi:"contractV2"`
}

func (p Player) Slug() string {
	return CreatePlayerSlug(p.TokenId)
}

func CreatePlayerSlug(tokenId uint64) string {
	return slug.Make(fmt.Sprintf("player-%d", tokenId))
}

// HasContract reports whether the player holds a contract still running at now.
func (p Player) HasContract(now uint64) bool {
	return p.ContractEndTimestamp > now
}

// Idle reports whether the player is not locked in a game round at now.
func (p Player) Idle(now uint64) bool {
	return p.BusyTo < now
}

func (p Player) Energy() *big.Int {
	return orZero(p.SquidEnergy)
}

type BusToken struct {
	TokenId         uint64 `json:"tokenId" abi:"tokenId"`
	Level           uint8  `json:"level" abi:"level"`
	CreateTimestamp uint64 `json:"createTimestamp" abi:"createTimestamp"`
	Uri             string `json:"uri" abi:"uri"`
}
