package entity

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestPlayerState(t *testing.T) {
	p := Player{TokenId: 42, ContractEndTimestamp: 2000, BusyTo: 1000}

	assert.Equal(t, "player-42", p.Slug())
	assert.True(t, p.HasContract(1999))
	assert.False(t, p.HasContract(2000))
	assert.True(t, p.Idle(1001))
	assert.False(t, p.Idle(1000))
	assert.Equal(t, big.NewInt(0), p.Energy())
}

func TestGameTuple(t *testing.T) {
	bsw := common.HexToAddress("0x965f527d9159dce6288a2219db51fc6eef120dd1")
	g := Game{
		MinSeAmount:  big.NewInt(900),
		ChanceToWin:  8900,
		RewardTokens: RewardTokens{{Token: bsw, RewardInToken: big.NewInt(5)}},
		Name:         "Red Light, Blue Light",
		Enable:       true,
	}

	assert.Equal(t, []interface{}{
		big.NewInt(900),
		big.NewInt(0),
		uint32(8900),
		[]interface{}{[]interface{}{bsw, big.NewInt(0), big.NewInt(5)}},
		"Red Light, Blue Light",
		true,
	}, g.Tuple())
	assert.Equal(t, "red-light-blue-light", g.Slug())
	assert.Equal(t, "[900,0,8900]", g.Parameters().String())
}

func TestChancePercent(t *testing.T) {
	assert.Equal(t, "89.00%", ChancePercent(8900))
	assert.Equal(t, "1.50%", ChancePercent(150))
	assert.Equal(t, "0.05%", ChancePercent(5))
}

func TestPlayerContract(t *testing.T) {
	pc := NewPlayerContract(15*24*time.Hour, big.NewInt(18), true)

	assert.Equal(t, uint32(1296000), pc.Duration)
	assert.Equal(t, "[1296000,18,true]", pc.String())
	assert.Equal(t, []interface{}{uint32(0), big.NewInt(0), false}, DisabledPlayerContract().Tuple())
}

func TestWorkerTables(t *testing.T) {
	weeks, limits := WeeklyLimits{{Week: 1, Limit: 100}, {Week: 2, Limit: 250}}.Split()
	assert.Equal(t, []uint64{1, 2}, weeks)
	assert.Equal(t, []uint64{100, 250}, limits)

	entry := ChanceTableEntry{Rarity: 3, MaxValue: 2500, MinValue: 1500, Chance: 1000}
	assert.Equal(t, []interface{}{uint8(3), uint64(2500), uint64(1500), uint32(1000)}, entry.Tuple())
}
