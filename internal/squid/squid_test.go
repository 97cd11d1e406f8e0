package squid

import (
	"testing"

	"github.com/squidgame/squid-ops/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyWorkersLimits(t *testing.T) {
	limits := WeeklyWorkersLimits()

	require.Len(t, limits, 48)
	assert.Equal(t, uint64(2730), limits[0].Week)
	assert.Equal(t, uint64(5000), limits[0].Limit)
	assert.Equal(t, uint64(2777), limits[47].Week)
	assert.Equal(t, uint64(250), limits[47].Limit)
	assert.Equal(t, uint64(2000), limits[9].Limit)
	assert.Equal(t, uint64(1000), limits[10].Limit)
	assert.Equal(t, uint64(500), limits[29].Limit)
	assert.Equal(t, uint64(250), limits[30].Limit)

	weeks, values := limits.Split()
	assert.Len(t, weeks, 48)
	assert.Len(t, values, 48)
}

func TestLaunchGames(t *testing.T) {
	games := Games()

	require.Len(t, games, 7)
	assert.Equal(t, "Red Light, Blue Light", games[2].Name)
	assert.Equal(t, "red-light-blue-light", games[2].Slug())
	assert.Equal(t, units.ToWei(900), games[0].MinSeAmount)
	assert.Equal(t, units.ToWei(20), games[0].MinStakeAmount)
	assert.Equal(t, uint32(8300), games[6].ChanceToWin)

	rewards := games[6].RewardTokens
	require.Len(t, rewards, 2)
	assert.Equal(t, BSW, rewards[0].Token)
	assert.Equal(t, units.ToBN(4107, 16), rewards[0].RewardInUSD)
	assert.Equal(t, WBNB, rewards[1].Token)
	assert.Equal(t, "0", rewards[1].RewardInToken.String())
}

func TestGameFiV2Tables(t *testing.T) {
	v2 := GamesV2()
	assert.Equal(t, units.ToWei(1000), v2[0].MinSeAmount)
	assert.Equal(t, uint32(9900), v2[0].ChanceToWin)
	assert.Equal(t, units.ToBN(4920, 16), v2[6].RewardTokens[0].RewardInToken)
	assert.Equal(t, units.ToWei(190), v2[6].RewardTokens[1].RewardInToken)
	assert.Equal(t, BFG, v2[6].RewardTokens[1].Token)

	v1 := GamesV1Upgrade()
	assert.Equal(t, units.ToWei(900), v1[0].MinSeAmount)
	assert.Equal(t, units.ToWei(30), v1[0].MinStakeAmount)
	assert.Equal(t, units.ToBN(9027, 16), v1[6].RewardTokens[0].RewardInToken)
	assert.Equal(t, "0", v1[6].RewardTokens[0].RewardInUSD.String())
}

func TestDatedRevisions(t *testing.T) {
	assert.Equal(t, units.ToBN(6175, 16), Games1204()[6].RewardTokens[0].RewardInToken)
	assert.Len(t, Games1205()[6].RewardTokens, 1)
	assert.Equal(t, units.ToBN(13037, 16), Games1205()[6].RewardTokens[0].RewardInToken)

	params := GameParameters0102()
	assert.Equal(t, "[7000000000000000000000,200000000000000000000,8300]", params[6].String())

	rewards2002 := RewardTokens2002()
	assert.Len(t, rewards2002[0], 2)
	assert.Len(t, rewards2002[1], 1)
	assert.Equal(t, units.ToWei(25), rewards2002[3][1].RewardInToken)
	assert.Equal(t, units.ToWei(50), rewards2002[6][1].RewardInToken)

	changed := RewardTokens()
	assert.Equal(t, units.ToBN(880, 16), changed[6][1].RewardInUSD)

	assert.Equal(t, "[0,0,false]", PlayerContracts2602[SixtyDayContract].String())
	assert.Equal(t, "[1296000,24000000000000000000,true]", PlayerContracts1502[0].String())
}

func TestInitArgs(t *testing.T) {
	assert.Equal(t, []interface{}{"", uint8(5), int64(2), int64(5), int64(1800)}, BusNFT.InitArgs())
	assert.Equal(t, []interface{}{"", int64(100), int64(2700), true}, PlayerNFT.InitArgs())

	args := Game.InitArgs(BSW, WBNB)
	require.Len(t, args, 9)
	assert.Equal(t, int64(172800), args[8])

	args = TestMinter.InitArgs(BSW, WBNB)
	require.Len(t, args, 9)
	assert.Equal(t, units.ToBN(30, 15), args[8])

	require.Len(t, WorkerGame.InitArgs(), 8)
	require.Len(t, LaunchpadV2.ConstructorArgs(BSW, WBNB), 8)
}

func TestPromoMintContractEnd(t *testing.T) {
	assert.Equal(t, uint64(1000+15*86400), PromoPlayers.ContractEndFrom(1000))
	assert.Equal(t, uint64(1655385843), PromoPlayers160322.ContractEndFrom(1000))
}

func TestChunks(t *testing.T) {
	ids := make([]uint64, 1203)
	for i := range ids {
		ids[i] = uint64(i)
	}

	chunks := Chunks(ids, ClaimerVouchersChunk)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[2], 203)
	assert.Equal(t, uint64(1000), chunks[2][0])

	assert.Empty(t, Chunks(nil, 500))
}

func TestRoleNames(t *testing.T) {
	assert.Equal(t, "GAME_ROLE", RoleNames[GameRole])
	assert.Equal(t, "DEFAULT_ADMIN_ROLE", RoleNames[DefaultAdminRole])
}
