package squid

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/pkg/units"
)

var GameNames = []string{
	"Destiny Marbles",
	"Slippery Rope",
	"Red Light, Blue Light",
	"Flip-Flop Envelopes",
	"Killing Sweets",
	"Crowned Peak",
	"Rock-Paper-Scissors",
}

const (
	GameVersion1 = 1
	GameVersion2 = 2
)

var (
	minSeV1        = []int64{900, 2000, 3000, 4000, 5000, 6000, 7000}
	minSeV2        = []int64{1000, 2000, 3000, 4000, 5000, 6000, 7000}
	minStakeV1     = []int64{20, 30, 40, 50, 60, 70, 80}
	minStakeV2     = []int64{30, 50, 80, 100, 120, 150, 200}
	chanceV1       = []uint32{8900, 8800, 8700, 8600, 8500, 8400, 8300}
	chanceV2       = []uint32{9900, 9800, 9700, 9600, 9500, 9400, 9300}
	bfgV1          = []int64{20, 40, 65, 90, 110, 135, 160}
	bfgV2          = []int64{30, 50, 75, 100, 130, 160, 190}
	bswV1Launch    = []int64{519, 1082, 1653, 2230, 2825, 3443, 4107}
	wbnbV1Launch   = []int64{222, 464, 708, 956, 1211, 1476, 1760}
	bswV2          = []int64{731, 1371, 2028, 2706, 3416, 4157, 4920}
	bswV1Upgrade   = []int64{1142, 2377, 3633, 4902, 6208, 7568, 9027}
	bsw1204        = []int64{781, 1626, 2485, 3353, 4247, 5177, 6175}
	bsw1205        = []int64{1648, 3433, 5246, 7080, 8966, 10931, 13037}
	bswRewards     = []int64{630, 1314, 2007, 2708, 3430, 4181, 4987}
	wbnbRewards    = []int64{111, 232, 354, 478, 605, 738, 880}
	bsw2002        = []int64{1478, 3084, 4705, 6368, 8052, 9821, 11705}
	bfg2002        = map[int]int64{0: 10, 3: 25, 6: 50}
	bswRewards2303 = bswV1Upgrade
)

// InUSD is a reward valued in USD through the oracle, n*10^power.
func InUSD(token common.Address, n int64, power uint) entity.RewardToken {
	return entity.RewardToken{Token: token, RewardInUSD: units.ToBN(n, power), RewardInToken: units.ToBN(0, 0)}
}

// InToken is a fixed token reward, n*10^power.
func InToken(token common.Address, n int64, power uint) entity.RewardToken {
	return entity.RewardToken{Token: token, RewardInUSD: units.ToBN(0, 0), RewardInToken: units.ToBN(n, power)}
}

func buildGames(minSe, minStake []int64, chance []uint32, rewards func(i int) entity.RewardTokens) []entity.Game {
	games := make([]entity.Game, len(GameNames))
	for i, name := range GameNames {
		games[i] = entity.Game{
			MinSeAmount:    units.ToWei(minSe[i]),
			MinStakeAmount: units.ToWei(minStake[i]),
			ChanceToWin:    chance[i],
			RewardTokens:   rewards(i),
			Name:           name,
			Enable:         true,
		}
	}
	return games
}

// Games added at launch, rewards valued in USD.
func Games() []entity.Game {
	return buildGames(minSeV1, minStakeV1, chanceV1, func(i int) entity.RewardTokens {
		return entity.RewardTokens{InUSD(BSW, bswV1Launch[i], 16), InUSD(WBNB, wbnbV1Launch[i], 16)}
	})
}

// GamesV2 are the version 2 games of the GameFi v2 upgrade.
func GamesV2() []entity.Game {
	return buildGames(minSeV2, minStakeV2, chanceV2, func(i int) entity.RewardTokens {
		return entity.RewardTokens{InToken(BSW, bswV2[i], 16), InToken(BFG, bfgV2[i], 18)}
	})
}

// GamesV1Upgrade reset the version 1 games during the GameFi v2 upgrade.
func GamesV1Upgrade() []entity.Game {
	return buildGames(minSeV1, minStakeV2, chanceV1, func(i int) entity.RewardTokens {
		return entity.RewardTokens{InToken(BSW, bswV1Upgrade[i], 16), InToken(BFG, bfgV1[i], 18)}
	})
}

func Games1204() []entity.Game {
	return buildGames(minSeV1, minStakeV2, chanceV1, func(i int) entity.RewardTokens {
		return entity.RewardTokens{InToken(BSW, bsw1204[i], 16), InToken(BFG, bfgV1[i], 18)}
	})
}

func Games1205() []entity.Game {
	return buildGames(minSeV1, minStakeV2, chanceV1, func(i int) entity.RewardTokens {
		return entity.RewardTokens{InToken(BSW, bsw1205[i], 16)}
	})
}

// GameParameters0102 is the legacy triple set on 01.02.
func GameParameters0102() []entity.GameParameters {
	params := make([]entity.GameParameters, len(GameNames))
	for i := range params {
		params[i] = entity.GameParameters{
			MinSeAmount:    units.ToWei(minSeV1[i]),
			MinStakeAmount: units.ToWei(minStakeV2[i]),
			ChanceToWin:    chanceV1[i],
		}
	}
	return params
}

// RewardTokens is the 85/15 BSW/WBNB split in USD.
func RewardTokens() []entity.RewardTokens {
	rewards := make([]entity.RewardTokens, len(GameNames))
	for i := range rewards {
		rewards[i] = entity.RewardTokens{InUSD(BSW, bswRewards[i], 16), InUSD(WBNB, wbnbRewards[i], 16)}
	}
	return rewards
}

func RewardTokens2002() []entity.RewardTokens {
	rewards := make([]entity.RewardTokens, len(GameNames))
	for i := range rewards {
		rewards[i] = entity.RewardTokens{InToken(BSW, bsw2002[i], 16)}
		if bfg, ok := bfg2002[i]; ok {
			rewards[i] = append(rewards[i], InToken(BFG, bfg, 18))
		}
	}
	return rewards
}

func RewardTokens2303() []entity.RewardTokens {
	rewards := make([]entity.RewardTokens, len(GameNames))
	for i := range rewards {
		rewards[i] = entity.RewardTokens{InToken(BSW, bswRewards2303[i], 16)}
	}
	return rewards
}
