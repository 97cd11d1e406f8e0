package squid

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/pkg/units"
)

type BusNFTParams struct {
	BaseURI           string
	MaxBusLevel       uint8
	MinBusBalance     int64
	MaxBusBalance     int64
	BusAdditionPeriod time.Duration
}

func (p BusNFTParams) InitArgs() []interface{} {
	return []interface{}{p.BaseURI, p.MaxBusLevel, p.MinBusBalance, p.MaxBusBalance, seconds(p.BusAdditionPeriod)}
}

type PlayerNFTParams struct {
	BaseURI        string
	SeDivide       int64
	GracePeriod    time.Duration
	EnableSeDivide bool
}

func (p PlayerNFTParams) InitArgs() []interface{} {
	return []interface{}{p.BaseURI, p.SeDivide, seconds(p.GracePeriod), p.EnableSeDivide}
}

// GameParams initialise MainSquidGame. The NFT addresses come from the
// deployment itself.
type GameParams struct {
	USDT         common.Address
	BSW          common.Address
	Oracle       common.Address
	MasterChef   common.Address
	AutoBSW      common.Address
	Treasury     common.Address
	RecoveryTime time.Duration
}

func (p GameParams) InitArgs(bus, player common.Address) []interface{} {
	return []interface{}{p.USDT, p.BSW, bus, player, p.Oracle, p.MasterChef, p.AutoBSW, p.Treasury, seconds(p.RecoveryTime)}
}

type MinterParams struct {
	USDT             common.Address
	BSW              common.Address
	Oracle           common.Address
	TreasuryBus      common.Address
	TreasuryPlayer   common.Address
	BusPriceInUSD    *big.Int
	PlayerPriceInUSD *big.Int
}

func (p MinterParams) InitArgs(bus, player common.Address) []interface{} {
	return []interface{}{p.USDT, p.BSW, bus, player, p.Oracle, p.TreasuryBus, p.TreasuryPlayer, p.BusPriceInUSD, p.PlayerPriceInUSD}
}

var (
	BusNFT = BusNFTParams{
		MaxBusLevel:       5,
		MinBusBalance:     2,
		MaxBusBalance:     5,
		BusAdditionPeriod: 30 * time.Minute,
	}
	PlayerNFT = PlayerNFTParams{
		SeDivide:       100,
		GracePeriod:    45 * time.Minute,
		EnableSeDivide: true,
	}
	Game = GameParams{
		USDT:         USDT,
		BSW:          BSW,
		Oracle:       Oracle,
		MasterChef:   MasterChef,
		AutoBSW:      AutoBSW,
		Treasury:     GameTreasury,
		RecoveryTime: 48 * time.Hour,
	}
	Minter = MinterParams{
		USDT:             USDT,
		BSW:              BSW,
		Oracle:           Oracle,
		TreasuryBus:      BusTreasury,
		TreasuryPlayer:   PlayerTreasury,
		BusPriceInUSD:    units.ToWei(30),
		PlayerPriceInUSD: units.ToWei(30),
	}
)

// Short periods and cheap prices of a full test deployment.
var (
	TestGame = GameParams{
		USDT:         USDT,
		BSW:          BSW,
		Oracle:       Oracle,
		MasterChef:   MasterChef,
		AutoBSW:      AutoBSW,
		Treasury:     TestTreasury,
		RecoveryTime: 5 * time.Minute,
	}
	TestMinter = MinterParams{
		USDT:             USDT,
		BSW:              BSW,
		Oracle:           Oracle,
		TreasuryBus:      TestTreasury,
		TreasuryPlayer:   TestTreasury,
		BusPriceInUSD:    units.ToBN(30, 15),
		PlayerPriceInUSD: units.ToBN(30, 15),
	}
)

// Role setup parameters.
const (
	DecreaseWithdrawalFeeByDay = 150
	WithdrawalFee              = 2700
	PlayerMintLimit            = 2000
	SeDivide                   = 100
	SeDivideGracePeriod        = 45 * 24 * time.Hour
	PlayerMintLockDuration     = 7 * 24 * time.Hour
	ContractsPeriodLimit       = 1000000
)

type PromoMint struct {
	SquidEnergy *big.Int
	// ContractEnd is absolute when set, otherwise ContractLength from the
	// latest block.
	ContractEnd    uint64
	ContractLength time.Duration
	Rarity         uint8
	Count          int
}

var (
	PromoPlayers = PromoMint{SquidEnergy: units.ToWei(1000), ContractLength: 15 * 24 * time.Hour, Rarity: 1, Count: 3}
	// Players minted on 16.03.22 with a fixed contract end.
	PromoPlayers160322 = PromoMint{SquidEnergy: units.ToWei(900), ContractEnd: 1655385843, Rarity: 1, Count: 4}
)

func (m PromoMint) ContractEndFrom(blockTime uint64) uint64 {
	if m.ContractEnd != 0 {
		return m.ContractEnd
	}
	return blockTime + uint64(m.ContractLength/time.Second)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
