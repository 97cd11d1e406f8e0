package squid

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/pkg/units"
)

type WorkerGameParams struct {
	Treasury           common.Address
	BSW                common.Address
	AutoBSW            common.Address
	Oracle             common.Address
	Price              *big.Int
	MinStakeAmount     *big.Int
	EarlyWithdrawalFee uint32
	MaxWorkersPerUser  uint8
}

func (p WorkerGameParams) InitArgs() []interface{} {
	return []interface{}{p.Treasury, p.BSW, p.AutoBSW, p.Oracle, p.Price, p.MinStakeAmount, p.EarlyWithdrawalFee, p.MaxWorkersPerUser}
}

var WorkerGame = WorkerGameParams{
	Treasury:           WorkerTreasury,
	BSW:                BSW,
	AutoBSW:            HolderPool,
	Oracle:             Oracle,
	Price:              units.ToBN(25, 18),
	MinStakeAmount:     units.ToBN(10, 18),
	EarlyWithdrawalFee: 500,
	MaxWorkersPerUser:  2,
}

const FirstWorkerWeek = 2730

// WeeklyWorkersLimits covers weeks 2730 to 2777.
func WeeklyWorkersLimits() entity.WeeklyLimits {
	steps := []struct {
		limit uint64
		weeks int
	}{
		{5000, 2}, {4000, 2}, {3000, 2}, {2000, 4}, {1000, 4}, {500, 16}, {250, 18},
	}

	var limits entity.WeeklyLimits
	week := uint64(FirstWorkerWeek)
	for _, step := range steps {
		for i := 0; i < step.weeks; i++ {
			limits = append(limits, entity.WeeklyLimit{Week: week, Limit: step.limit})
			week++
		}
	}
	return limits
}
