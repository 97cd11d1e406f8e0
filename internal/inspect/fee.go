package inspect

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FeeBase is the denominator of the withdrawal fee.
const FeeBase = 10000

const day = 24 * time.Hour

// WithdrawalFeeAt is the fee charged after elapsed. Every full day since the
// time lock lowers it by decreaseByDay, down to zero.
func WithdrawalFeeAt(fee, decreaseByDay uint64, elapsed time.Duration) uint64 {
	if elapsed < 0 {
		elapsed = 0
	}
	decrease := uint64(elapsed/day) * decreaseByDay
	if decrease >= fee {
		return 0
	}
	return fee - decrease
}

// Payout splits amount between the user and the treasury at fee. A fee
// above FeeBase sends everything to the treasury.
func Payout(amount *big.Int, fee uint64) (user *big.Int, treasury *big.Int) {
	if fee > FeeBase {
		fee = FeeBase
	}
	user = new(big.Int).Mul(amount, new(big.Int).SetUint64(FeeBase-fee))
	user.Div(user, big.NewInt(FeeBase))
	treasury = new(big.Int).Mul(amount, new(big.Int).SetUint64(fee))
	treasury.Div(treasury, big.NewInt(FeeBase))
	return user, treasury
}

type FeeReport struct {
	WithdrawalFee uint64
	DecreaseByDay uint64
	TimeLock      uint64
	Now           uint64
	Fee           uint64
}

func (r FeeReport) Elapsed() time.Duration {
	if r.Now <= r.TimeLock {
		return 0
	}
	return time.Duration(r.Now-r.TimeLock) * time.Second
}

// UserFee computes the fee user would pay withdrawing at the latest block.
func (i *Inspector) UserFee(ctx context.Context, user common.Address) (*FeeReport, error) {
	game, err := i.game(ctx)
	if err != nil {
		return nil, err
	}

	report := &FeeReport{}
	if report.WithdrawalFee, err = game.WithdrawalFee(ctx); err != nil {
		return nil, err
	}
	if report.DecreaseByDay, err = game.DecreaseWithdrawalFeeByDay(ctx); err != nil {
		return nil, err
	}
	if report.TimeLock, err = game.WithdrawTimeLock(ctx, user); err != nil {
		return nil, err
	}
	if report.Now, err = i.now(ctx); err != nil {
		return nil, err
	}

	report.Fee = WithdrawalFeeAt(report.WithdrawalFee, report.DecreaseByDay, report.Elapsed())

	return report, nil
}
