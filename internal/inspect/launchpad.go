package inspect

import (
	"context"
	"fmt"
	"math/big"

	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/registry"
)

type LaunchpadReport struct {
	Name          string
	BoxPrice      *big.Int
	Base          uint64
	Probabilities []uint64
}

// Percent renders probability index as a share of the base, two decimals.
func (r LaunchpadReport) Percent(index int) string {
	if r.Base == 0 || index >= len(r.Probabilities) {
		return "-"
	}
	bp := r.Probabilities[index] * 10000 / r.Base
	return fmt.Sprintf("%d.%02d%%", bp/100, bp%100)
}

var launchpadNames = map[string]string{
	registry.Launchpad:   contract.LaunchpadNftMysteryBoxesName,
	registry.LaunchpadV2: contract.LaunchpadMysteryBoxV2Name,
}

// Launchpad reads the box price and probability table of the launchpad
// registered under key.
func (i *Inspector) Launchpad(ctx context.Context, key string) (*LaunchpadReport, error) {
	name, ok := launchpadNames[key]
	if !ok {
		return nil, fmt.Errorf("%s is not a launchpad key", key)
	}

	address, err := i.registry.LookupAddress(ctx, key)
	if err != nil {
		return nil, err
	}
	lp, err := i.binder.Launchpad(name, address)
	if err != nil {
		return nil, err
	}

	report := &LaunchpadReport{Name: name}
	if report.BoxPrice, err = lp.BoxPrice(ctx); err != nil {
		return nil, err
	}
	if report.Base, err = lp.ProbabilityBase(ctx); err != nil {
		return nil, err
	}

	if _, err := indexed(maxIndexed, func(index uint64) error {
		p, err := lp.Probability(ctx, index)
		if err != nil {
			return err
		}
		report.Probabilities = append(report.Probabilities, p)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("probabilities: %w", err)
	}

	return report, nil
}
