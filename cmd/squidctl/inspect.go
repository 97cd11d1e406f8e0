package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/internal/inspect"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/pkg/units"
	"github.com/urfave/cli/v2"
)

func withInspector(fn func(c *cli.Context, i *inspect.Inspector) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		container, err := newContainer("inspect", false)
		if err != nil {
			return err
		}
		defer closeContainer(container)

		i, err := container.SafeGetInspector()
		if err != nil {
			return err
		}
		return fn(c, i)
	}
}

func walletArg(c *cli.Context) (common.Address, error) {
	wallet := c.Args().First()
	if !common.IsHexAddress(wallet) {
		return common.Address{}, fmt.Errorf("%w: wallet address, got %q", errMissingArg, wallet)
	}
	return common.HexToAddress(wallet), nil
}

var inspectRoles = withInspector(func(c *cli.Context, i *inspect.Inspector) error {
	checks, err := i.Roles(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, check := range checks {
		status := color.GreenString("OK")
		if !check.Granted {
			status = color.RedString("MISSING")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", check.Contract, check.RoleName(), check.Grantee, check.Account.Hex(), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if missing := inspect.Missing(checks); len(missing) > 0 {
		return fmt.Errorf("%d of %d role grants missing", len(missing), len(checks))
	}
	return nil
})

var inspectGame = withInspector(func(c *cli.Context, i *inspect.Inspector) error {
	report, err := i.Game(c.Context)
	if err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header.Fprintln(w, "PLAYER CONTRACTS")
	fmt.Fprintln(w, "INDEX\tDAYS\tPRICE_USD\tENABLED")
	for idx, pc := range report.PlayerContracts {
		days := time.Duration(pc.Duration) * time.Second / (24 * time.Hour)
		fmt.Fprintf(w, "%d\t%d\t%s\t%t\n", idx, days, units.Format(pc.PriceInUSD, 18, 2), pc.Enable)
	}

	header.Fprintln(w, "GAMES")
	fmt.Fprintln(w, "INDEX\tNAME\tMIN_SE\tMIN_STAKE\tCHANCE\tENABLED")
	for idx, g := range report.Games {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n", idx, g.Name, units.Format(g.MinSeAmount, 18, 0), units.Format(g.MinStakeAmount, 18, 0), entity.ChancePercent(g.ChanceToWin), g.Enable)
	}

	header.Fprintln(w, "WITHDRAWAL FEE")
	fmt.Fprintf(w, "fee\t%s\n", entity.ChancePercent(uint32(report.WithdrawalFee)))
	fmt.Fprintf(w, "decrease by day\t%s\n", entity.ChancePercent(uint32(report.DecreaseByDay)))
	fmt.Fprintf(w, "recovery time\t%s\n", time.Duration(report.RecoveryTime)*time.Second)

	return w.Flush()
})

var inspectPlayers = withInspector(func(c *cli.Context, i *inspect.Inspector) error {
	wallet, err := walletArg(c)
	if err != nil {
		return err
	}

	game := c.Int("game")
	if game < 0 {
		players, err := i.Players(c.Context, wallet)
		if err != nil {
			return err
		}
		return printPlayers(players, nil)
	}

	selection, err := i.Select(c.Context, wallet, uint64(game))
	if err != nil {
		return err
	}
	if err := printPlayers(selection.Players, selection.Selected); err != nil {
		return err
	}
	color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "playGame(%d, %v)\n", game, selection.TokenIds())

	return nil
})

func printPlayers(players []entity.Player, selected []entity.Player) error {
	chosen := make(map[uint64]bool, len(selected))
	for _, p := range selected {
		chosen[p.TokenId] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tRARITY\tSE\tCONTRACT_END\tBUSY_TO\t")
	for _, p := range players {
		mark := ""
		if chosen[p.TokenId] {
			mark = color.GreenString("*")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", p.TokenId, p.Rarity, units.Format(p.Energy(), 18, 0),
			time.Unix(int64(p.ContractEndTimestamp), 0).UTC().Format(time.RFC3339),
			time.Unix(int64(p.BusyTo), 0).UTC().Format(time.RFC3339), mark)
	}
	return w.Flush()
}

var inspectLaunchpad = withInspector(func(c *cli.Context, i *inspect.Inspector) error {
	key := registry.LaunchpadV2
	if c.Bool("v1") {
		key = registry.Launchpad
	}

	report, err := i.Launchpad(c.Context, key)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tbox price %s\tbase %d\n", report.Name, units.Format(report.BoxPrice, 18, 2), report.Base)
	for idx, p := range report.Probabilities {
		fmt.Fprintf(w, "rarity %d\t%d\t%s\n", idx+1, p, report.Percent(idx))
	}
	return w.Flush()
})

var inspectFee = withInspector(func(c *cli.Context, i *inspect.Inspector) error {
	wallet, err := walletArg(c)
	if err != nil {
		return err
	}

	report, err := i.UserFee(c.Context, wallet)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s withdrawing after %s pays %s (base %s, -%s per day)\n",
		wallet.Hex(), report.Elapsed(), entity.ChancePercent(uint32(report.Fee)),
		entity.ChancePercent(uint32(report.WithdrawalFee)), entity.ChancePercent(uint32(report.DecreaseByDay)))
	return nil
})
