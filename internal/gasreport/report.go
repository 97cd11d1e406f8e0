package gasreport

import (
	"fmt"
	"io"
	"math/big"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/squidgame/squid-ops/pkg/units"
)

type Row struct {
	Label string
	Gas   uint64
}

// Report collects the gas spent per labelled operation and prices it at a
// fixed gas price and native/USD rate.
type Report struct {
	mu        sync.Mutex
	rows      []Row
	gasPrice  *big.Int
	nativeUsd *big.Float
	symbol    string
}

func New(gasPriceGwei int, nativeUsd float64, symbol string) *Report {
	return &Report{
		rows:      make([]Row, 0),
		gasPrice:  units.ToGwei(int64(gasPriceGwei)),
		nativeUsd: big.NewFloat(nativeUsd),
		symbol:    symbol,
	}
}

func (r *Report) Add(label string, gas uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, Row{Label: label, Gas: gas})
}

func (r *Report) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]Row, len(r.rows))
	copy(rows, r.rows)
	return rows
}

func (r *Report) Total() uint64 {
	var total uint64
	for _, row := range r.Rows() {
		total += row.Gas
	}
	return total
}

// CostNative is gas * gasPrice in native units, 6 decimals.
func (r *Report) CostNative(gas uint64) string {
	return units.Format(r.weiCost(gas), 18, 6)
}

// CostUsd is gas * gasPrice * nativeUsd, 2 decimals.
func (r *Report) CostUsd(gas uint64) string {
	wei := new(big.Float).SetPrec(256).SetInt(r.weiCost(gas))
	usd := wei.Mul(wei, r.nativeUsd)
	usd.Quo(usd, new(big.Float).SetPrec(256).SetInt(units.ToWei(1)))

	return usd.Text('f', 2)
}

func (r *Report) weiCost(gas uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gas), r.gasPrice)
}

func (r *Report) Listen(m *event.Manager) {
	m.AddEventListener(event.TxMinedEvent, func(msg interface{}) {
		tx, ok := msg.(event.Tx)
		if !ok || tx.Receipt == nil {
			return
		}
		label := tx.Label
		if label == "" {
			label = fmt.Sprintf("%s.%s", tx.Contract, tx.Method)
		}
		r.Add(label, tx.Receipt.GasUsed)
	})
}

func (r *Report) Print(out io.Writer) {
	rows := r.Rows()
	if len(rows) == 0 {
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintln(out, "GAS_REPORT")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "OPERATION\tGAS_SPENT\tCOST_%s\tCOST_USD\n", r.symbol)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", row.Label, row.Gas, r.CostNative(row.Gas), r.CostUsd(row.Gas))
	}
	total := r.Total()
	fmt.Fprintf(w, "TOTAL\t%d\t%s\t%s\n", total, r.CostNative(total), r.CostUsd(total))
	w.Flush()
}
