package squid

import "github.com/squidgame/squid-ops/internal/entity"

const (
	ClaimerDeployGas     = 5000000
	ClaimerVouchersGas   = 12000000
	ClaimerVouchersChunk = 500
	ClaimerTableGas      = 1000000
)

// PlayerChanceTable is rolled by the claimer: rarity, max SE, min SE, chance.
var PlayerChanceTable = []entity.ChanceTableEntry{
	{Rarity: 1, MaxValue: 520, MinValue: 500, Chance: 450},
	{Rarity: 2, MaxValue: 1200, MinValue: 600, Chance: 370},
	{Rarity: 3, MaxValue: 1700, MinValue: 1300, Chance: 120},
	{Rarity: 4, MaxValue: 2300, MinValue: 1800, Chance: 50},
	{Rarity: 5, MaxValue: 3000, MinValue: 2400, Chance: 10},
}

// Chunks splits ids into slices of at most size.
func Chunks(ids []uint64, size int) [][]uint64 {
	var chunks [][]uint64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
