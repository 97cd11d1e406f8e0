package entity

type WeeklyLimit struct {
	Week  uint64 `json:"week"`
	Limit uint64 `json:"limit"`
}

type WeeklyLimits []WeeklyLimit

// Split returns the parallel week and limit arrays of setWeeklyWorkersLimit.
func (l WeeklyLimits) Split() ([]uint64, []uint64) {
	weeks := make([]uint64, len(l))
	limits := make([]uint64, len(l))
	for i, limit := range l {
		weeks[i] = limit.Week
		limits[i] = limit.Limit
	}
	return weeks, limits
}

// ChanceTableEntry is a row of the NFT claimer's player table: the rarity
// granted and the squid energy range rolled for it.
type ChanceTableEntry struct {
	Rarity   uint8  `json:"rarity"`
	MaxValue uint64 `json:"maxValue"`
	MinValue uint64 `json:"minValue"`
	Chance   uint32 `json:"chance"`
}

func (e ChanceTableEntry) Tuple() []interface{} {
	return []interface{}{e.Rarity, e.MaxValue, e.MinValue, e.Chance}
}
