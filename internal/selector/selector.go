// Package selector picks the player NFTs committed to a game round.
package selector

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/squidgame/squid-ops/internal/entity"
)

var ErrInsufficientEnergy = errors.New("insufficient squid energy")

// Eligible keeps the players holding a running contract that are not busy
// in a round at now.
func Eligible(players []entity.Player, now uint64) []entity.Player {
	eligible := make([]entity.Player, 0, len(players))
	for _, p := range players {
		if p.HasContract(now) && p.Idle(now) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// TotalEnergy sums the squid energy of players.
func TotalEnergy(players []entity.Player) *big.Int {
	total := new(big.Int)
	for _, p := range players {
		total.Add(total, p.Energy())
	}
	return total
}

// SortPlayersBySquidEnergyEfficient selects the fewest eligible players whose
// squid energy reaches minSeAmount. Among selections of that size it takes
// the one with the smallest total energy, then the one with the lowest
// token IDs. The selection is returned by descending energy.
func SortPlayersBySquidEnergyEfficient(players []entity.Player, minSeAmount *big.Int, now uint64) ([]entity.Player, error) {
	eligible := Eligible(players, now)
	sortByEnergy(eligible)

	total := TotalEnergy(eligible)
	if total.Cmp(minSeAmount) < 0 {
		return nil, fmt.Errorf("%w: %s available in %d players, %s required", ErrInsufficientEnergy, total, len(eligible), minSeAmount)
	}
	if minSeAmount.Sign() <= 0 {
		return []entity.Player{}, nil
	}

	// the strongest k players reach the most any k players can
	sum := new(big.Int)
	k := 0
	for sum.Cmp(minSeAmount) < 0 {
		sum.Add(sum, eligible[k].Energy())
		k++
	}

	s := newSearch(eligible, minSeAmount)
	s.run(0, k, new(big.Int), make([]int, 0, k))

	selected := make([]entity.Player, len(s.best))
	for i, idx := range s.best {
		selected[i] = eligible[idx]
	}
	sortByEnergy(selected)
	return selected, nil
}

// search is a branch and bound over players sorted by descending energy.
type search struct {
	players []entity.Player
	energy  []*big.Int
	// reach[i][r] is the energy of players[i:i+r], the most r picks from i can add
	reach   [][]*big.Int
	target  *big.Int
	best    []int
	bestSum *big.Int
}

func newSearch(players []entity.Player, target *big.Int) *search {
	s := &search{players: players, target: target, energy: make([]*big.Int, len(players))}
	for i, p := range players {
		s.energy[i] = p.Energy()
	}

	s.reach = make([][]*big.Int, len(players)+1)
	for i := range s.reach {
		row := []*big.Int{new(big.Int)}
		for j := i; j < len(players); j++ {
			row = append(row, new(big.Int).Add(row[len(row)-1], s.energy[j]))
		}
		s.reach[i] = row
	}

	return s
}

func (s *search) run(from, left int, sum *big.Int, picked []int) {
	if s.bestSum != nil && sum.Cmp(s.bestSum) > 0 {
		return
	}
	if left == 0 {
		if sum.Cmp(s.target) >= 0 && s.better(picked, sum) {
			s.best = append([]int{}, picked...)
			s.bestSum = new(big.Int).Set(sum)
		}
		return
	}
	if len(s.players)-from < left {
		return
	}
	if new(big.Int).Add(sum, s.reach[from][left]).Cmp(s.target) < 0 {
		return
	}

	for i := from; i <= len(s.players)-left; i++ {
		if new(big.Int).Add(sum, s.reach[i][left]).Cmp(s.target) < 0 {
			// later players are weaker still
			return
		}
		s.run(i+1, left-1, new(big.Int).Add(sum, s.energy[i]), append(picked, i))
	}
}

func (s *search) better(picked []int, sum *big.Int) bool {
	if s.bestSum == nil {
		return true
	}
	if c := sum.Cmp(s.bestSum); c != 0 {
		return c < 0
	}

	a, b := s.tokenIds(picked), s.tokenIds(s.best)
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (s *search) tokenIds(picked []int) []uint64 {
	ids := make([]uint64, len(picked))
	for i, idx := range picked {
		ids[i] = s.players[idx].TokenId
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TokenIds lists the token IDs of players in order.
func TokenIds(players []entity.Player) []uint64 {
	ids := make([]uint64, len(players))
	for i, p := range players {
		ids[i] = p.TokenId
	}
	return ids
}

func sortByEnergy(players []entity.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if c := players[i].Energy().Cmp(players[j].Energy()); c != 0 {
			return c > 0
		}
		return players[i].TokenId < players[j].TokenId
	})
}
