package engine

import (
	"math/bits"

	"github.com/bcvictoria/tournament-system/models"
)

// BracketPlan is a freshly built knockout bracket: stage 1 seeded from the
// qualifiers, every later stage locked and empty. Size 1 means no bracket.
type BracketPlan struct {
	Size    int
	Rounds  int
	Matches []*models.KnockoutMatch
}

// BracketSize returns the smallest power of two that fits n qualifiers, or
// 1 when there is at most one qualifier and no bracket is needed.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// SeedOrder is the standard single-elimination seeding sequence: seed s in
// the left half is followed by size+1-s, recursively, so the top seeds meet
// as late as possible. order(4) = [1 4 2 3], order(8) = [1 8 4 5 2 7 3 6].
func SeedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		doubled := 2 * len(order)
		next := make([]int, 0, doubled)
		for _, s := range order {
			next = append(next, s, doubled+1-s)
		}
		order = next
	}
	return order
}

// BuildBracket maps the ordered qualifiers (seed 1..M) onto a full bracket.
// Consecutive seed-order slots pair into stage-1 matches; slots past the
// qualifier count stay empty, giving the lowest seeds a bye that is decided
// immediately with no score. Later stages are created locked with null
// slots and are filled by propagation.
func BuildBracket(event models.EventCategory, qualifiers []*models.Entrant, format models.KnockoutFormat) *BracketPlan {
	size := BracketSize(len(qualifiers))
	if size == 1 {
		return &BracketPlan{Size: 1, Rounds: 0}
	}
	rounds := bits.Len(uint(size)) - 1

	plan := &BracketPlan{
		Size:    size,
		Rounds:  rounds,
		Matches: make([]*models.KnockoutMatch, 0, size-1),
	}

	slots := SeedOrder(size)
	for i := 0; i < size; i += 2 {
		match := &models.KnockoutMatch{
			Event:        event,
			Stage:        1,
			OrderInStage: i/2 + 1,
			Format:       format,
			Unlocked:     true,
		}
		if seed := slots[i]; seed <= len(qualifiers) {
			id := qualifiers[seed-1].ID
			match.SlotAID = &id
		}
		if seed := slots[i+1]; seed <= len(qualifiers) {
			id := qualifiers[seed-1].ID
			match.SlotBID = &id
		}
		if match.IsBye() {
			winner := match.SlotAID
			if winner == nil {
				winner = match.SlotBID
			}
			w := *winner
			match.WinnerID = &w
		}
		plan.Matches = append(plan.Matches, match)
	}

	for stage := 2; stage <= rounds; stage++ {
		for order := 1; order <= size>>uint(stage); order++ {
			plan.Matches = append(plan.Matches, &models.KnockoutMatch{
				Event:        event,
				Stage:        stage,
				OrderInStage: order,
				Format:       format,
			})
		}
	}

	return plan
}
