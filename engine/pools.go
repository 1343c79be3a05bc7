package engine

import "github.com/bcvictoria/tournament-system/models"

// Pools may only hold 3 or 4 entrants; smaller fields degrade to a single
// undersized pool rather than failing.
const (
	MinPoolSize = 3
	MaxPoolSize = 4
)

// Fixture is one round-robin pairing produced by pool assignment, before it
// is persisted as a PoolMatch.
type Fixture struct {
	PoolNumber  int
	OrderInPool int
	A           *models.Entrant
	B           *models.Entrant
}

// PoolCount picks the minimal number of pools for the given field so that
// every pool ends up with 3 or 4 entrants. It starts at ceil(total/target)
// and only ever decrements; when no count satisfies the bounds (possible for
// very small fields) the initial count is kept as-is.
func PoolCount(total, targetSize int) int {
	if total == 0 {
		return 0
	}
	if total < MinPoolSize {
		return 1
	}
	initial := (total + targetSize - 1) / targetSize
	for k := initial; k >= 1; k-- {
		if sizesWithinBounds(poolSizes(total, k)) {
			return k
		}
	}
	return initial
}

// poolSizes splits total over k pools: base size floor(total/k), the first
// total mod k pools take one extra.
func poolSizes(total, k int) []int {
	base := total / k
	rem := total % k
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

func sizesWithinBounds(sizes []int) bool {
	for _, s := range sizes {
		if s < MinPoolSize || s > MaxPoolSize {
			return false
		}
	}
	return true
}

// AssignPools distributes a seed-ordered entrant list over balanced pools
// using a snake draft: pools are visited left to right, then right to left,
// so that the strongest seeds spread evenly. The returned slices are the
// pool memberships in pool order.
func AssignPools(seeded []*models.Entrant, targetSize int) ([][]*models.Entrant, error) {
	if targetSize != MinPoolSize && targetSize != MaxPoolSize {
		return nil, ErrPoolSizeInvalid
	}
	k := PoolCount(len(seeded), targetSize)
	if k == 0 {
		return nil, nil
	}
	sizes := poolSizes(len(seeded), k)

	pools := make([][]*models.Entrant, k)
	for i, size := range sizes {
		pools[i] = make([]*models.Entrant, 0, size)
	}

	next := 0
	for round := 0; next < len(seeded); round++ {
		if round%2 == 0 {
			for p := 0; p < k && next < len(seeded); p++ {
				next = placeInPool(pools, sizes, p, seeded, next)
			}
		} else {
			for p := k - 1; p >= 0 && next < len(seeded); p-- {
				next = placeInPool(pools, sizes, p, seeded, next)
			}
		}
	}
	return pools, nil
}

func placeInPool(pools [][]*models.Entrant, sizes []int, p int, seeded []*models.Entrant, next int) int {
	if len(pools[p]) < sizes[p] {
		pools[p] = append(pools[p], seeded[next])
		return next + 1
	}
	return next
}

// RoundRobinFixtures expands each pool into its full round robin: every
// unordered i<j pair exactly once, numbered in enumeration order.
func RoundRobinFixtures(pools [][]*models.Entrant) []Fixture {
	fixtures := make([]Fixture, 0)
	for poolIdx, members := range pools {
		order := 0
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				order++
				fixtures = append(fixtures, Fixture{
					PoolNumber:  poolIdx + 1,
					OrderInPool: order,
					A:           members[i],
					B:           members[j],
				})
			}
		}
	}
	return fixtures
}
