package optim

import (
	"context"
	"errors"
	"math"
)

var ErrNoFiniteValue = errors.New("optim: objective not finite anywhere on the grid")

// GridSearch evaluates an objective on the cartesian product of per-parameter
// value lists and keeps the smallest finite value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

func (g *GridSearch) Search(ctx context.Context, objective func(x []float64) float64) ([]float64, float64, error) {
	best := math.Inf(1)
	var bestX []float64

	current := make([]float64, len(g.paramNames))
	if err := g.searchRecursive(ctx, 0, current, objective, &best, &bestX); err != nil {
		return nil, 0, err
	}
	if bestX == nil {
		return nil, 0, ErrNoFiniteValue
	}
	return bestX, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current []float64,
	objective func([]float64) float64,
	best *float64,
	bestX *[]float64,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		val := objective(current)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if val < *best {
			*best = val
			*bestX = append([]float64(nil), current...)
		}
		return nil
	}

	for _, val := range g.ranges[depth] {
		current[depth] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, best, bestX); err != nil {
			return err
		}
	}
	return nil
}

// Geometric returns n values spaced by a constant ratio from lo to hi.
func Geometric(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	ratio := math.Pow(hi/lo, 1/float64(n-1))
	v := lo
	for i := range out {
		out[i] = v
		v *= ratio
	}
	return out
}
