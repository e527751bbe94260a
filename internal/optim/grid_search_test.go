package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {-2, 3, 5}})
	x, val, err := g.Search(context.Background(), func(x []float64) float64 {
		return (x[0]-1)*(x[0]-1) + (x[1]-3)*(x[1]-3)
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if x[0] != 1 || x[1] != 3 {
		t.Errorf("expected (1, 3), got %v", x)
	}
	if val != 0 {
		t.Errorf("expected 0, got %f", val)
	}
}

func TestGridSearchSkipsNonFinite(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{0, 1, 2}})
	x, _, err := g.Search(context.Background(), func(x []float64) float64 {
		if x[0] == 0 {
			return math.Inf(-1)
		}
		return x[0]
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if x[0] != 1 {
		t.Errorf("expected 1, got %v", x)
	}
}

func TestGridSearchNoFiniteValue(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), func([]float64) float64 { return math.NaN() })
	if !errors.Is(err, ErrNoFiniteValue) {
		t.Fatalf("expected ErrNoFiniteValue, got %v", err)
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	_, _, err := g.Search(ctx, func(x []float64) float64 { return x[0] })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGeometric(t *testing.T) {
	v := Geometric(1, 100, 3)
	want := []float64{1, 10, 100}
	for i := range want {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			t.Errorf("Geometric[%d] = %f, want %f", i, v[i], want[i])
		}
	}
	if got := Geometric(5, 10, 1); len(got) != 1 || got[0] != 5 {
		t.Errorf("Geometric with n=1 = %v", got)
	}
}
