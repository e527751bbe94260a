package lifetime

import (
	"errors"
	"math"
	"testing"
)

func TestNew_DefaultsEntryToZero(t *testing.T) {
	r, err := New([]float64{1, 2, 3}, []bool{true, false, true}, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if len(r.Entry) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(r.Entry))
	}
	for i, a := range r.Entry {
		if a != 0 {
			t.Errorf("entry[%d] = %f, want 0", i, a)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Records
		want error
	}{
		{"valid", Records{Time: []float64{1, 2}, Event: []bool{true, false}, Entry: []float64{0, 1}}, nil},
		{"length mismatch", Records{Time: []float64{1, 2}, Event: []bool{true}, Entry: []float64{0, 0}}, ErrLengthMismatch},
		{"empty", Records{}, ErrEmpty},
		{"zero time", Records{Time: []float64{0}, Event: []bool{true}, Entry: []float64{0}}, ErrInvalidTime},
		{"NaN time", Records{Time: []float64{math.NaN()}, Event: []bool{true}, Entry: []float64{0}}, ErrInvalidTime},
		{"+Inf time", Records{Time: []float64{math.Inf(1)}, Event: []bool{true}, Entry: []float64{0}}, ErrInvalidTime},
		{"negative entry", Records{Time: []float64{1}, Event: []bool{true}, Entry: []float64{-1}}, ErrInvalidEntry},
		{"entry equals time", Records{Time: []float64{1}, Event: []bool{true}, Entry: []float64{1}}, ErrInvalidEntry},
		{"covariate mismatch", Records{
			Time: []float64{1}, Event: []bool{true}, Entry: []float64{0},
			Covariates: []Covariate{{Name: "x", Values: []float64{1, 2}}},
		}, ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordErrorIndex(t *testing.T) {
	r := Records{Time: []float64{1, 2, -3}, Event: []bool{true, true, true}, Entry: []float64{0, 0, 0}}
	var re *RecordError
	if !errors.As(r.Validate(), &re) {
		t.Fatal("expected RecordError")
	}
	if re.Index != 2 {
		t.Errorf("expected index 2, got %d", re.Index)
	}
}

func TestSummary(t *testing.T) {
	r := Records{
		Time:  []float64{5, 2, 9},
		Event: []bool{true, false, true},
		Entry: []float64{0, 1, 3},
	}
	s := r.Summary()
	if s.Units != 3 || s.Failures != 2 || s.Censored != 1 || s.Truncated != 2 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.MinTime != 2 || s.MaxTime != 9 {
		t.Errorf("unexpected time range: %f..%f", s.MinTime, s.MaxTime)
	}
	if r.Events() != 2 {
		t.Errorf("expected 2 events, got %d", r.Events())
	}
	if r.MaxTime() != 9 {
		t.Errorf("expected max time 9, got %f", r.MaxTime())
	}
}

func TestClone(t *testing.T) {
	r := Records{
		Time: []float64{1}, Event: []bool{true}, Entry: []float64{0},
		Covariates: []Covariate{{Name: "x", Values: []float64{4}}},
	}
	c := r.Clone()
	c.Time[0] = 99
	c.Covariates[0].Values[0] = 99
	if r.Time[0] == 99 || r.Covariates[0].Values[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}
