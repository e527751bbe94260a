package lifetime

import (
	"fmt"
	"math"
)

type Covariate struct {
	Name   string
	Values []float64
}

type Records struct {
	Time       []float64
	Event      []bool
	Entry      []float64
	Covariates []Covariate
}

// New builds a validated record set. A nil entry slice means every unit was
// observed from age zero.
func New(time []float64, event []bool, entry []float64) (Records, error) {
	if entry == nil {
		entry = make([]float64, len(time))
	}
	r := Records{Time: time, Event: event, Entry: entry}
	if err := r.Validate(); err != nil {
		return Records{}, err
	}
	return r, nil
}

func (r Records) Validate() error {
	n := len(r.Time)
	if len(r.Event) != n || len(r.Entry) != n {
		return fmt.Errorf("%w: time=%d event=%d entry=%d", ErrLengthMismatch, n, len(r.Event), len(r.Entry))
	}
	if n == 0 {
		return ErrEmpty
	}
	for _, c := range r.Covariates {
		if len(c.Values) != n {
			return fmt.Errorf("%w: covariate %q has %d values for %d units", ErrLengthMismatch, c.Name, len(c.Values), n)
		}
	}
	for i := 0; i < n; i++ {
		t := r.Time[i]
		if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return &RecordError{Index: i, Err: ErrInvalidTime}
		}
		a := r.Entry[i]
		if a < 0 || math.IsNaN(a) || a >= t {
			return &RecordError{Index: i, Err: ErrInvalidEntry}
		}
	}
	return nil
}

func (r Records) Len() int { return len(r.Time) }

// Tuple returns the three primary fields in (time, event, entry) order.
func (r Records) Tuple() ([]float64, []bool, []float64) {
	return r.Time, r.Event, r.Entry
}

type Row struct {
	Time  float64
	Event bool
	Entry float64
}

func (r Records) Row(i int) Row {
	return Row{Time: r.Time[i], Event: r.Event[i], Entry: r.Entry[i]}
}

func (r Records) Events() int {
	n := 0
	for _, e := range r.Event {
		if e {
			n++
		}
	}
	return n
}

func (r Records) MaxTime() float64 {
	maxT := 0.0
	for _, t := range r.Time {
		if t > maxT {
			maxT = t
		}
	}
	return maxT
}

// Clone returns a deep copy so callers may not alias a loader's slices.
func (r Records) Clone() Records {
	c := Records{
		Time:  append([]float64(nil), r.Time...),
		Event: append([]bool(nil), r.Event...),
		Entry: append([]float64(nil), r.Entry...),
	}
	for _, cov := range r.Covariates {
		c.Covariates = append(c.Covariates, Covariate{
			Name:   cov.Name,
			Values: append([]float64(nil), cov.Values...),
		})
	}
	return c
}

type Summary struct {
	Units     int
	Failures  int
	Censored  int
	Truncated int
	MinTime   float64
	MaxTime   float64
}

func (r Records) Summary() Summary {
	s := Summary{Units: r.Len()}
	if s.Units == 0 {
		return s
	}
	s.MinTime = math.Inf(1)
	for i, t := range r.Time {
		if r.Event[i] {
			s.Failures++
		} else {
			s.Censored++
		}
		if r.Entry[i] > 0 {
			s.Truncated++
		}
		s.MinTime = math.Min(s.MinTime, t)
		s.MaxTime = math.Max(s.MaxTime, t)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d units, %d failures, %d censored, %d left-truncated, time %.2f..%.2f",
		s.Units, s.Failures, s.Censored, s.Truncated, s.MinTime, s.MaxTime)
}
