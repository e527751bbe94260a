package estimators

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "KaplanMeier", want: KaplanMeier},
		{in: "weibull", want: Weibull},
		{in: " LOGLOGISTIC ", want: LogLogistic},
		{in: "Gamma", want: Gamma},
		{in: "Lognormal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g := NewWithT(t)
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				g.Expect(err).To(MatchError(ErrUnknownStrategy))
				return
			}
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestEveryStrategyHasAnEstimator(t *testing.T) {
	g := NewWithT(t)
	g.Expect(StrategyNames()).To(Equal([]string{
		"KaplanMeier", "Weibull", "Gompertz", "Exponential", "Gamma", "LogLogistic",
	}))
	for _, s := range AllStrategies() {
		g.Expect(New(s).Strategy()).To(Equal(s))
		g.Expect(s.Description()).NotTo(BeEmpty())
	}
}

func TestStrategyStringOutOfRange(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Strategy(42).String()).To(Equal("Strategy(42)"))
	g.Expect(func() { New(Strategy(42)) }).To(Panic())
}

func TestTimeline(t *testing.T) {
	g := NewWithT(t)
	tl := Timeline(10, 6)
	g.Expect(tl).To(Equal([]float64{0, 2, 4, 6, 8, 10}))
	g.Expect(Timeline(3, 1)).To(HaveLen(2))
}
