package estimators

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/san-kum/survlab/internal/optim"
)

// law is a parametric lifetime distribution. Parameters are on their
// natural, strictly positive scale.
type law interface {
	strategy() Strategy
	paramNames() []string
	cumHazard(p []float64, t float64) float64
	logHazard(p []float64, t float64) float64
	startGrid(maxTime float64) [][]float64
}

func shapeRateGrid(maxTime float64) [][]float64 {
	return [][]float64{
		optim.Geometric(0.3, 8, 10),
		optim.Geometric(0.02/maxTime, 20/maxTime, 13),
	}
}

type exponentialLaw struct{}

func (exponentialLaw) strategy() Strategy   { return Exponential }
func (exponentialLaw) paramNames() []string { return []string{"rate"} }

func (exponentialLaw) cumHazard(p []float64, t float64) float64 { return p[0] * t }
func (exponentialLaw) logHazard(p []float64, t float64) float64 { return math.Log(p[0]) }

func (exponentialLaw) startGrid(maxTime float64) [][]float64 {
	return [][]float64{optim.Geometric(0.01/maxTime, 20/maxTime, 16)}
}

type weibullLaw struct{}

func (weibullLaw) strategy() Strategy   { return Weibull }
func (weibullLaw) paramNames() []string { return []string{"shape", "rate"} }

func (weibullLaw) cumHazard(p []float64, t float64) float64 {
	return math.Pow(p[1]*t, p[0])
}

func (weibullLaw) logHazard(p []float64, t float64) float64 {
	c, r := p[0], p[1]
	return math.Log(c) + math.Log(r) + (c-1)*math.Log(r*t)
}

func (weibullLaw) startGrid(maxTime float64) [][]float64 { return shapeRateGrid(maxTime) }

type gompertzLaw struct{}

func (gompertzLaw) strategy() Strategy   { return Gompertz }
func (gompertzLaw) paramNames() []string { return []string{"shape", "rate"} }

func (gompertzLaw) cumHazard(p []float64, t float64) float64 {
	return p[0] * math.Expm1(p[1]*t)
}

func (gompertzLaw) logHazard(p []float64, t float64) float64 {
	c, r := p[0], p[1]
	return math.Log(c) + math.Log(r) + r*t
}

func (gompertzLaw) startGrid(maxTime float64) [][]float64 {
	return [][]float64{
		optim.Geometric(1e-4, 10, 11),
		optim.Geometric(0.01/maxTime, 20/maxTime, 12),
	}
}

type gammaLaw struct{}

func (gammaLaw) strategy() Strategy   { return Gamma }
func (gammaLaw) paramNames() []string { return []string{"shape", "rate"} }

func (gammaLaw) cumHazard(p []float64, t float64) float64 {
	return -math.Log(mathext.GammaIncRegComp(p[0], p[1]*t))
}

func (g gammaLaw) logHazard(p []float64, t float64) float64 {
	c, r := p[0], p[1]
	lg, _ := math.Lgamma(c)
	logPDF := c*math.Log(r) + (c-1)*math.Log(t) - r*t - lg
	return logPDF + g.cumHazard(p, t)
}

func (gammaLaw) startGrid(maxTime float64) [][]float64 { return shapeRateGrid(maxTime) }

type logLogisticLaw struct{}

func (logLogisticLaw) strategy() Strategy   { return LogLogistic }
func (logLogisticLaw) paramNames() []string { return []string{"shape", "rate"} }

func (logLogisticLaw) cumHazard(p []float64, t float64) float64 {
	return math.Log1p(math.Pow(p[1]*t, p[0]))
}

func (logLogisticLaw) logHazard(p []float64, t float64) float64 {
	c, r := p[0], p[1]
	rt := r * t
	return math.Log(c) + math.Log(r) + (c-1)*math.Log(rt) - math.Log1p(math.Pow(rt, c))
}

func (logLogisticLaw) startGrid(maxTime float64) [][]float64 { return shapeRateGrid(maxTime) }
