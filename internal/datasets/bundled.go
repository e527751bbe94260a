package datasets

import (
	"bytes"
	"embed"

	"github.com/san-kum/survlab/internal/lifetime"
)

const (
	CircuitBreaker   = "Circuit Breaker"
	PowerTransformer = "Power Transformer"
	InsulatorString  = "Insulator String"
)

//go:embed data/*.csv
var bundled embed.FS

// Default returns the catalog of bundled reliability datasets. The fleets are
// synthetic, generated with the column layout of field records.
func Default() *Catalog {
	return NewCatalog(
		Dataset{
			Name:        CircuitBreaker,
			Description: "high-voltage circuit breakers, left-truncated fleet records (synthetic)",
			Load:        embedded("data/circuit_breaker.csv"),
		},
		Dataset{
			Name:        PowerTransformer,
			Description: "power transformers with ageing failure mode (synthetic)",
			Load:        embedded("data/power_transformer.csv"),
		},
		Dataset{
			Name:        InsulatorString,
			Description: "overhead-line insulator strings with pollution covariates (synthetic)",
			Load:        embedded("data/insulator_string.csv"),
		},
	)
}

func embedded(path string) Loader {
	return func() (lifetime.Records, error) {
		data, err := bundled.ReadFile(path)
		if err != nil {
			return lifetime.Records{}, err
		}
		return LoadCSV(bytes.NewReader(data))
	}
}
