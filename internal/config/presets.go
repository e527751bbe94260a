package config

import "sort"

// Preset is a named strategy selection.
type Preset struct {
	Description string
	Strategies  []string
}

var Presets = map[string]Preset{
	"default": {
		Description: "non-parametric baseline against the two ageing laws",
		Strategies:  []string{"KaplanMeier", "Weibull", "Gompertz"},
	},
	"parametric": {
		Description: "every parametric law",
		Strategies:  []string{"Weibull", "Gompertz", "Exponential", "Gamma", "LogLogistic"},
	},
	"all": {
		Description: "every strategy",
		Strategies:  []string{"KaplanMeier", "Weibull", "Gompertz", "Exponential", "Gamma", "LogLogistic"},
	},
	"km": {
		Description: "Kaplan-Meier only",
		Strategies:  []string{"KaplanMeier"},
	},
	"tails": {
		Description: "light against heavy tailed laws",
		Strategies:  []string{"KaplanMeier", "Exponential", "LogLogistic"},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &Preset{
		Description: p.Description,
		Strategies:  append([]string(nil), p.Strategies...),
	}
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
