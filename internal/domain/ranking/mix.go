package ranking

import "github.com/okian/co2atlas/internal/domain/model"

// DefaultMixComponents are the per-capita fuel emissions of the mix view.
var DefaultMixComponents = []string{ //nolint:gochecknoglobals // fixed list
	"coal_co2_per_capita",
	"oil_co2_per_capita",
	"gas_co2_per_capita",
	"cement_co2_per_capita",
}

// MixComponent is one positive share of an emissions mix.
type MixComponent struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// Mix returns the positive components of code's row in year, in the order
// of components. The last matching row wins.
func Mix(rows []model.Observation, code string, year int, components []string) []MixComponent {
	var match *model.Observation
	for i := range rows {
		if rows[i].EntityCode == code && rows[i].Year == year {
			match = &rows[i]
		}
	}
	out := make([]MixComponent, 0, len(components))
	if match == nil {
		return out
	}
	for _, m := range components {
		if v, ok := match.Value(m); ok && v > 0 {
			out = append(out, MixComponent{Metric: m, Value: v})
		}
	}
	return out
}
