package constraint

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// CoefficientMix selects how two per-body physical coefficients, like
// restitution or friction, combine into one effective value
type CoefficientMix int

const (
	MixAverage  CoefficientMix = iota // (a + b) / 2
	MixMultiply                       // a * b
	MixSqrt                           // sqrt(a * b)
	MixMin                            // min(a, b)
	MixMax                            // max(a, b)
)

// Mix combines two coefficient values under the given policy.
// Both inputs are physical coefficients and expected non-negative.
func Mix(a, b float64, mix CoefficientMix) float64 {
	switch mix {
	case MixAverage:
		return (a + b) / 2.0

	case MixMultiply:
		return a * b

	case MixSqrt:
		return math.Sqrt(a * b)

	case MixMin:
		return math.Min(a, b)

	case MixMax:
		return math.Max(a, b)
	}

	panic("constraint: unknown coefficient mixing function")
}

var mixNames = map[string]CoefficientMix{
	"average":  MixAverage,
	"multiply": MixMultiply,
	"sqrt":     MixSqrt,
	"min":      MixMin,
	"max":      MixMax,
}

func (m CoefficientMix) String() string {
	for name, mix := range mixNames {
		if mix == m {
			return name
		}
	}
	return fmt.Sprintf("CoefficientMix(%d)", int(m))
}

// UnmarshalYAML lets settings files name a policy ("average", "multiply",
// "sqrt", "min", "max")
func (m *CoefficientMix) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	mix, ok := mixNames[name]
	if !ok {
		return fmt.Errorf("unknown coefficient mixing policy %q", name)
	}

	*m = mix
	return nil
}

func (m CoefficientMix) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}
