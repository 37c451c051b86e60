package classifier

import (
	"fmt"

	"github.com/happyhackingspace/dil/internal/vectorizer"
	"github.com/happyhackingspace/dil/profile"
)

// Metric selects the distance used by PredictKNN.
type Metric int

const (
	Manhattan Metric = iota
	Euclid
)

// ParseMetric converts a metric tag ("manhattan" or "euclid") to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "manhattan":
		return Manhattan, nil
	case "euclid":
		return Euclid, nil
	}
	return 0, fmt.Errorf("%w: unknown metric %q", profile.ErrInvalidInput, s)
}

// String returns the metric tag.
func (m Metric) String() string {
	switch m {
	case Manhattan:
		return "manhattan"
	case Euclid:
		return "euclid"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Set implements pflag.Value so a Metric can be bound to a command-line flag.
func (m *Metric) Set(s string) error {
	parsed, err := ParseMetric(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Metric) Type() string {
	return "metric"
}

// distanceFunc returns the dense distance function for m.
func (m Metric) distanceFunc() (func(a, b []float64) (float64, error), error) {
	switch m {
	case Manhattan:
		return vectorizer.Manhattan, nil
	case Euclid:
		return vectorizer.Euclidean, nil
	}
	return nil, fmt.Errorf("%w: unknown metric %v", profile.ErrInvalidInput, m)
}
