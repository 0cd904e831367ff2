package domain

// MetricKind discriminates a MetricValue
type MetricKind string

const (
	MetricNumeric     MetricKind = "numeric"
	MetricUnavailable MetricKind = "unavailable"
)

// UnavailableDisplay is what an unavailable metric renders as
const UnavailableDisplay = "N/A"

// MetricValue is either a numeric result or an explicit "unavailable" marker.
// Build values with Numeric and Unavailable; Value is nil for unavailable.
type MetricValue struct {
	Kind    MetricKind `json:"kind" msgpack:"kind"`
	Value   *float64   `json:"value,omitempty" msgpack:"value,omitempty"`
	Display string     `json:"display" msgpack:"display"`
}

// Numeric returns a numeric metric with the given display text
func Numeric(v float64, display string) MetricValue {
	return MetricValue{Kind: MetricNumeric, Value: &v, Display: display}
}

// Unavailable returns the unavailable marker
func Unavailable() MetricValue {
	return MetricValue{Kind: MetricUnavailable, Display: UnavailableDisplay}
}

// Available reports whether the metric carries a number
func (m MetricValue) Available() bool {
	return m.Kind == MetricNumeric && m.Value != nil
}

// Float returns the numeric value and whether it is available
func (m MetricValue) Float() (float64, bool) {
	if !m.Available() {
		return 0, false
	}
	return *m.Value, true
}

// String returns the display text
func (m MetricValue) String() string {
	if m.Display == "" && !m.Available() {
		return UnavailableDisplay
	}
	return m.Display
}

// Metric is one labelled entry of the metrics panel
type Metric struct {
	Label string      `json:"label" msgpack:"label"`
	Value MetricValue `json:"value" msgpack:"value"`
}

// Metrics is an ordered label -> value mapping
type Metrics []Metric

// Get returns the value for label
func (m Metrics) Get(label string) (MetricValue, bool) {
	for _, entry := range m {
		if entry.Label == label {
			return entry.Value, true
		}
	}
	return MetricValue{}, false
}

// Labels returns the labels in order
func (m Metrics) Labels() []string {
	out := make([]string, len(m))
	for i, entry := range m {
		out[i] = entry.Label
	}
	return out
}
