package lifecycle

import (
	"slices"

	"weather-dashboard-go/internal/types"
)

// Status values reported to the rendering layer.
const (
	StatusLoading = "loading"
	StatusError   = "error"
	StatusReady   = "ready"
)

// Messages shown when an activation fails.
const (
	MessageFetchFailed   = "Error fetching weather data."
	MessageInvalidFormat = "Invalid API response format."
)

// State is one of Loading, Failed or Ready. The set is closed.
type State interface {
	Status() string
	isState()
}

// Loading is the initial state; no data is available yet.
type Loading struct{}

func (Loading) Status() string { return StatusLoading }
func (Loading) isState()       {}

// FailureKind distinguishes why an activation ended in Failed.
type FailureKind int

const (
	TransportFailure FailureKind = iota + 1
	FormatFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case FormatFailure:
		return "format"
	default:
		return "unknown"
	}
}

// Failed is terminal for the activation.
type Failed struct {
	Kind    FailureKind
	Message string
	Cause   error // for diagnostics only, never shown to users
}

func (Failed) Status() string { return StatusError }
func (Failed) isState()       {}

// Ready holds the dataset in ascending date order.
type Ready struct {
	dataset types.Dataset
}

func (Ready) Status() string { return StatusReady }
func (Ready) isState()       {}

// Dataset returns a copy of the stored dataset.
func (r Ready) Dataset() types.Dataset {
	return slices.Clone(r.dataset)
}

// Len is the number of stored records.
func (r Ready) Len() int { return len(r.dataset) }

// NewReady wraps a dataset that is already in ascending date order.
func NewReady(ds types.Dataset) Ready {
	return Ready{dataset: slices.Clone(ds)}
}
