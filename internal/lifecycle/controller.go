package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"weather-dashboard-go/internal/dataset"
)

// ErrInFlight is returned by Reset while a fetch is outstanding.
var ErrInFlight = errors.New("fetch in flight")

// Fetcher retrieves the raw dataset payload. Any error means the call was
// rejected.
type Fetcher interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}

// Controller drives one fetch per activation and owns the resulting state.
type Controller struct {
	fetcher Fetcher
	fields  dataset.FieldMap
	log     *logrus.Entry

	mu      sync.RWMutex
	state   State
	started bool
	done    chan struct{}
}

func NewController(f Fetcher, fields dataset.FieldMap, log *logrus.Entry) *Controller {
	return &Controller{
		fetcher: f,
		fields:  fields,
		log:     log.WithField("component", "lifecycle"),
		state:   Loading{},
		done:    make(chan struct{}),
	}
}

// Activate starts the fetch unless this activation already started one.
// It returns a channel that is closed once the state leaves Loading.
func (c *Controller) Activate(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		c.log.Debug("activate ignored, already started")
		return c.done
	}
	c.started = true
	c.log.Info("activation started")
	go c.run(ctx, c.done)
	return c.done
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Reset puts a settled controller back into Loading so it can be activated
// again.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		select {
		case <-c.done:
		default:
			return ErrInFlight
		}
	}
	c.state = Loading{}
	c.started = false
	c.done = make(chan struct{})
	return nil
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	raw, err := c.fetcher.Fetch(ctx)
	next := c.settle(raw, err)

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()
}

func (c *Controller) settle(raw json.RawMessage, err error) State {
	if err != nil {
		c.log.WithError(err).Error("error fetching data")
		return Failed{Kind: TransportFailure, Message: MessageFetchFailed, Cause: err}
	}

	ds, err := dataset.Decode(raw, c.fields)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"payload_shape": dataset.Shape(raw),
			"payload":       preview(raw),
		}).Error("invalid API response format")
		return Failed{Kind: FormatFailure, Message: MessageInvalidFormat, Cause: err}
	}

	c.log.WithField("records", len(ds)).Info("dataset ready")
	// The feed is newest-first; store ascending.
	return Ready{dataset: ds.Reversed()}
}

func preview(raw []byte) string {
	const n = 200
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
