package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "ppsync"

// changeMessage is the JSON body of a published change.
type changeMessage struct {
	Change
	Kind string `json:"kind"`
}

// NATSPublisher is an Observer that publishes changes as JSON to
// "<prefix>.<collection>.<kind>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url. Extra options are
// appended to the reconnect defaults.
func NewNATSPublisher(url, prefix string, opts ...nats.Option) (*NATSPublisher, error) {
	defaults := []nats.Option{
		nats.Name("ppsync"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: nc, prefix: prefix, logger: slog.Default()}, nil
}

// Subject returns the subject a change is published on.
func (p *NATSPublisher) Subject(c Change) string {
	return p.prefix + "." + c.Collection + "." + c.Kind.String()
}

// Publish sends one change.
func (p *NATSPublisher) Publish(c Change) error {
	data, err := json.Marshal(changeMessage{Change: c, Kind: c.Kind.String()})
	if err != nil {
		return fmt.Errorf("marshaling change: %w", err)
	}
	return p.conn.Publish(p.Subject(c), data)
}

// OnChange publishes c. Failures are logged; sync never waits on NATS.
func (p *NATSPublisher) OnChange(c Change) {
	if err := p.Publish(c); err != nil {
		p.logger.Warn("publish change failed", "subject", p.Subject(c), "error", err)
	}
}

// Flush waits until the server has processed all published changes.
func (p *NATSPublisher) Flush() error {
	return p.conn.Flush()
}

// Close drains and closes the connection. Pending publishes are sent
// first. Closing twice is a no-op.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return err
	}
	return nil
}

var _ Observer = (*NATSPublisher)(nil)
