package audit

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var _ Sink = (*Publisher)(nil)

const DefaultSubject = "hostwatch.audit"

// Conn is the subset of *nats.Conn used by Publisher.
type Conn interface {
	Publish(subject string, data []byte) error
	IsClosed() bool
	Drain() error
	Close()
}

// Publisher fans audit messages out to a NATS subject as JSON.
// Subscribers see every trust decision without polling the messages table.
type Publisher struct {
	nc      Conn
	subject string
}

// NewPublisher connects to url and reconnects forever on disconnect.
func NewPublisher(url, subject string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name("hostwatch-audit"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("audit nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("audit nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithConn(nc, subject), nil
}

// NewPublisherWithConn wraps an existing connection.
func NewPublisherWithConn(nc Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Save publishes event on <subject>.<msgid>.
func (p *Publisher) Save(event Event) error {
	if p.nc == nil || p.nc.IsClosed() {
		return errors.New("nats not connected")
	}
	payload, err := json.Marshal(NewMessage(event))
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject+"."+event.MessageID(), payload)
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

