package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const DefaultSubject = "jobs.notifications"

// NATSDeliverer publishes results as JSON to a NATS subject, leaving the
// actual chat rendering to a downstream consumer.
type NATSDeliverer struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

func NewNATSDeliverer(url, subject string, logger *zap.Logger) (*NATSDeliverer, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSDeliverer{conn: conn, subject: subject, logger: logger}, nil
}

func (d *NATSDeliverer) Deliver(_ context.Context, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := d.conn.Publish(d.subject, data); err != nil {
		d.logger.Error("failed to publish result",
			zap.String("user_id", result.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("publishing to NATS: %w", err)
	}

	d.logger.Debug("published result",
		zap.String("user_id", result.UserID),
		zap.String("subject", d.subject),
		zap.Int("jobs", len(result.Jobs)),
	)

	return nil
}

func (d *NATSDeliverer) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
