package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
)

// Publisher - часть *nats.Conn, нужная для публикации.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher публикует события подбора в <prefix>.match.created.
type NATSPublisher struct {
	pub     Publisher
	subject string
}

func NewNATSPublisher(pub Publisher, prefix string) *NATSPublisher {
	return &NATSPublisher{pub: pub, subject: prefix + ".match.created"}
}

// ConnectNATS подключается к серверу с бесконечным переподключением.
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("designmatch-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Log.WithError(err).Warn("nats: соединение потеряно")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Log.WithField("url", c.ConnectedUrl()).Info("nats: соединение восстановлено")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: не удалось подключиться: %w", err)
	}
	return conn, nil
}

func (p *NATSPublisher) Subject() string {
	return p.subject
}

func (p *NATSPublisher) MatchCreated(ctx context.Context, m *entity.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(newMatchCreatedPayload(m))
	if err != nil {
		return fmt.Errorf("nats: сериализация события: %w", err)
	}
	if err := p.pub.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats: публикация %s: %w", p.subject, err)
	}
	return nil
}
