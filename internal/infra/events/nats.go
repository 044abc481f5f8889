package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/usecase"

	"github.com/nats-io/nats.go"
)

// 注文確定イベントをNATSに流す
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// Connect はNATSに接続してPublisherを返す。urlが空なら何もしないPublisherを返す
func Connect(url, subject string, logger *slog.Logger) (usecase.OrderEventPublisher, func(), error) {
	if url == "" {
		return NopPublisher{}, func() {}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("storefront"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	closeFn := func() {
		//未送信分を流してから閉じる
		if err := nc.Drain(); err != nil {
			logger.Warn("nats drain failed", "error", err)
		}
	}
	return NewNATSPublisher(nc, subject), closeFn, nil
}

func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{nc: nc, subject: subject}
}

func (p *NATSPublisher) PublishOrderPlaced(ctx context.Context, ev usecase.OrderPlacedEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order placed: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set(nats.MsgIdHdr, fmt.Sprintf("order-%d", ev.OrderID))

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// NATS_URL未設定時
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, usecase.OrderPlacedEvent) error { return nil }
