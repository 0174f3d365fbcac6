// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/callstash/cc-recording-service/internal/domain"
)

// natsMessage adapts *nats.Msg to the transport-agnostic domain.Message.
type natsMessage struct {
	msg *nats.Msg
}

func (m *natsMessage) Subject() string { return m.msg.Subject }
func (m *natsMessage) Data() []byte    { return m.msg.Data }

// QueueSubscribe delivers messages on subject to the handler, load-balanced
// across instances via the queue group. The provided context flows into
// every handler invocation and carries the process lifetime.
func QueueSubscribe(ctx context.Context, conn *nats.Conn, subject, queue string, handler domain.MessageHandler) (*nats.Subscription, error) {
	sub, err := conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler.HandleMessage(ctx, &natsMessage{msg: msg})
	})
	if err != nil {
		return nil, domain.NewUnavailableError("failed to subscribe to "+subject, err)
	}
	slog.InfoContext(ctx, "subscribed to subject", "subject", subject, "queue", queue)
	return sub, nil
}
