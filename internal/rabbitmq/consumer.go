package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
)

// maxInflight ограничивает количество одновременно обрабатываемых сообщений.
const maxInflight = 10

// ConsumerMessage подписывается на очередь и обрабатывает сообщения
// переданным обработчиком. При ошибке обработчика сообщение
// возвращается в очередь. Подписка живет до отмены контекста.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string,
	log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInflight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						log.Error("message handler failed",
							slog.String("queue", queueName), slog.Any("err", err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", slog.Any("err", nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", slog.Any("err", ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
