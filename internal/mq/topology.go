package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange задаёт имя обменника.
type Exchange string

// Queue задаёт имя очереди.
type Queue string

const (
	ExchangeEvents Exchange = "latency.events"
	QueueBreaches  Queue    = "latency.breaches"

	// BindingBreaches ловит breach.<region> для всех регионов.
	BindingBreaches = "breach.#"
)

// BreachRoutingKey возвращает routing key для региона.
func BreachRoutingKey(region string) string {
	return "breach." + region
}

// SetupTopology объявляет exchange, очередь и binding. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			amqp.ExchangeTopic,     // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueBreaches), // name
			true,                  // durable
			false,                 // delete when unused
			false,                 // exclusive
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueBreaches, err)
		}

		if err := ch.QueueBind(string(QueueBreaches), BindingBreaches, string(ExchangeEvents), false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueueBreaches, ExchangeEvents, err)
		}
		return nil
	})
}
