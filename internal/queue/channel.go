// Package queue connects the worker to the judging job queue: consuming
// jobs, scheduling them onto a bounded worker pool and publishing progress
// and results back to the platform.
package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codearena/judge-worker/internal/logger"
)

// Channel abstracts the subset of *amqp.Channel the worker uses.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp.Table) (<-chan amqp.Delivery, error)
}

// AmqpChannel wraps a real *amqp.Channel and implements Channel.
type AmqpChannel struct {
	ch *amqp.Channel
}

func NewAmqpChannel(ch *amqp.Channel) *AmqpChannel { return &AmqpChannel{ch: ch} }

func (a *AmqpChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return a.ch.Publish(exchange, key, mandatory, immediate, msg)
}

func (a *AmqpChannel) QueueDeclare(name string,
	durable, autoDelete, exclusive, noWait bool,
	args amqp.Table) (amqp.Queue, error) {
	return a.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (a *AmqpChannel) Consume(queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table) (<-chan amqp.Delivery, error) {
	return a.ch.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
}

// NewRabbitMqConnection dials the broker or exits the process.
func NewRabbitMqConnection(rabbitMQURL string) *amqp.Connection {
	log := logger.NewNamedLogger("rabbitmq")

	conn, err := amqp.Dial(rabbitMQURL)
	if err != nil {
		log.Panicf("Failed to connect to RabbitMQ: %s", err)
	}
	return conn
}

// NewRabbitMQChannel opens a channel on the connection or exits the process.
func NewRabbitMQChannel(conn *amqp.Connection) Channel {
	log := logger.NewNamedLogger("rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		log.Panicf("Failed to open a channel: %s", err)
	}
	return NewAmqpChannel(ch)
}
