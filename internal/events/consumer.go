package events

import (
	"encoding/json"
	"io"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer subscribes to the booking.* routing keys on ExchangeName and appends a
// structured line per event to an audit log writer, reconnecting on
// connection loss exactly like the teacher's queue.Consumer loop.
type Consumer struct {
	amqpURL string
	out     io.Writer
	stop    chan struct{}
}

func NewConsumer(amqpURL string, out io.Writer) *Consumer {
	return &Consumer{amqpURL: amqpURL, out: out, stop: make(chan struct{})}
}

// Run blocks, reconnecting with backoff until Stop is called.
func (c *Consumer) Run() {
	for {
		select {
		case <-c.stop:
			return
		default:
		}
		if err := c.runOnce(); err != nil {
			log.Printf("events: consumer disconnected: %v", err)
		}
		select {
		case <-c.stop:
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) Stop() { close(c.stop) }

func (c *Consumer) runOnce() error {
	conn, err := amqp.Dial(c.amqpURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	q, err := ch.QueueDeclare("railway.audit", true, false, false, false, nil)
	if err != nil {
		return err
	}
	if err := ch.QueueBind(q.Name, "booking.*", ExchangeName, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(q.Name, "railway-audit-consumer", true, false, false, false, nil)
	if err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-c.stop:
			return nil
		case err := <-closed:
			if err != nil {
				return err
			}
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(d)
		}
	}
}

func (c *Consumer) handle(d amqp.Delivery) {
	var p Payload
	if err := json.Unmarshal(d.Body, &p); err != nil {
		log.Printf("events: dropping malformed audit message: %v", err)
		return
	}
	line, err := json.Marshal(struct {
		Payload
		LoggedAt time.Time `json:"logged_at"`
	}{Payload: p, LoggedAt: time.Now()})
	if err != nil {
		return
	}
	if _, err := c.out.Write(append(line, '\n')); err != nil {
		log.Printf("events: audit write failed: %v", err)
	}
}
