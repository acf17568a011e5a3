package nats

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

type MessageSubscriber interface {
	// Subscribe registers handler for subject. Delivery is NATS core
	// at-most-once: messages published while no subscriber is connected
	// are lost, which is the accepted semantics for fan-out here.
	Subscribe(subject string, handler func(data []byte)) (Unsubscriber, error)
}

type Unsubscriber interface {
	Unsubscribe() error
}

type natsSubscriber struct {
	conn *nats.Conn
}

func NewSubscriber(conn *nats.Conn) (MessageSubscriber, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsSubscriber{conn: conn}, nil
}

func (s *natsSubscriber) Subscribe(subject string, handler func(data []byte)) (Unsubscriber, error) {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to NATS subject %s: %w", subject, err)
	}
	return sub, nil
}
