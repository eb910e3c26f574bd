package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer publishes raw messages to a topic.
type Producer interface {
	SendMessage(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer connects to the broker and returns a producer.
func NewKafkaProducer(broker string) (Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	// Fail fast if the broker is unreachable.
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	return &kafkaProducer{writer: writer}, nil
}

func (k *kafkaProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (k *kafkaProducer) Close() error {
	return k.writer.Close()
}
