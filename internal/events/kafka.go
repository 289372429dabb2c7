package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// KafkaPublisher publishes events to a single Kafka topic via a synchronous
// producer. Send failures are logged and dropped; the notification sink is
// not part of any request's success criteria.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	lg       *zap.Logger
}

// NewKafkaPublisher connects a synchronous producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, lg *zap.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "start producer")
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		lg:       lg,
	}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		p.lg.Error("marshal event", zap.String("kind", e.Kind), zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.Kind),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.lg.Error("publish event", zap.String("kind", e.Kind), zap.Error(err))
	}
}

// Close shuts down the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
