package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	SendMessage(ctx context.Context, key string, message interface{}) error
	Close() error
}

type Config struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns a Kafka backed producer, or a log-only one when Kafka
// is disabled or the first broker cannot be reached.
func NewProducer(cfg Config) Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logrus.Info("Kafka disabled, compose events go to the log only")
		return &logProducer{topic: cfg.Topic}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		logrus.WithError(err).Warn("Kafka connection failed, using log producer instead")
		return &logProducer{topic: cfg.Topic}
	}
	defer conn.Close()

	// Создаем топик если не существует
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Debugf("Could not create topic %s (might already exist)", cfg.Topic)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logrus.WithError(err).Errorf("Failed to deliver %d compose events", len(messages))
			}
		},
	}

	logrus.WithField("brokers", cfg.Brokers).Infof("Kafka producer configured for topic %s", cfg.Topic)
	return &kafkaProducer{writer: writer, topic: cfg.Topic}
}

func (p *kafkaProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: messageBytes,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.WithError(err).Errorf("Failed to write message to topic %s", p.topic)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// logProducer для работы без Kafka
type logProducer struct {
	topic string
}

func (p *logProducer) SendMessage(_ context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"topic": p.topic,
		"key":   key,
		"event": string(messageBytes),
	}).Debug("compose event")
	return nil
}

func (p *logProducer) Close() error {
	return nil
}
