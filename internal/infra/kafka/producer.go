package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/config"
)

// Producer wraps a sarama async producer. Delivery is fire-and-forget:
// broker errors are drained and logged, never surfaced to the request that
// emitted the event.
type Producer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
	topicPfx string
	done     chan struct{}
}

// NewProducer connects an async producer to the configured brokers.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V3_5_0_0
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Flush.Messages = 100
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true
	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		logger:   logger,
		topicPfx: cfg.TopicPrefix,
		done:     make(chan struct{}),
	}
	go p.drainErrors()

	logger.Info("kafka producer connected",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
	)
	return p, nil
}

func (p *Producer) drainErrors() {
	for {
		select {
		case err, ok := <-p.producer.Errors():
			if !ok {
				return
			}
			p.logger.Error("kafka delivery failed",
				zap.String("topic", err.Msg.Topic),
				zap.Error(err.Err),
			)
		case <-p.done:
			return
		}
	}
}

// Producer exposes the underlying async producer for message submission.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.producer
}

// TopicName prefixes the event type with the configured topic namespace.
func (p *Producer) TopicName(eventType string) string {
	if p.topicPfx == "" || strings.HasPrefix(eventType, p.topicPfx+".") {
		return eventType
	}
	return p.topicPfx + "." + eventType
}

// Close flushes pending messages and shuts the producer down.
func (p *Producer) Close() error {
	close(p.done)
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
