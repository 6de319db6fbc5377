package kafkanotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
)

// Config параметры продюсера
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
	Timeout  time.Duration
	RetryMax int
}

// Client публикует уведомления о бронированиях в Kafka.
// Ключ сообщения = ID заказа, поэтому события одного заказа попадают в одну партицию.
type Client struct {
	producer sarama.SyncProducer
	topic    string
	log      Logger
}

// NewClient подключается к брокерам и создает синхронного продюсера
func NewClient(cfg Config, log Logger) (*Client, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = cfg.ClientID
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Idempotent = true
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Producer.Retry.Max = cfg.RetryMax
	saramaCfg.Producer.Partitioner = sarama.NewHashPartitioner
	saramaCfg.Net.MaxOpenRequests = 1
	if cfg.Timeout > 0 {
		saramaCfg.Producer.Timeout = cfg.Timeout
		saramaCfg.Net.DialTimeout = cfg.Timeout
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create producer: %v", ErrInternal, err)
	}

	return NewClientWithProducer(producer, cfg.Topic, log), nil
}

// NewClientWithProducer оборачивает готового продюсера (используется в тестах с sarama/mocks)
func NewClientWithProducer(producer sarama.SyncProducer, topic string, log Logger) *Client {
	return &Client{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// Notify публикует уведомление. SyncProducer не принимает контекст,
// поэтому отмена проверяется только перед отправкой.
func (c *Client) Notify(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal message: %v", ErrInternal, err)
	}

	producerMsg := &sarama.ProducerMessage{
		Topic: c.topic,
		Key:   sarama.StringEncoder(msg.CommitmentID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte(msg.Event)},
			{Key: []byte("message_id"), Value: []byte(uuid.NewString())},
		},
	}

	partition, offset, err := c.producer.SendMessage(producerMsg)
	if err != nil {
		return fmt.Errorf("%w: topic=%s: %v", ErrPublish, c.topic, err)
	}

	c.log.Info("Published %s for commitment=%s to %s[%d]@%d", msg.Event, msg.CommitmentID, c.topic, partition, offset)
	return nil
}

// Close закрывает продюсера
func (c *Client) Close() error {
	if c.producer == nil {
		return nil
	}
	return c.producer.Close()
}
