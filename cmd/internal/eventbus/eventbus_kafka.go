package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"space-traveling/cmd/internal/trace"
	"space-traveling/logger"
)

// KafkaEventBus is an EventBus backed by a confluent-kafka-go producer.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// deliveryTimeout caps how long librdkafka keeps retrying a message
// (its default is five minutes).
const deliveryTimeout = 10 * time.Second

func producerConfig(brokers string) *kafka.ConfigMap {
	cfg := &kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"acks":               "all",
		"retries":            5,
		"message.timeout.ms": int(deliveryTimeout / time.Millisecond),
	}
	if maxBytes := getKafkaMessageMaxBytesFromEnv(); maxBytes > 0 {
		(*cfg)["message.max.bytes"] = maxBytes
	}
	return cfg
}

func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(producerConfig(brokers))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// delivery reports for messages produced without a delivery channel
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("kafka delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: brokers}, nil
}

// Close flushes pending messages for up to five seconds and closes the producer.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("%d kafka messages left after flush", remaining)
	}
	k.Producer.Close()
	logger.Log.Info("kafka producer closed")
}

// Publish writes event to topic and waits for the delivery report.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
		Headers:        messageHeaders(ctx, event),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// messageHeaders lets consumers route on the event type and correlate the
// message with the request that caused it.
func messageHeaders(ctx context.Context, event Event) []kafka.Header {
	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}}
	if id := trace.RequestIDFromContext(ctx); id != "" {
		headers = append(headers, kafka.Header{Key: "X-Request-Id", Value: []byte(id)})
	}
	return headers
}

// EnsureTopic creates topic if it does not exist yet.
func EnsureTopic(ctx context.Context, brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return fmt.Errorf("create kafka admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}})
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("create topic %s: %v", r.Topic, r.Error)
		}
	}
	return nil
}

func getKafkaMessageMaxBytesFromEnv() int {
	raw := os.Getenv("KAFKA_MESSAGE_MAX_BYTES")
	if raw == "" {
		return 0
	}
	maxBytes, err := strconv.Atoi(raw)
	if err != nil {
		logger.Log.Warnf("invalid KAFKA_MESSAGE_MAX_BYTES: %v, using library default", err)
		return 0
	}
	return max(1, maxBytes)
}
