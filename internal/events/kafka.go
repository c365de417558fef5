package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher produces JSON notifications to Kafka. Produce is synchronous
// so the caller observes the failure, but the caller treats it as best-effort.
type KafkaPublisher struct {
	client *kgo.Client
}

// NewKafkaPublisher connects to the brokers and ensures the pipeline's topics
// exist.
func NewKafkaPublisher(ctx context.Context, brokers []string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := ensureTopics(ctx, client, TopicFarmOnboarded, TopicOracleObserved); err != nil {
		client.Close()
		return nil, err
	}
	return &KafkaPublisher{client: client}, nil
}

// ensureTopics creates the topics if absent. Already-exists responses are
// fine: another instance won the race.
func ensureTopics(ctx context.Context, client *kgo.Client, topics ...string) error {
	adm := kadm.NewClient(client)
	resps, err := adm.CreateTopics(ctx, 1, 1, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, resp := range resps.Sorted() {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}
	return nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload any, correlationID string) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	record := &kgo.Record{
		Topic: topic,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "correlation-id", Value: []byte(correlationID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
