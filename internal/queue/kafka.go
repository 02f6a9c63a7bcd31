package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var _ SegmentQueue = (*KafkaSegmentQueue)(nil)

// KafkaSegmentQueue publishes segment changes to a kafka topic. Delivery is
// fire-and-forget, the engine's transaction already committed when the event
// goes out.
type KafkaSegmentQueue struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSegmentQueue(brokers string) (*KafkaSegmentQueue, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	return &KafkaSegmentQueue{
		producer: producer,
		topic:    SegmentChangeTopic,
	}, nil
}

func (q *KafkaSegmentQueue) PublishChange(ctx context.Context, change *SegmentChange) error {
	value, err := json.Marshal(change)
	if err != nil {
		return err
	}

	return q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(change.SegmentID),
		Value:          value,
	}, nil)
}

func (q *KafkaSegmentQueue) Close() error {
	q.producer.Flush(1000)
	q.producer.Close()
	return nil
}
