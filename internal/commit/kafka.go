package commit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// KafkaNotifier publishes the commit receipt as a JSON event, keyed by
// execution id so all events of one workflow run land in the same partition.
type KafkaNotifier struct {
	topic string
	p     sarama.SyncProducer
}

func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	p, err := sarama.NewSyncProducer(brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("commit: kafka producer: %w", err)
	}
	return &KafkaNotifier{topic: topic, p: p}, nil
}

func (n *KafkaNotifier) Publish(ctx context.Context, r Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, _, err = n.p.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(r.ExecutionID),
		Value: sarama.ByteEncoder(body),
	})
	return err
}

func (n *KafkaNotifier) Close() error {
	return n.p.Close()
}
