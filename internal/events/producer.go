package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"foodlink/internal/model"
)

const (
	TopicUserRegistered   = "user.registered"
	TopicDonationCreated  = "donation.created"
	TopicDonationAccepted = "donation.accepted"
)

// Producer publishes domain events to Kafka. A nil Producer, or one built
// with no brokers, drops events silently; publishing failures are logged and
// never surfaced to the request path.
type Producer struct {
	producer sarama.SyncProducer
}

// NewProducer connects a sync producer to the given brokers. With no brokers
// configured the producer is disabled rather than an error.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return &Producer{}, nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &Producer{producer: producer}, nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// UserRegistered publishes a registration event. The password hash never
// appears in the payload; the user model excludes it from JSON.
func (p *Producer) UserRegistered(user *model.User) {
	p.publish(TopicUserRegistered, map[string]interface{}{
		"event_type": "user_registered",
		"user_id":    user.ID,
		"email":      user.Email,
		"role":       user.Role,
	})
}

// DonationCreated publishes a donation creation event.
func (p *Producer) DonationCreated(donation *model.Donation) {
	p.publish(TopicDonationCreated, map[string]interface{}{
		"event_type":  "donation_created",
		"donation_id": donation.ID,
		"donor_id":    donation.DonorID,
		"title":       donation.Title,
	})
}

// DonationAccepted publishes a donation acceptance event.
func (p *Producer) DonationAccepted(donation *model.Donation) {
	p.publish(TopicDonationAccepted, map[string]interface{}{
		"event_type":  "donation_accepted",
		"donation_id": donation.ID,
		"donor_id":    donation.DonorID,
		"donee_id":    donation.DoneeID,
	})
}

func (p *Producer) publish(topic string, payload interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal %s: %v", topic, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("events: publish %s: %v", topic, err)
	}
}
