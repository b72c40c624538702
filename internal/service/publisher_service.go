package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService publishes domain events to the in-process event bus.
// Payloads are JSON-encoded event DTOs; subscribers fan them out to
// websocket clients.
type IPublisherService interface {
	Publish(ctx context.Context, topic string, event any) error
}

type publisherService struct {
	pubSub *gochannel.GoChannel
}

func NewPublisherService(pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{pubSub: pubSub}
}

func (s *publisherService) Publish(_ context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(topic, msg)
}

// noopPublisher drops events; used where no bus is wired (tests).
type noopPublisher struct{}

func NewNoopPublisher() IPublisherService {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, any) error {
	return nil
}
