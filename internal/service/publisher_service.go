package service

import (
	"encoding/json"
	"fmt"

	"ta-chatbot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	DocumentChangePublisher
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) PublishDocumentChanged(eventType, fileName string) error {
	payload, err := json.Marshal(dto.DocumentChangedMessage{
		EventType: eventType,
		FileName:  fileName,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document change message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("message_id", uuid.NewString())
	return p.pubSub.Publish(p.topicName, msg)
}
