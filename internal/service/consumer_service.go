package service

import (
	"context"
	"encoding/json"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService listens for document change messages and marks the index
// stale so the next question re-runs the freshness check.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	indexSvc  IIndexService
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	indexSvc IIndexService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		indexSvc:  indexSvc,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.DocumentChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ConsumerService", "failed to unmarshal document change message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.indexSvc.MarkStale()
	cs.log.Info("ConsumerService", "index marked stale", map[string]interface{}{
		"event_type": payload.EventType,
		"file_name":  payload.FileName,
	})
	msg.Ack()
}
