package service

import (
	"context"
	"encoding/json"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// SessionDelivery pushes a typed message to every connection of a user.
type SessionDelivery interface {
	Send(userID uuid.UUID, msgType string, data interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService forwards session state events to websocket clients.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  SessionDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery SessionDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
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
	// Undecodable messages are acked; redelivery cannot fix them.
	defer msg.Ack()

	var payload dto.SessionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal session event", map[string]interface{}{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.logger.Warn("Consumer", "Session event without a valid user id", map[string]interface{}{"user_id": payload.UserId})
		return
	}

	cs.delivery.Send(userID, "session_state", payload.Snapshot)
}
