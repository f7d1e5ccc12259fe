package service

import (
	"context"
	"encoding/json"
	"log"

	"kurum-asistan-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	reportService IReportService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	reportService IReportService,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		reportService: reportService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessReportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing report %d", payload.ReportId)

	if err := cs.reportService.Process(ctx, payload.ReportId); err != nil {
		log.Printf("[ERROR] Failed to process report %d: %v", payload.ReportId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
