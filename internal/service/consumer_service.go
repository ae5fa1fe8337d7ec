package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/repository/specification"
	"collab-docs-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the revision worker. Every saved-document message
// snapshots the persisted content into the revision table.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
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
	var payload dto.DocumentSavedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal saved-document message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Retriable
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document not found for revision snapshot: %s", payload.DocumentId)
		msg.Ack() // Deleted meanwhile? Ack.
		return
	}

	// Skip when nothing changed since the previous snapshot.
	latest, err := uow.DocumentRevisionRepository().FindOne(ctx,
		specification.ByDocumentID{DocumentID: payload.DocumentId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err == nil && latest != nil && latest.Content == doc.Content {
		msg.Ack()
		return
	}

	rev := entity.DocumentRevision{
		Id:         uuid.New(),
		DocumentId: doc.Id,
		Content:    doc.Content,
		CreatedAt:  time.Now(),
	}
	if err := uow.DocumentRevisionRepository().Create(ctx, &rev); err != nil {
		log.Printf("[ERROR] Failed to create revision for %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
