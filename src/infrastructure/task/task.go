// Package task carries document ids between the upload side and the
// processing worker over the message queue. Delivery is at-least-once; the
// coordinator's status check makes duplicate deliveries harmless.
package task

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"docman/src/log"
)

// TopicDocuments is the queue topic carrying newly uploaded document ids.
const TopicDocuments = "documents"

// DocumentMessage is the single-field queue payload.
type DocumentMessage struct {
	DocumentID int64 `json:"document_id"`
}

// Publisher enqueues one message per document id.
type Publisher struct {
	publisher message.Publisher
}

func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

func (p *Publisher) PublishDocumentID(ctx context.Context, id int64) error {
	payload, err := json.Marshal(DocumentMessage{DocumentID: id})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(TopicDocuments, msg)
}

// Processor runs the ingestion pipeline for one document id.
type Processor interface {
	Process(ctx context.Context, id int64) error
}

// NewProcessHandler returns the queue consumer handler. A malformed payload
// is dropped after logging. Domain failures become a FAILED document status
// inside Process and ack normally; only transient infrastructure errors
// propagate, so the router's retry middleware can take another pass.
func NewProcessHandler(processor Processor) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var m DocumentMessage
		if err := json.Unmarshal(msg.Payload, &m); err != nil {
			log.Error(err, "dropping malformed document message", "message_id", msg.UUID)
			return nil
		}

		log.Info("received document message", "document_id", m.DocumentID)
		return processor.Process(msg.Context(), m.DocumentID)
	}
}
