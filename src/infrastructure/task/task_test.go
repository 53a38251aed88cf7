package task_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"docman/src/infrastructure/task"
)

type fakeProcessor struct {
	ids []int64
	err error
}

func (f *fakeProcessor) Process(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, id)
	return nil
}

func TestPublishDocumentID(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, nil)
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), task.TopicDocuments)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	pub := task.NewPublisher(pubSub)
	if err := pub.PublishDocumentID(context.Background(), 1234); err != nil {
		t.Fatalf("PublishDocumentID returned error: %v", err)
	}

	msg := <-messages
	msg.Ack()

	var m task.DocumentMessage
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if m.DocumentID != 1234 {
		t.Errorf("document id = %d, want 1234", m.DocumentID)
	}
}

func TestProcessHandlerDispatchesID(t *testing.T) {
	processor := &fakeProcessor{}
	handler := task.NewProcessHandler(processor)

	payload, _ := json.Marshal(task.DocumentMessage{DocumentID: 55})
	if err := handler(message.NewMessage("m1", payload)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if len(processor.ids) != 1 || processor.ids[0] != 55 {
		t.Errorf("processed ids = %v, want [55]", processor.ids)
	}
}

func TestProcessHandlerDropsMalformedPayload(t *testing.T) {
	processor := &fakeProcessor{}
	handler := task.NewProcessHandler(processor)

	if err := handler(message.NewMessage("m2", []byte("not json"))); err != nil {
		t.Errorf("malformed payload must be dropped, not retried: %v", err)
	}
	if len(processor.ids) != 0 {
		t.Error("malformed payload must not reach the processor")
	}
}

func TestProcessHandlerPropagatesInfraErrors(t *testing.T) {
	wantErr := errors.New("database down")
	handler := task.NewProcessHandler(&fakeProcessor{err: wantErr})

	payload, _ := json.Marshal(task.DocumentMessage{DocumentID: 7})
	if err := handler(message.NewMessage("m3", payload)); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want propagated processor error", err)
	}
}
