package queue_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/codearena/judge-worker/internal/queue"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
	"github.com/codearena/judge-worker/pkg/messages"
	"github.com/codearena/judge-worker/tests/mocks"
)

func judgeEnvelope(t *testing.T, jobID, submissionID string) []byte {
	t.Helper()
	payload, err := json.Marshal(messages.JudgeJobMessage{MatchID: "match-1", SubmissionID: submissionID})
	if err != nil {
		t.Fatalf("marshal payload: %s", err)
	}
	body, err := json.Marshal(messages.QueueMessage{
		Type:      constants.QueueMessageTypeJudge,
		MessageID: jobID,
		Payload:   payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %s", err)
	}
	return body
}

func TestListen_DispatchesJudgeMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channel := mocks.NewMockChannel(ctrl)
	manager := mocks.NewMockManager(ctrl)
	responder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)

	channel.EXPECT().QueueDeclare(judgeQueue, true, false, false, false, gomock.AssignableToTypeOf(amqp.Table{})).
		Do(func(_ string, _, _, _, _ bool, args amqp.Table) {
			if args["x-max-priority"] != constants.RabbitMQMaxPriority {
				t.Errorf("x-max-priority = %v, want %v", args["x-max-priority"], constants.RabbitMQMaxPriority)
			}
		}).Return(amqp.Queue{Name: judgeQueue}, nil).Times(1)
	channel.EXPECT().Consume(judgeQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	done := make(chan struct{})
	manager.EXPECT().StartJudging(gomock.AssignableToTypeOf(&queue.JobContext{})).
		DoAndReturn(func(job *queue.JobContext) error {
			if job.JobID != "job-1" || job.SubmissionID != "sub-1" || job.ReplyTo != "reply" {
				t.Errorf("unexpected job context: %+v", job)
			}
			close(done)
			return nil
		}).Times(1)

	c := queue.NewConsumer(channel, judgeQueue, manager, responder)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- amqp.Delivery{Body: judgeEnvelope(t, "job-1", "sub-1"), ReplyTo: "reply"}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for StartJudging")
	}

	close(deliveries)
	wg.Wait()
}

func TestListen_RequeuesWhenNoFreeWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channel := mocks.NewMockChannel(ctrl)
	manager := mocks.NewMockManager(ctrl)
	responder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)
	channel.EXPECT().QueueDeclare(judgeQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: judgeQueue}, nil).Times(1)
	channel.EXPECT().Consume(judgeQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	manager.EXPECT().StartJudging(gomock.Any()).Return(pkgerrors.ErrNoFreeWorker).Times(1)

	done := make(chan struct{})
	channel.EXPECT().Publish("", judgeQueue, false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).
		Do(func(_, _ string, _, _ bool, p amqp.Publishing) {
			if p.Priority != uint8(constants.RabbitMQRequeuePriority) {
				t.Errorf("Priority = %d, want %d", p.Priority, constants.RabbitMQRequeuePriority)
			}
			if p.ReplyTo != "reply" {
				t.Errorf("ReplyTo = %q, want reply", p.ReplyTo)
			}
			close(done)
		}).Return(nil).Times(1)

	c := queue.NewConsumer(channel, judgeQueue, manager, responder)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- amqp.Delivery{Body: judgeEnvelope(t, "job-1", "sub-1"), ReplyTo: "reply"}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for requeue")
	}

	close(deliveries)
	wg.Wait()
}

func TestListen_DuplicateJobDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channel := mocks.NewMockChannel(ctrl)
	manager := mocks.NewMockManager(ctrl)
	responder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)
	channel.EXPECT().QueueDeclare(judgeQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: judgeQueue}, nil).Times(1)
	channel.EXPECT().Consume(judgeQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	done := make(chan struct{})
	manager.EXPECT().StartJudging(gomock.Any()).
		DoAndReturn(func(*queue.JobContext) error {
			close(done)
			return pkgerrors.ErrJobAlreadyActive
		}).Times(1)
	// No responder expectations: a duplicate is dropped silently.

	c := queue.NewConsumer(channel, judgeQueue, manager, responder)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- amqp.Delivery{Body: judgeEnvelope(t, "job-1", "sub-1"), ReplyTo: "reply"}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for StartJudging")
	}

	close(deliveries)
	wg.Wait()
}

func TestListen_StatusMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channel := mocks.NewMockChannel(ctrl)
	manager := mocks.NewMockManager(ctrl)
	responder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)
	channel.EXPECT().QueueDeclare(judgeQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: judgeQueue}, nil).Times(1)
	channel.EXPECT().Consume(judgeQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	status := map[string]interface{}{"busy_workers": 0}
	manager.EXPECT().GetJudgingStatus("match-1").Return(status).Times(1)

	done := make(chan struct{})
	responder.EXPECT().PublishStatusRespond("status-1", "reply", status).
		Do(func(_, _ string, _ map[string]interface{}) { close(done) }).Return(nil).Times(1)

	payload, _ := json.Marshal(messages.StatusRequestMessage{MatchID: "match-1"})
	body, _ := json.Marshal(messages.QueueMessage{
		Type:      constants.QueueMessageTypeStatus,
		MessageID: "status-1",
		Payload:   payload,
	})

	c := queue.NewConsumer(channel, judgeQueue, manager, responder)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- amqp.Delivery{Body: body, ReplyTo: "reply"}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status response")
	}

	close(deliveries)
	wg.Wait()
}

func TestListen_UnknownMessageType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channel := mocks.NewMockChannel(ctrl)
	manager := mocks.NewMockManager(ctrl)
	responder := mocks.NewMockResponder(ctrl)

	deliveries := make(chan amqp.Delivery)
	channel.EXPECT().QueueDeclare(judgeQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: judgeQueue}, nil).Times(1)
	channel.EXPECT().Consume(judgeQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	done := make(chan struct{})
	responder.EXPECT().PublishErrorToResponseQueue("bogus", "msg-1", "reply", pkgerrors.ErrUnknownMessageType).
		Do(func(_, _, _ string, _ error) { close(done) }).Times(1)

	body, _ := json.Marshal(messages.QueueMessage{Type: "bogus", MessageID: "msg-1"})

	c := queue.NewConsumer(channel, judgeQueue, manager, responder)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Listen()
	}()

	deliveries <- amqp.Delivery{Body: body, ReplyTo: "reply"}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error response")
	}

	close(deliveries)
	wg.Wait()
}
