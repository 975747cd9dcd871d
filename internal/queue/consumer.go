package queue

import (
	"encoding/json"
	e "errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
	"github.com/codearena/judge-worker/pkg/messages"
)

type Consumer interface {
	Listen()
}

type consumer struct {
	channel        Channel
	judgeQueueName string
	manager        Manager
	responder      Responder
	logger         *zap.SugaredLogger
}

func NewConsumer(
	channel Channel,
	judgeQueueName string,
	manager Manager,
	responder Responder,
) Consumer {
	return &consumer{
		channel:        channel,
		judgeQueueName: judgeQueueName,
		manager:        manager,
		responder:      responder,
		logger:         logger.NewNamedLogger("consumer"),
	}
}

func (c *consumer) Listen() {
	c.logger.Infof("Declaring queue %s", c.judgeQueueName)

	args := make(amqp.Table)
	args["x-max-priority"] = constants.RabbitMQMaxPriority
	_, err := c.channel.QueueDeclare(c.judgeQueueName, true, false, false, false, args)
	if err != nil {
		c.logger.Panicf("Failed to declare queue %s: %s", c.judgeQueueName, err)
	}

	c.logger.Infof("Listening for messages on queue %s", c.judgeQueueName)

	msgs, err := c.channel.Consume(c.judgeQueueName, "", true, false, false, false, nil)
	if err != nil {
		c.logger.Panicf("Failed to consume messages from queue %s: %s", c.judgeQueueName, err)
	}

	for msg := range msgs {
		c.processMessage(msg)
	}
}

func (c *consumer) processMessage(msg amqp.Delivery) {
	var queueMessage messages.QueueMessage
	if err := json.Unmarshal(msg.Body, &queueMessage); err != nil {
		c.logger.Errorf("Failed to unmarshal message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, msg.ReplyTo, err)
		return
	}

	switch queueMessage.Type {
	case constants.QueueMessageTypeJudge:
		c.logger.Infof("Received judge message: %s", queueMessage.MessageID)
		c.handleJudgeMessage(queueMessage, msg.ReplyTo)
	case constants.QueueMessageTypeStatus:
		c.logger.Infof("Received status message: %s", queueMessage.MessageID)
		c.handleStatusMessage(queueMessage, msg.ReplyTo)
	default:
		c.logger.Errorf("Unknown message type: %s", queueMessage.Type)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			msg.ReplyTo,
			pkgerrors.ErrUnknownMessageType)
	}
}

func (c *consumer) handleJudgeMessage(queueMessage messages.QueueMessage, replyTo string) {
	var jobMessage messages.JudgeJobMessage
	if err := json.Unmarshal(queueMessage.Payload, &jobMessage); err != nil {
		c.logger.Errorf("Failed to unmarshal judge message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
		return
	}

	jobID := queueMessage.MessageID
	if jobID == "" {
		jobID = JobIDFor(jobMessage.SubmissionID)
	}
	job := &JobContext{
		JobID:        jobID,
		MatchID:      jobMessage.MatchID,
		SubmissionID: jobMessage.SubmissionID,
		ReplyTo:      replyTo,
		Attempt:      jobMessage.Attempt,
		EnqueuedAt:   time.Now(),
	}

	err := c.manager.StartJudging(job)
	if err == nil {
		return
	}

	if e.Is(err, pkgerrors.ErrNoFreeWorker) {
		if requeueErr := c.requeueWithPriority(queueMessage, replyTo); requeueErr != nil {
			c.logger.Errorf("Failed to requeue job %s: %s", jobID, requeueErr)
		}
		return
	}
	if e.Is(err, pkgerrors.ErrJobAlreadyActive) {
		c.logger.Infof("Job %s already running, dropping duplicate", jobID)
		return
	}

	c.logger.Errorf("Failed to start job %s: %s", jobID, err)
	c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
}

func (c *consumer) handleStatusMessage(queueMessage messages.QueueMessage, replyTo string) {
	var statusRequest messages.StatusRequestMessage
	if len(queueMessage.Payload) > 0 {
		if err := json.Unmarshal(queueMessage.Payload, &statusRequest); err != nil {
			c.logger.Errorf("Failed to unmarshal status message: %s", err)
			c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
			return
		}
	}

	status := c.manager.GetJudgingStatus(statusRequest.MatchID)
	if err := c.responder.PublishStatusRespond(queueMessage.MessageID, replyTo, status); err != nil {
		c.logger.Errorf("Failed to publish status response: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
	}
}

// requeueWithPriority puts the job back with elevated priority so it is
// picked up ahead of newly enqueued work once a worker frees up.
func (c *consumer) requeueWithPriority(queueMessage messages.QueueMessage, replyTo string) error {
	body, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	return c.channel.Publish("", c.judgeQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: queueMessage.MessageID,
		ReplyTo:       replyTo,
		Body:          body,
		Priority:      uint8(constants.RabbitMQRequeuePriority),
	})
}
