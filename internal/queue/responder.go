package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/pkg/constants"
	"github.com/codearena/judge-worker/pkg/messages"
)

// Responder publishes progress updates and terminal responses back to the
// platform. Progress always goes to the fixed progress queue; responses go
// to the reply-to queue named in the originating message.
type Responder interface {
	Publish(queueName string, msg amqp.Publishing) error
	PublishProgress(jobID, matchID string, progress int, stage string)
	PublishJudgedRespond(messageID, replyTo string, judged messages.JudgedMessage) error
	PublishStatusRespond(messageID, replyTo string, statusMap map[string]interface{}) error
	PublishErrorToResponseQueue(messageType, messageID, replyTo string, err error)
}

type responder struct {
	logger            *zap.SugaredLogger
	channel           Channel
	progressQueueName string
}

func NewResponder(channel Channel, progressQueueName string) Responder {
	return &responder{
		logger:            logger.NewNamedLogger("responder"),
		channel:           channel,
		progressQueueName: progressQueueName,
	}
}

func (r *responder) Publish(queueName string, msg amqp.Publishing) error {
	return r.channel.Publish("", queueName, false, false, msg)
}

// PublishProgress is best effort; a lost progress update only delays the
// next milestone on the platform side.
func (r *responder) PublishProgress(jobID, matchID string, progress int, stage string) {
	body, err := json.Marshal(messages.ProgressMessage{
		JobID:    jobID,
		MatchID:  matchID,
		Progress: progress,
		Stage:    stage,
	})
	if err != nil {
		r.logger.Errorf("Failed to marshal progress message: %s", err)
		return
	}

	err = r.Publish(r.progressQueueName, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: jobID,
		Body:          body,
	})
	if err != nil {
		r.logger.Errorf("Failed to publish progress for job %s: %s", jobID, err)
	}
}

func (r *responder) PublishJudgedRespond(messageID, replyTo string, judged messages.JudgedMessage) error {
	payload, err := json.Marshal(judged)
	if err != nil {
		return err
	}
	return r.publishRespondMessage(constants.QueueMessageTypeJudge, messageID, replyTo, payload)
}

func (r *responder) PublishStatusRespond(messageID, replyTo string, statusMap map[string]interface{}) error {
	payload, err := json.Marshal(statusMap)
	if err != nil {
		return err
	}
	return r.publishRespondMessage(constants.QueueMessageTypeStatus, messageID, replyTo, payload)
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, replyTo string, err error) {
	errorPayload := map[string]string{"error": err.Error()}
	payload, jsonErr := json.Marshal(errorPayload)
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	queueMessage := messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        false,
		Payload:   payload,
	}

	responseJSON, jsonErr := json.Marshal(queueMessage)
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal response message: %s", jsonErr)
		return
	}

	publishErr := r.Publish(replyTo, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
	if publishErr != nil {
		r.logger.Errorf("Failed to publish error message %s: %s", messageID, publishErr)
		return
	}

	r.logger.Infof("Published error response for message %s", messageID)
}

func (r *responder) publishRespondMessage(messageType, messageID, replyTo string, payload []byte) error {
	queueMessage := messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        true,
		Payload:   payload,
	}

	responseJSON, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	return r.Publish(replyTo, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
}
