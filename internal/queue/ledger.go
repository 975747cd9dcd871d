package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/logger"
)

// Ledger settles the platform-credit hold taken when a judging job was
// accepted. The manager calls exactly one of the two methods per job:
// ConsumeHold after a successful run, ReleaseHold when the job is given
// up on.
type Ledger interface {
	ConsumeHold(jobID string) error
	ReleaseHold(jobID string) error
}

// LedgerMessage is the settlement event published to the ledger queue.
type LedgerMessage struct {
	JobID  string `json:"job_id"`
	Action string `json:"action"` // "consume" or "release"
}

const (
	ledgerActionConsume = "consume"
	ledgerActionRelease = "release"
)

type amqpLedger struct {
	channel         Channel
	ledgerQueueName string
	logger          *zap.SugaredLogger
}

// NewAmqpLedger publishes hold settlements to the platform's ledger queue.
func NewAmqpLedger(channel Channel, ledgerQueueName string) Ledger {
	return &amqpLedger{
		channel:         channel,
		ledgerQueueName: ledgerQueueName,
		logger:          logger.NewNamedLogger("ledger"),
	}
}

func (l *amqpLedger) ConsumeHold(jobID string) error {
	return l.publish(LedgerMessage{JobID: jobID, Action: ledgerActionConsume})
}

func (l *amqpLedger) ReleaseHold(jobID string) error {
	return l.publish(LedgerMessage{JobID: jobID, Action: ledgerActionRelease})
}

func (l *amqpLedger) publish(msg LedgerMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	err = l.channel.Publish("", l.ledgerQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: msg.JobID,
		Body:          body,
	})
	if err != nil {
		l.logger.Errorf("Failed to publish %s for job %s: %s", msg.Action, msg.JobID, err)
		return err
	}
	return nil
}
