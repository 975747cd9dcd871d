package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codearena/judge-worker/internal/artifact"
	"github.com/codearena/judge-worker/internal/config"
	"github.com/codearena/judge-worker/internal/judge"
	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/internal/queue"
	"github.com/codearena/judge-worker/internal/sandbox"
	"github.com/codearena/judge-worker/internal/store"
)

func main() {
	log := logger.NewNamedLogger("main")

	log.Info("Starting judge worker")

	cfg := config.NewConfig()

	db, err := store.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}
	runs := store.NewRunStore(db)
	submissions := store.NewSubmissionStore(db)

	artifacts, err := artifact.NewMinioStore(artifact.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.ArtifactBucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %s", err)
	}
	logs, err := artifact.NewMinioStore(artifact.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.LogsBucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize log store: %s", err)
	}
	rubrics := artifact.NewRubricSource(artifacts, "rubrics")

	engine, err := sandbox.NewDockerEngine()
	if err != nil {
		log.Fatalf("Failed to initialize container engine: %s", err)
	}
	runtime := sandbox.NewRuntime(engine)

	resolver := judge.NewStoreResolver(submissions)
	orchestrator := judge.NewOrchestrator(
		resolver,
		rubrics,
		artifacts,
		logs,
		runtime,
		runs,
		cfg.JudgeVersion)

	conn := queue.NewRabbitMqConnection(cfg.RabbitMQURL)
	// The shutdown goroutine below closes the connection first; this is
	// the backstop for Listen returning on its own.
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			log.Errorf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	channel := queue.NewRabbitMQChannel(conn)
	responder := queue.NewResponder(channel, cfg.ProgressQueueName)
	ledger := queue.NewAmqpLedger(channel, cfg.LedgerQueueName)
	manager := queue.NewManager(
		channel,
		cfg.JudgeQueueName,
		orchestrator,
		runs,
		ledger,
		responder,
		cfg.MaxWorkers,
		cfg.JobStartsPerMin,
		cfg.MaxJobAttempts,
		cfg.InitialBackoffMs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager.StartRetentionSweep(ctx, time.Duration(cfg.RetentionSweepMin)*time.Minute)

	// Closing the connection on shutdown drains the delivery channel and
	// lets Listen return.
	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := conn.Close(); err != nil {
			log.Errorf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	log.Info("Listening for judging jobs")
	consumer := queue.NewConsumer(channel, cfg.JudgeQueueName, manager, responder)
	consumer.Listen()
}
