package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/pkg/constants"
)

type Config struct {
	RabbitMQURL       string
	JudgeQueueName    string
	ProgressQueueName string
	LedgerQueueName   string

	DatabaseDSN string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ArtifactBucket string
	LogsBucket     string

	JudgeVersion      string
	MaxWorkers        int
	JobStartsPerMin   int
	MaxJobAttempts    int
	InitialBackoffMs  int
	RetentionSweepMin int
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") != "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	rabbitmqURL := rabbitmqConfig()
	judgeQueue, progressQueue, ledgerQueue := queueConfig()
	databaseDSN := databaseConfig()
	minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL, artifactBucket, logsBucket := minioConfig()
	judgeVersion, maxWorkers, jobStartsPerMin, maxAttempts, initialBackoffMs, retentionSweepMin := judgeConfig()

	return &Config{
		RabbitMQURL:       rabbitmqURL,
		JudgeQueueName:    judgeQueue,
		ProgressQueueName: progressQueue,
		LedgerQueueName:   ledgerQueue,
		DatabaseDSN:       databaseDSN,
		MinioEndpoint:     minioEndpoint,
		MinioAccessKey:    minioAccessKey,
		MinioSecretKey:    minioSecretKey,
		MinioUseSSL:       minioUseSSL,
		ArtifactBucket:    artifactBucket,
		LogsBucket:        logsBucket,
		JudgeVersion:      judgeVersion,
		MaxWorkers:        maxWorkers,
		JobStartsPerMin:   jobStartsPerMin,
		MaxJobAttempts:    maxAttempts,
		InitialBackoffMs:  initialBackoffMs,
		RetentionSweepMin: retentionSweepMin,
	}
}

func envOrDefault(key, fallback string) string {
	logger := logger.NewNamedLogger("config")

	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set, using default value %s", key, fallback)
		return fallback
	}
	return value
}

func envIntOrDefault(key string, fallback int) int {
	logger := logger.NewNamedLogger("config")

	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set, using default value %d", key, fallback)
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return parsed
}

func rabbitmqConfig() string {
	logger := logger.NewNamedLogger("config")

	rabbitmqHost := envOrDefault("RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	rabbitmqPortStr := envOrDefault("RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := envOrDefault("RABBITMQ_USER", constants.DefaultRabbitmqUser)
	rabbitmqPassword := envOrDefault("RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)

	return fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)
}

func queueConfig() (string, string, string) {
	judgeQueue := envOrDefault("JUDGE_QUEUE_NAME", constants.DefaultJudgeQueueName)
	progressQueue := envOrDefault("PROGRESS_QUEUE_NAME", constants.DefaultProgressQueueName)
	ledgerQueue := envOrDefault("LEDGER_QUEUE_NAME", constants.DefaultLedgerQueueName)
	return judgeQueue, progressQueue, ledgerQueue
}

func databaseConfig() string {
	logger := logger.NewNamedLogger("config")

	host := envOrDefault("DATABASE_HOST", constants.DefaultDatabaseHost)
	portStr := envOrDefault("DATABASE_PORT", constants.DefaultDatabasePort)
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse DATABASE_PORT with error: %v", err)
	}
	user := envOrDefault("DATABASE_USER", constants.DefaultDatabaseUser)
	password := envOrDefault("DATABASE_PASSWORD", constants.DefaultDatabasePassword)
	name := envOrDefault("DATABASE_NAME", constants.DefaultDatabaseName)
	sslMode := envOrDefault("DATABASE_SSLMODE", constants.DefaultDatabaseSSLMode)

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode)
}

func minioConfig() (string, string, string, bool, string, string) {
	logger := logger.NewNamedLogger("config")

	endpoint := envOrDefault("MINIO_ENDPOINT", constants.DefaultMinioEndpoint)
	accessKey := envOrDefault("MINIO_ACCESS_KEY", constants.DefaultMinioAccessKey)
	secretKey := envOrDefault("MINIO_SECRET_KEY", constants.DefaultMinioSecretKey)

	useSSL := false
	useSSLStr := os.Getenv("MINIO_USE_SSL")
	if useSSLStr != "" {
		var err error
		useSSL, err = strconv.ParseBool(useSSLStr)
		if err != nil {
			logger.Fatalf("failed to parse MINIO_USE_SSL with error: %v", err)
		}
	}

	artifactBucket := envOrDefault("ARTIFACT_BUCKET", constants.DefaultArtifactBucket)
	logsBucket := envOrDefault("LOGS_BUCKET", constants.DefaultLogsBucket)

	return endpoint, accessKey, secretKey, useSSL, artifactBucket, logsBucket
}

func judgeConfig() (string, int, int, int, int, int) {
	judgeVersion := envOrDefault("JUDGE_VERSION", constants.DefaultJudgeVersion)
	maxWorkers := envIntOrDefault("MAX_WORKERS", constants.DefaultMaxWorkers)
	jobStartsPerMin := envIntOrDefault("JOB_STARTS_PER_MIN", constants.DefaultJobStartsPerMin)
	maxAttempts := envIntOrDefault("MAX_JOB_ATTEMPTS", constants.DefaultMaxJobAttempts)
	initialBackoffMs := envIntOrDefault("INITIAL_BACKOFF_MS", constants.DefaultInitialBackoffMs)
	retentionSweepMin := envIntOrDefault("RETENTION_SWEEP_MINUTES", constants.DefaultRetentionSweepMins)

	return judgeVersion, maxWorkers, jobStartsPerMin, maxAttempts, initialBackoffMs, retentionSweepMin
}
