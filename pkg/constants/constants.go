package constants

// Queue message types.
const (
	QueueMessageTypeJudge    = "judge"
	QueueMessageTypeStatus   = "status"
	QueueMessageTypeProgress = "progress"
)

// JudgementRun statuses. Transitions are one-directional:
// queued -> running -> {success, failed}.
const (
	RunStatusQueued  = "queued"
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Aggregate judging states reported per match over the status queue.
const (
	MatchStatusPending   = "pending"
	MatchStatusRunning   = "running"
	MatchStatusCompleted = "completed"
	MatchStatusFailed    = "failed"
)

// Exit codes surfaced by sandbox execution.
const (
	ExitCodeSuccess         = 0
	ExitCodeTimeout         = 124
	ExitCodeCommandNotFound = 127
	ExitCodeOOMKilled       = 137
)

// Configuration defaults.
const (
	DefaultRabbitmqHost     = "localhost"
	DefaultRabbitmqUser     = "guest"
	DefaultRabbitmqPassword = "guest"
	DefaultRabbitmqPort     = "5672"

	DefaultJudgeQueueName    = "judging_jobs"
	DefaultProgressQueueName = "judging_progress"
	DefaultLedgerQueueName   = "credit_holds"

	DefaultDatabaseHost     = "localhost"
	DefaultDatabasePort     = "5432"
	DefaultDatabaseUser     = "judge"
	DefaultDatabasePassword = "judge"
	DefaultDatabaseName     = "judge"
	DefaultDatabaseSSLMode  = "disable"

	DefaultMinioEndpoint  = "localhost:9000"
	DefaultMinioAccessKey = "minioadmin"
	DefaultMinioSecretKey = "minioadmin"
	DefaultArtifactBucket = "artifacts"
	DefaultLogsBucket     = "judge-logs"

	DefaultJudgeVersion = "dev"

	DefaultMaxWorkers          = 2
	DefaultJobStartsPerMin     = 10
	DefaultMaxJobAttempts      = 3
	DefaultInitialBackoffMs    = 1000
	DefaultRetentionSweepMins  = 60
	RabbitMQMaxPriority        = 3
	RabbitMQRequeuePriority    = 2
)

// Sandbox defaults. Resource flags are fixed at session creation and can
// not be changed afterward.
const (
	DefaultSandboxCPUs         = 2.0
	DefaultSandboxMemoryBytes  = int64(4) * 1024 * 1024 * 1024
	DefaultSandboxTimeoutSec   = 600
	DefaultCheckTimeoutSec     = 60
	SandboxPidsLimit           = int64(100)
	SandboxWorkspaceSizeBytes  = int64(100) * 1024 * 1024
	SandboxWorkspacePath       = "/workspace"
	SandboxArtifactMountPath   = "/artifact"
	ImagePullTimeoutSec        = 300
	MaxCapturedOutputBytes     = 10 * 1024
	SandboxDestroyTimeoutSec   = 10
	SandboxCommandGraceSeconds = 5
)

// Retention windows for terminal runs.
const (
	CompletedRunRetentionHours = 24
	FailedRunRetentionHours    = 7 * 24
)

// Progress milestones reported over the progress queue.
const (
	ProgressStarted        = 10
	ProgressResolved       = 20
	ProgressSandboxReady   = 30
	ProgressBuildFinished  = 50
	ProgressChecksFinished = 80
	ProgressDone           = 100
)
