package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Roles carried as verified JWT claims. SchedulingAuthority covers the
// regisseur/planner side; workers respond to their own assignments.
const (
	RoleSchedulingAuthority = "scheduling_authority"
	RoleWorker              = "worker"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Asynq task types
const (
	TaskNotificationDeliver = "notification:deliver"
)
