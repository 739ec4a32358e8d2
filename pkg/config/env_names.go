package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "HEARTHHIDE_APP_ENV"
	EnvPort       = "HEARTHHIDE_APP_PORT"
	EnvDBDSN      = "HEARTHHIDE_DB_DSN"
	EnvDBHost     = "HEARTHHIDE_DB_HOST"
	EnvDBUser     = "HEARTHHIDE_DB_USER"
	EnvDBName     = "HEARTHHIDE_DB_NAME"
	EnvRedisURL   = "HEARTHHIDE_REDIS_URL"
	EnvJWTSecret  = "HEARTHHIDE_JWT_SECRET"
	EnvJWTIssuer  = "HEARTHHIDE_JWT_ISSUER"
	EnvJWTExpMins = "HEARTHHIDE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
