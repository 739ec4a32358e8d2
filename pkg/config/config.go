package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	OTP           OTPConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HEARTHHIDE_APP_ENV" required:"true"`
	Port         string `envconfig:"HEARTHHIDE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HEARTHHIDE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HEARTHHIDE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HEARTHHIDE_DB_DSN"`
	Driver string `envconfig:"HEARTHHIDE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HEARTHHIDE_DB_HOST"`
	LegacyPort     int    `envconfig:"HEARTHHIDE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HEARTHHIDE_DB_USER"`
	LegacyPassword string `envconfig:"HEARTHHIDE_DB_PASSWORD"`
	LegacyName     string `envconfig:"HEARTHHIDE_DB_NAME"`
	LegacySSLMode  string `envconfig:"HEARTHHIDE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HEARTHHIDE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HEARTHHIDE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HEARTHHIDE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HEARTHHIDE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HEARTHHIDE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HEARTHHIDE_REDIS_ADDR"`
	Password     string        `envconfig:"HEARTHHIDE_REDIS_PASSWORD"`
	DB           int           `envconfig:"HEARTHHIDE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HEARTHHIDE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HEARTHHIDE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HEARTHHIDE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HEARTHHIDE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HEARTHHIDE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HEARTHHIDE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HEARTHHIDE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HEARTHHIDE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"HEARTHHIDE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HEARTHHIDE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HEARTHHIDE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HEARTHHIDE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HEARTHHIDE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HEARTHHIDE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow       time.Duration `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPEmailLimit   int           `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_OTP_EMAIL_LIMIT" default:"3"`
	OTPIPLimit      int           `envconfig:"HEARTHHIDE_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HEARTHHIDE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HEARTHHIDE_AUTO_MIGRATE" default:"false"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"HEARTHHIDE_OTP_TTL" default:"10m"`
	MaxAttempts int           `envconfig:"HEARTHHIDE_OTP_MAX_ATTEMPTS" default:"5"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"HEARTHHIDE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"HEARTHHIDE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"HEARTHHIDE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"HEARTHHIDE_PUBSUB_DOMAIN_TOPIC" default:"hh-domain-events"`
	DomainSubscription string `envconfig:"HEARTHHIDE_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"HEARTHHIDE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"HEARTHHIDE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"HEARTHHIDE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
