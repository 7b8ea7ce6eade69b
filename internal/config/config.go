package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envCORSAllowedOrigins    = "CORS_ALLOWED_ORIGINS"
	envCookieSecure          = "COOKIE_SECURE"
	envEnableProfiling       = "ENABLE_PROFILING"
	envStoreDriver           = "STORE_DRIVER"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envS3Endpoint            = "S3_ENDPOINT"
	envS3Region              = "S3_REGION"
	envS3AccessKey           = "S3_ACCESS_KEY"
	envS3SecretKey           = "S3_SECRET_KEY"
	envS3Bucket              = "BUCKET_NAME"
	envS3ForcePathStyle      = "S3_FORCE_PATH_STYLE"
	envRedisURL              = "REDIS_URL"
	envJWTSecret             = "JWT_SECRET"
	envJWTAlgorithm          = "JWT_ALGORITHM"
	envJWTExpiry             = "JWT_EXPIRE_MINUTES"
	envAdminJWTSecret        = "ADMIN_JWT_SECRET"
	envAdminJWTExpiry        = "ADMIN_JWT_EXPIRE_MINUTES"
	envAdminKeyHash          = "ADMIN_KEY_HASH"
	envCodeLength            = "CODE_LENGTH"
	envImageMaxSize          = "IMAGE_MAX_SIZE"
	envAllowedImageTypes     = "ALLOWED_IMAGE_TYPES"
	envImageExpireTime       = "IMAGE_EXPIRE_TIME"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultCORSAllowedOrigins = "*"
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "cards"
	defaultDBUser             = "cards_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultS3Region           = "us-east-1"
	defaultJWTAlgorithm       = "HS256"
	defaultJWTExpiry          = 60 * time.Minute
	defaultAdminJWTExpiry     = 30 * time.Minute
	defaultCodeLength         = 8
	defaultImageMaxSize       = int64(5 * 1024 * 1024)
	defaultAllowedImageTypes  = "image/jpeg,image/png"
	defaultImageExpireTime    = time.Hour
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"

	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2
	minCodeLength            = 6
	maxCodeLength            = 64

	errPortRequiredFmt         = "PORT must be set"
	errUnknownStoreDriverFmt   = "STORE_DRIVER must be %q or %q, got %q"
	errAdminSecretReusedFmt    = "ADMIN_JWT_SECRET must differ from JWT_SECRET"
	errJWTAlgorithmFmt         = "JWT_ALGORITHM must be one of HS256, HS384, HS512, got %q"
	errPositiveDurationFmt     = "%s must be a positive duration"
	errCodeLengthRangeFmt      = "CODE_LENGTH must be between %d and %d"
	errImageMaxSizeFmt         = "IMAGE_MAX_SIZE must be positive"
	errAllowedImageTypesFmt    = "ALLOWED_IMAGE_TYPES must list at least one content type"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	S3       S3Config
	Redis    RedisConfig
	Token    TokenConfig
	Admin    AdminConfig
	App      AppConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	CookieSecure       bool
	EnableProfiling    bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	ForcePathStyle  bool
}

type RedisConfig struct {
	URL string
}

// TokenConfig configures edit-access tokens.
type TokenConfig struct {
	Secret         string
	Algorithm      string
	ExpiryDuration time.Duration
}

// AdminConfig configures the separately keyed admin surface.
type AdminConfig struct {
	Secret         string
	ExpiryDuration time.Duration
	KeyHash        string
}

type AppConfig struct {
	CodeLength         int
	ImageMaxSize       int64
	AllowedImageTypes  []string
	PresignedURLExpiry time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv(envPort, defaultServerPort),
			ReadTimeout:        getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:       getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout:    getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			CORSAllowedOrigins: getListEnv(envCORSAllowedOrigins, defaultCORSAllowedOrigins),
			CookieSecure:       getBoolEnv(envCookieSecure, false),
			EnableProfiling:    getBoolEnv(envEnableProfiling, false),
		},
		Database: DatabaseConfig{
			Driver:   getEnv(envStoreDriver, StoreDriverPostgres),
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		S3: S3Config{
			Endpoint:        os.Getenv(envS3Endpoint),
			Region:          getEnv(envS3Region, defaultS3Region),
			AccessKeyID:     os.Getenv(envS3AccessKey),
			SecretAccessKey: os.Getenv(envS3SecretKey),
			Bucket:          os.Getenv(envS3Bucket),
			ForcePathStyle:  getBoolEnv(envS3ForcePathStyle, true),
		},
		Redis: RedisConfig{
			URL: os.Getenv(envRedisURL),
		},
		Token: TokenConfig{
			Secret:         os.Getenv(envJWTSecret),
			Algorithm:      getEnv(envJWTAlgorithm, defaultJWTAlgorithm),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Admin: AdminConfig{
			Secret:         os.Getenv(envAdminJWTSecret),
			ExpiryDuration: getDurationEnv(envAdminJWTExpiry, defaultAdminJWTExpiry),
			KeyHash:        os.Getenv(envAdminKeyHash),
		},
		App: AppConfig{
			CodeLength:         getIntEnv(envCodeLength, defaultCodeLength),
			ImageMaxSize:       getInt64Env(envImageMaxSize, defaultImageMaxSize),
			AllowedImageTypes:  getListEnv(envAllowedImageTypes, defaultAllowedImageTypes),
			PresignedURLExpiry: getDurationEnv(envImageExpireTime, defaultImageExpireTime),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Database.Driver {
	case StoreDriverPostgres:
		if err := requireValues(
			requiredValue{envDBPassword, c.Database.Password},
			requiredValue{envS3Bucket, c.S3.Bucket},
			requiredValue{envS3AccessKey, c.S3.AccessKeyID},
			requiredValue{envS3SecretKey, c.S3.SecretAccessKey},
		); err != nil {
			return err
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf(errUnknownStoreDriverFmt, StoreDriverPostgres, StoreDriverMemory, c.Database.Driver)
	}

	if err := requireValues(
		requiredValue{envJWTSecret, c.Token.Secret},
		requiredValue{envAdminJWTSecret, c.Admin.Secret},
		requiredValue{envAdminKeyHash, c.Admin.KeyHash},
	); err != nil {
		return err
	}

	if err := validateSecret(envJWTSecret, c.Token.Secret); err != nil {
		return err
	}

	if err := validateSecret(envAdminJWTSecret, c.Admin.Secret); err != nil {
		return err
	}

	if c.Admin.Secret == c.Token.Secret {
		return fmt.Errorf(errAdminSecretReusedFmt)
	}

	switch c.Token.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf(errJWTAlgorithmFmt, c.Token.Algorithm)
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{envJWTExpiry, c.Token.ExpiryDuration},
		{envAdminJWTExpiry, c.Admin.ExpiryDuration},
		{envImageExpireTime, c.App.PresignedURLExpiry},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf(errPositiveDurationFmt, d.key)
		}
	}

	if c.App.CodeLength < minCodeLength || c.App.CodeLength > maxCodeLength {
		return fmt.Errorf(errCodeLengthRangeFmt, minCodeLength, maxCodeLength)
	}

	if c.App.ImageMaxSize <= 0 {
		return fmt.Errorf(errImageMaxSizeFmt)
	}

	if len(c.App.AllowedImageTypes) == 0 {
		return fmt.Errorf(errAllowedImageTypesFmt)
	}

	return nil
}

// IsImageTypeAllowed reports whether contentType is in ALLOWED_IMAGE_TYPES.
func (c *AppConfig) IsImageTypeAllowed(contentType string) bool {
	for _, allowed := range c.AllowedImageTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

type requiredValue struct {
	key   string
	value string
}

func requireValues(values ...requiredValue) error {
	for _, v := range values {
		if v.value == "" {
			return errors.New(messages.requiredEnvNotSet(v.key))
		}
	}
	return nil
}

func validateSecret(key, secret string) error {
	if len(secret) < minJWTSecretLength {
		return errors.New(messages.secretTooShort(key, minJWTSecretLength))
	}
	if !hasMinimumEntropy(secret) {
		return errors.New(messages.secretLowEntropy(key))
	}
	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s", "1h") or a bare integer of minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
