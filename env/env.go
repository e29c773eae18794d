package env

import (
	"fmt"
	"os"
)

const (
	DatabaseURL   = "DATABASE_URL"
	RestHost      = "REST_HOST"
	BucketName    = "BUCKET_NAME"
	S3Region      = "S3_REGION"
	S3Endpoint    = "S3_ENDPOINT"
	S3AccessKey   = "S3_ACCESS_KEY"
	S3SecretKey   = "S3_SECRET_KEY"
	JWTSecret     = "JWT_SECRET"
	AllowedEmails = "ALLOWED_EMAILS"
	APIBaseURL    = "API_BASE_URL"
	APIToken      = "API_TOKEN"
	SweepSchedule = "SWEEP_SCHEDULE"
	LogFormat     = "LOG_FORMAT"
)

func NewErrNotSet(env string) error {
	return fmt.Errorf("env %s isn't set", env)
}

func Get(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", NewErrNotSet(key)
	}
	return value, nil
}

func GetOptional(key string, optional string) string {
	value := os.Getenv(key)
	if value == "" {
		return optional
	}
	return value
}
