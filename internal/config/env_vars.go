package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	appNameVar           = "APP_NAME"
	logLevelVar          = "LOG_LEVEL"
	apiBaseURLVar        = "SMW_API_BASE_URL"
	httpClientTimeoutVar = "HTTP_CLIENT_TIMEOUT"
	devBackendPortVar    = "DEV_BACKEND_PORT"
	devBackendSecretVar  = "DEV_BACKEND_SECRET"

	// DefaultAPIBaseURL is used when SMW_API_BASE_URL is not set.
	DefaultAPIBaseURL = "http://localhost:8000/api"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	return portAddr(GetEnv(portEnvVar, "8080"))
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "SMW Admin")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelVar, "info"))
}

// GetAPIBaseURL returns the REST backend base URL (e.g. "https://api.example.com/api").
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, DefaultAPIBaseURL)
}

func (EnvVars) GetHTTPClientTimeout() time.Duration {
	return GetDuration(httpClientTimeoutVar, 15*time.Second)
}

func (EnvVars) GetDevBackendPort() string {
	return portAddr(GetEnv(devBackendPortVar, "8000"))
}

func (EnvVars) GetDevBackendSecret() string {
	return GetEnv(devBackendSecretVar, "dev-secret-change-me")
}

func portAddr(port string) string {
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses envVar with time.ParseDuration, falling back to defaultValue
// when the variable is unset or malformed.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
