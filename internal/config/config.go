package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetAPIBaseURL() string
	GetHTTPClientTimeout() time.Duration
	GetDevBackendPort() string
	GetDevBackendSecret() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Store
}

func New() Config {
	return mainConfig{}
}
