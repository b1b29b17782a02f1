package config

type Config interface {
	EnvConfig
	HTTPConfig
	CacheConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetDataFolder() string
	GetRedisAddr() string
	GetEnv() string
}

type mainConfig struct {
	*Vars
}

func New() Config {
	return mainConfig{Vars: NewVars()}
}
