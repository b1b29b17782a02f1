package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	appNameKey    = "app_name"
	apiBaseURLKey = "api_base_url"
	folderKey     = "folder"
	redisAddrKey  = "redis_addr"
	envKey        = "env"
)

// Vars resolves configuration from the environment and an optional
// config.yaml in the working directory. Environment variables take the
// FLIXREVIEW_ prefix (e.g. FLIXREVIEW_API_BASE_URL).
type Vars struct {
	v *viper.Viper
}

var _ EnvConfig = (*Vars)(nil)

func NewVars() *Vars {
	v := viper.New()
	v.SetEnvPrefix("FLIXREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(appNameKey, "FlixReview Client")
	v.SetDefault(apiBaseURLKey, "http://localhost:8000/api")
	v.SetDefault(folderKey, "./data")
	v.SetDefault(redisAddrKey, "")
	v.SetDefault(envKey, "DEV")
	setHTTPDefaults(v)
	setCacheDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("Failed to read config file, using environment only")
		}
	}

	return &Vars{v: v}
}

func (c *Vars) GetAppName() string {
	return c.v.GetString(appNameKey)
}

func (c *Vars) GetAPIBaseURL() string {
	return strings.TrimRight(c.v.GetString(apiBaseURLKey), "/")
}

func (c *Vars) GetDataFolder() string {
	return c.v.GetString(folderKey)
}

func (c *Vars) GetRedisAddr() string {
	return c.v.GetString(redisAddrKey)
}

func (c *Vars) GetEnv() string {
	return c.v.GetString(envKey)
}
