package config

import (
	"time"

	"github.com/spf13/viper"
)

const httpTimeoutKey = "http_timeout"

type HTTPConfig interface {
	GetHTTPTimeout() time.Duration
}

var _ HTTPConfig = (*Vars)(nil)

func setHTTPDefaults(v *viper.Viper) {
	v.SetDefault(httpTimeoutKey, 30*time.Second)
}

func (c *Vars) GetHTTPTimeout() time.Duration {
	return c.v.GetDuration(httpTimeoutKey)
}
