// internal/gateway/prediction/config.go
package prediction

import "time"

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	DebounceDelay time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		MaxRetries:    2,
		DebounceDelay: 500 * time.Millisecond,
	}
}
