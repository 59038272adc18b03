package events

import "time"

// Config holds configuration for the Kafka event publisher.
type Config struct {
	// Enabled turns publishing on. When false a no-op publisher is used.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Brokers is the comma separated list of broker addresses.
	Brokers []string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic receives every pick event.
	Topic string `mapstructure:"topic" default:"warehouse.picking"`
	// BatchTimeout bounds how long messages wait before a batch is flushed.
	BatchTimeout time.Duration `mapstructure:"batch_timeout" default:"10ms"`
	// RequiredAcks is 0 (none), 1 (leader) or -1 (all replicas).
	RequiredAcks int `mapstructure:"required_acks" default:"-1"`
}
