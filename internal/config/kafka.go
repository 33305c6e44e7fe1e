package config

// Kafka configures the outbox relay producer and the event consumer.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"perfume-inventory"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"perfume-inventory"`
}
