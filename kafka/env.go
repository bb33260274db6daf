package kafka

import (
	"strings"

	"slidecast/config"
)

// GetBrokers parses the broker list from KAFKA_BOOTSTRAP_SERVERS.
func GetBrokers() []string {
	return strings.Split(config.GetEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092"), ",")
}

// GetTopic returns the render job topic name.
func GetTopic() string {
	return config.GetEnv("KAFKA_TOPIC_RENDER_JOBS", "render-jobs")
}

// GetGroupID returns the consumer group ID.
func GetGroupID() string {
	return config.GetEnv("KAFKA_CONSUMER_GROUP_ID", "slidecast-render-workers")
}
