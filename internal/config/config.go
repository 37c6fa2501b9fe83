package config

import "os"

// Config holds the process configuration, environment-driven with sensible
// defaults for local play.
type Config struct {
	Addr          string
	QuestionsPath string
}

func Load() *Config {
	return &Config{
		Addr:          ":" + getEnv("PORT", "8080"),
		QuestionsPath: getEnv("QUESTIONS_PATH", "./data/questions.json"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
