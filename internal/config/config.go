package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the live quiz server. Empty backend
// addresses select the in-process implementations.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Room     RoomConfig     `yaml:"room"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	PingInterval string `yaml:"ping_interval"`
	WriteTimeout string `yaml:"write_timeout"`
	SendBuffer   int    `yaml:"send_buffer"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"` // room marker lifetime
}

type PostgresConfig struct {
	URL string `yaml:"url"`
}

type QuizConfig struct {
	TTL  string `yaml:"ttl"`  // question cache lifetime
	File string `yaml:"file"` // YAML quiz file used without postgres
}

type RoomConfig struct {
	QuestionDuration string `yaml:"question_duration"`
	RankByScore      bool   `yaml:"rank_by_score"`
	PersistTimeout   string `yaml:"persist_timeout"`
}

// Load reads the YAML file at path, then applies REDIS_ADDR, REDIS_PASSWORD
// and POSTGRES_URL from the environment when they are set.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("POSTGRES_URL"); v != "" {
		c.Postgres.URL = v
	}
}

// Duration parses raw, falling back when it is empty, malformed or not positive.
func Duration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
