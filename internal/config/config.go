// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек портала.
type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	JWTToken   `yaml:"jwttoken"`
	Simulation `yaml:"simulation"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage структура для выбора и настройки хранилища сессионных данных.
// Backend принимает значения "memory" или "redis".
type Storage struct {
	Backend string          `yaml:"backend" env-default:"memory"`
	Redis   RedisConnection `yaml:"redis"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	Address     string        `yaml:"address" env-default:"localhost:6379"`
	Password    string        `yaml:"password"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

// JWTToken структура для работы с jwt-токеном сессии.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env-default:"finconnect-dev-secret"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Simulation структура для настройки имитируемых вызовов:
// задержка "сетевого" запроса на операциях входа, регистрации и подписки.
type Simulation struct {
	Latency time.Duration `yaml:"latency" env-default:"1s"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
