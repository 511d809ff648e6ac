// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
//
// Конфигурация собирается один раз на старте процесса и передается в
// конструкторы сервисов явно: чтение окружения внутри горячих путей запрещено.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"dev"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitConnection        `yaml:"rabbit_connection"`
	SMTPConnection          `yaml:"smtp_connection"`
	HTTPServer              `yaml:"http_server"`
	AccessToken             `yaml:"access_token"`
	Notifier                `yaml:"notifier"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitConnection структура для настройки подключения к rabbitmq
type RabbitConnection struct {
	AddressRabbit string `yaml:"addressrabbit"`
	Exchange      string `yaml:"exchange" env-default:"movienest.events"`
	PurchaseQueue string `yaml:"purchase_queue" env-default:"purchase-events"`
	ReminderQueue string `yaml:"reminder_queue" env-default:"expiry-reminders"`
}

// SMTPConnection структура для настройки SMTP транспорта напоминаний
type SMTPConnection struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port" env-default:"587"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SMTPFrom     string `yaml:"smtp_from"`
}

// AccessToken структура для работы с токеном доступа.
// Algorithm валидируется по списку разрешённых при старте процесса.
type AccessToken struct {
	SecretKey string        `yaml:"secret_key"`
	Algorithm string        `yaml:"algorithm" env-default:"HS256"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"30m"`
}

// Notifier структура с настройками планировщика напоминаний
type Notifier struct {
	CheckInterval time.Duration `yaml:"check_interval" env-default:"24h"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
// Любая проблема с конфигом фатальна: процесс не стартует.
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
