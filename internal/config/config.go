// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	PublicBaseURL           string `yaml:"public_base_url"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Rabbit                  RabbitConnection `yaml:"rabbit_connection"`
	Session                 SessionTTL       `yaml:"session"`
	ConfirmToken            ConfirmToken     `yaml:"confirm_token"`
	SMTP                    SMTP             `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitConnection структура для настройки подключения к RabbitMQ.
type RabbitConnection struct {
	ConnectionString string        `yaml:"connection_string"`
	Retries          int           `yaml:"retries" env-default:"5"`
	RetryDelay       time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SessionTTL задает время жизни сессии для обоих вариантов флага remember me.
type SessionTTL struct {
	RememberMe time.Duration `yaml:"remember_me" env-default:"720h"`
	Short      time.Duration `yaml:"short" env-default:"1h"`
}

// ConfirmToken структура для работы с токеном подтверждения email.
type ConfirmToken struct {
	SecretKey string        `yaml:"secret_key"`
	TTL       time.Duration `yaml:"ttl" env-default:"48h"`
}

// SMTP структура для настройки отправки писем.
type SMTP struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port" env-default:"587"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
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

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"PublicBaseURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  RememberMe: %s\n"+
			"  Short: %s\n"+
			"ConfirmToken:\n"+
			"  TTL: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Port: %s\n"+
			"  User: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.PublicBaseURL,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.Session.RememberMe,
		c.Session.Short,
		c.ConfirmToken.TTL,
		c.SMTP.Host,
		c.SMTP.Port,
		c.SMTP.User,
	)
}
