package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings holds runtime configuration, read from environment variables.
type Settings struct {
	Port     string
	Database DatabaseSettings
	RabbitMQ RabbitMQSettings
	Migration MigrationSettings
}

type DatabaseSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RabbitMQSettings struct {
	Host     string
	Port     string
	User     string
	Password string
}

type MigrationSettings struct {
	Dir string
}

// LoadSettings reads configuration from the environment.
// 所有配置通过环境变量注入，.env 文件由入口程序加载
func LoadSettings() *Settings {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "adcontrol")
	v.SetDefault("DB_TIMEZONE", "Asia/Shanghai")
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	return &Settings{
		Port: v.GetString("PORT"),
		Database: DatabaseSettings{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		RabbitMQ: RabbitMQSettings{
			Host:     v.GetString("RABBITMQ_HOST"),
			Port:     v.GetString("RABBITMQ_PORT"),
			User:     v.GetString("RABBITMQ_USER"),
			Password: v.GetString("RABBITMQ_PASSWORD"),
		},
		Migration: MigrationSettings{
			Dir: v.GetString("MIGRATIONS_DIR"),
		},
	}
}

// DSN returns the postgres connection string
func (s *Settings) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		s.Database.Host,
		s.Database.User,
		s.Database.Password,
		s.Database.Name,
		s.Database.Port,
		s.Database.TimeZone,
	)
}

// AmqpURL returns the RabbitMQ connection URL
func (s *Settings) AmqpURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		s.RabbitMQ.User,
		s.RabbitMQ.Password,
		s.RabbitMQ.Host,
		s.RabbitMQ.Port,
	)
}
