package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDev     = "dev"
	EnvRelease = "release"
)

type Config struct {
	RunAddress       string `env:"RUN_ADDRESS"`
	DatabaseDSN      string `env:"DATABASE_URI"`
	MigrationsDir    string `env:"MIGRATIONS_DIR"`
	JWTUserSecret    string `env:"JWT_USER_SECRET"`
	AdminToken       string `env:"ADMIN_TOKEN"`
	Environment      string `env:"ENVIRONMENT"`
	ReceiptLineWidth int    `env:"RECEIPT_LINE_WIDTH"`
}

func LoadConfig() (*Config, error) {
	// .env опционален, его отсутствие не ошибка.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	if conf.Environment == EnvDev && conf.AdminToken == "" {
		return nil, errors.New("admin token is not set for dev environment")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.Environment, "e", EnvDev, "Environment: dev or release")
	flag.IntVar(&flagConfig.ReceiptLineWidth, "w", 0, "Receipt line width in characters (0 - default)")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	lineWidth := envConfig.ReceiptLineWidth
	if lineWidth == 0 {
		lineWidth = flagsConfig.ReceiptLineWidth
	}
	return &Config{
		RunAddress:       defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:      defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:    defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:    envConfig.JWTUserSecret,
		AdminToken:       envConfig.AdminToken,
		Environment:      defaultIfBlank(envConfig.Environment, flagsConfig.Environment),
		ReceiptLineWidth: lineWidth,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
