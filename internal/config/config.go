package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         `yaml:"db"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	Shift   ShiftDefaults `yaml:"shift"`
	CORS    CORS          `yaml:"cors"`
	Reports Reports       `yaml:"reports"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout      time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// не меньше таймаута выгрузки Excel (20s)
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

type DB struct {
	User      string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password  string `yaml:"password" env:"DB_PASSWORD"`
	Host      string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"DB_NAME" env-required:"true"`
	ParseTime bool   `yaml:"parse_time" env-default:"true"`
	Migrate   bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// ShiftDefaults смена по умолчанию, если в settings ничего нет. Две независимые пары.
type ShiftDefaults struct {
	SunFriStart string `yaml:"sun_fri_start" env-default:"08:30"`
	SunFriEnd   string `yaml:"sun_fri_end" env-default:"21:00"`
	SatStart    string `yaml:"sat_start" env-default:"07:00"`
	SatEnd      string `yaml:"sat_end" env-default:"15:30"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:8081,http://localhost:5173"`
}

type Reports struct {
	// сколько дней пересчитывать параллельно при отсутствии сводок
	RecomputeWorkers int `yaml:"recompute_workers" env-default:"4"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var cfg Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// без файла читаем только окружение
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from env: %s", err)
		}
		return &cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
