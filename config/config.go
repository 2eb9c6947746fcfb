package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env              string             `yaml:"env" env:"ENV" env-default:"development"`
	DbConfig         DbConfig           `yaml:"db" env-required:"true"`
	HttpServerConfig HttpServerConfig   `yaml:"http_server" env-required:"true"`
	CacheConfig      CacheConfig        `yaml:"cache" env-required:"true"`
	S3Config         S3Config           `yaml:"s3"`
	SMTPConfig       SMTPConfig         `yaml:"smtp"`
	WebhookConfig    WebhookConfig      `yaml:"webhook"`
	FCMConfig        FCMConfig          `yaml:"fcm_config"`
	TextProvider     TextProviderConfig `yaml:"text_provider"`
	Schedule         ScheduleConfig     `yaml:"schedule"`
	Reminders        RemindersConfig    `yaml:"reminders"`
	Users            UsersConfig        `yaml:"users"`
}

type CacheConfig struct {
	Address        string        `yaml:"address" env:"REDIS_ADDRESS" env-required:"true"`
	Db             int           `yaml:"db"`
	DisplayNameTtl time.Duration `yaml:"display_name_ttl" env-default:"10m"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type HttpServerConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-required:"true"`
	Timeout        time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TLS            TLSConfig     `yaml:"tls"`
}

type FCMConfig struct {
	ProjectID                 string `yaml:"project_id"`
	ServiceAccountKeyJSONPath string `yaml:"service_account_key_json_path"`
}

type DbConfig struct {
	Username string `yaml:"username"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env-default:"5432"`
	DbName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode" env-default:"disable"`
}

// SMTPConfig is optional. An empty Host disables the weekly recap e-mail.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
}

// S3Config is optional. An empty BucketTips disables the daily tips archive.
type S3Config struct {
	Endpoint   string `yaml:"endpoint"`
	Region     string `yaml:"region"`
	BucketTips string `yaml:"bucket_tips"`
}

type WebhookConfig struct {
	TokenExpire time.Duration `yaml:"token_expire" env-default:"24h"`
}

type TextProviderConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"https://api.openai.com/v1"`
	Model   string        `yaml:"model" env-default:"gpt-4o-mini"`
	Timeout time.Duration `yaml:"timeout" env-default:"20s"`
}

// ScheduleConfig holds cron expressions, evaluated in UTC.
type ScheduleConfig struct {
	TaskReminders string        `yaml:"task_reminders" env-default:"@every 5m"`
	ChallengeGaps []string      `yaml:"challenge_gaps"`
	TipsGenerate  string        `yaml:"tips_generate" env-default:"0 5 * * *"`
	TipsMorning   string        `yaml:"tips_morning" env-default:"0 8 * * *"`
	TipsAfternoon string        `yaml:"tips_afternoon" env-default:"0 13 * * *"`
	TipsEvening   string        `yaml:"tips_evening" env-default:"0 19 * * *"`
	WeeklyRecap   string        `yaml:"weekly_recap" env-default:"0 18 * * 0"`
	JobTimeout    time.Duration `yaml:"job_timeout" env-default:"2m"`
}

type RemindersConfig struct {
	WindowStart time.Duration `yaml:"window_start" env-default:"10m"`
	WindowEnd   time.Duration `yaml:"window_end" env-default:"15m"`
	// LateGrace widens the lower bound of the task window, so tasks that slipped
	// past windowStart while the service was down still get a (late) reminder.
	LateGrace time.Duration `yaml:"late_grace" env-default:"10m"`
}

type UsersConfig struct {
	Placeholder string `yaml:"placeholder" env-default:"Friend"`
}

// DefaultChallengeGaps is used when schedule.challenge_gaps is empty.
var DefaultChallengeGaps = []string{"0 12 * * *", "0 18 * * *", "0 21 * * *"}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config file: %s. Error: %v", configPath, err)
	}

	if len(cfg.Schedule.ChallengeGaps) == 0 {
		cfg.Schedule.ChallengeGaps = DefaultChallengeGaps
	}

	return &cfg
}
