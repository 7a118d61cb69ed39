package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Razorpay RazorpayConfig
	Video    VideoConfig
	Twilio   TwilioConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RazorpayConfig holds payment provider credentials. The key secret doubles as
// the HMAC secret for payment signature verification.
type RazorpayConfig struct {
	Key    string
	Secret string
}

// VideoConfig holds the video-conferencing provider settings. JoinHost is the
// public host join URLs are built on: https://<JoinHost>/meeting/<code>.
type VideoConfig struct {
	BaseURL    string
	Token      string
	TemplateID string
	JoinHost   string
	Timeout    time.Duration
}

type TwilioConfig struct {
	AccountSID         string
	AuthToken          string
	From               string
	DefaultCountryCode string
	Timeout            time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	videoTimeout, err := time.ParseDuration(viper.GetString("VIDEO_API_TIMEOUT"))
	if err != nil {
		videoTimeout = 10 * time.Second
	}

	twilioTimeout, err := time.ParseDuration(viper.GetString("TWILIO_TIMEOUT"))
	if err != nil {
		twilioTimeout = 10 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Razorpay: RazorpayConfig{
			Key:    viper.GetString("RAZORPAY_KEY"),
			Secret: viper.GetString("RAZORPAY_SECRET"),
		},
		Video: VideoConfig{
			BaseURL:    viper.GetString("VIDEO_API_BASE_URL"),
			Token:      viper.GetString("VIDEO_API_TOKEN"),
			TemplateID: viper.GetString("VIDEO_TEMPLATE_ID"),
			JoinHost:   viper.GetString("VIDEO_JOIN_HOST"),
			Timeout:    videoTimeout,
		},
		Twilio: TwilioConfig{
			AccountSID:         viper.GetString("TWILIO_SID"),
			AuthToken:          viper.GetString("TWILIO_TOKEN"),
			From:               viper.GetString("TWILIO_FROM"),
			DefaultCountryCode: viper.GetString("TWILIO_DEFAULT_COUNTRY_CODE"),
			Timeout:            twilioTimeout,
		},
	}

	return config, nil
}
