package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Storage struct {
		Provider string `mapstructure:"provider"` // github, s3, local
		GitHub   struct {
			Token      string `mapstructure:"token"`
			Owner      string `mapstructure:"owner"`
			Repo       string `mapstructure:"repo"`
			ReleaseTag string `mapstructure:"release_tag"`
		} `mapstructure:"github"`
		S3 struct {
			KeyID    string `mapstructure:"key_id"`
			AppKey   string `mapstructure:"app_key"`
			Endpoint string `mapstructure:"endpoint"`
			Region   string `mapstructure:"region"`
			Bucket   string `mapstructure:"bucket"`
		} `mapstructure:"s3"`
		Local struct {
			Root    string `mapstructure:"root"`
			BaseURL string `mapstructure:"base_url"`
		} `mapstructure:"local"`
	} `mapstructure:"storage"`
	Radio struct {
		SongFallbackSeconds int   `mapstructure:"song_fallback_seconds"`
		AdFallbackSeconds   int   `mapstructure:"ad_fallback_seconds"`
		MaxUploadMB         int64 `mapstructure:"max_upload_mb"`
	} `mapstructure:"radio"`
	Auth struct {
		JWTSecret     string `mapstructure:"jwt_secret"`
		AdminPassword string `mapstructure:"admin_password"`
	} `mapstructure:"auth"`
}

func Load() *Config {
	viper.SetEnvPrefix("RADIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")

	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.github.token")
	viper.BindEnv("storage.github.owner")
	viper.BindEnv("storage.github.repo")
	viper.BindEnv("storage.github.release_tag")
	viper.BindEnv("storage.s3.key_id")
	viper.BindEnv("storage.s3.app_key")
	viper.BindEnv("storage.s3.endpoint")
	viper.BindEnv("storage.s3.region")
	viper.BindEnv("storage.s3.bucket")
	viper.BindEnv("storage.local.root")
	viper.BindEnv("storage.local.base_url")

	viper.BindEnv("radio.song_fallback_seconds")
	viper.BindEnv("radio.ad_fallback_seconds")
	viper.BindEnv("radio.max_upload_mb")

	viper.BindEnv("auth.jwt_secret")
	viper.BindEnv("auth.admin_password")

	// Defaults
	viper.SetDefault("server.port", ":3001")
	viper.SetDefault("server.metrics_port", ":9091")

	viper.SetDefault("storage.provider", "github")
	viper.SetDefault("storage.github.owner", "NewTime-Creator")
	viper.SetDefault("storage.github.repo", "radio-media-files")
	viper.SetDefault("storage.github.release_tag", "v1.0")
	viper.SetDefault("storage.local.root", "./media")
	viper.SetDefault("storage.local.base_url", "http://localhost:3001/media")

	// Fallback durations when ffprobe can't read the file
	viper.SetDefault("radio.song_fallback_seconds", 180)
	viper.SetDefault("radio.ad_fallback_seconds", 30)
	viper.SetDefault("radio.max_upload_mb", 100)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Storage.Provider == "github" && cfg.Storage.GitHub.Token == "" {
		log.Println("⚠️ No GitHub token set (RADIO_STORAGE_GITHUB_TOKEN), uploads will fail")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "super-secret-radio-key-change-me"
		log.Println("⚠️ RADIO_AUTH_JWT_SECRET not set, using insecure default")
	}

	return &cfg
}
