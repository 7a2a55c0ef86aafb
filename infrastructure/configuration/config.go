package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"panorama-api/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Storage     Storage     `json:"storage"`
	Instagram   Instagram   `json:"instagram"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Storage configures the MinIO-backed object store. PublicBaseURL is the
// externally reachable prefix used to build public asset URLs.
type Storage struct {
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	UseSSL          bool   `json:"useSSL"`
	PublicBaseURL   string `json:"publicBaseURL"`
	RawBucket       string `json:"rawBucket"`
	ProcessedBucket string `json:"processedBucket"`
	OptimizedBucket string `json:"optimizedBucket"`
}

// Instagram holds Graph API posting configuration. AccessToken and
// BusinessAccountID are injected into the publish and token usecases at
// construction; nothing reads them ad hoc from the environment mid-request.
type Instagram struct {
	AccessToken       string `json:"accessToken"`
	BusinessAccountID string `json:"businessAccountId"`
	GraphBaseURL      string `json:"graphBaseURL"`
	// TokenExpiresAt is RFC3339; optional, used for expiry reporting when the
	// token comes from the environment.
	TokenExpiresAt string `json:"tokenExpiresAt"`
}

// TokenExpiry parses TokenExpiresAt; the zero time means unknown.
func (i Instagram) TokenExpiry() time.Time {
	if i.TokenExpiresAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, i.TokenExpiresAt)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Invalid instagram.tokenExpiresAt; ignoring")
		return time.Time{}
	}
	return t
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initStorage(&C)
	initInstagram(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initStorage(C *Config) {
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		C.Storage.Endpoint = v
	}
	if C.Storage.Endpoint == "" {
		C.Storage.Endpoint = "localhost:9000"
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		C.Storage.AccessKeyID = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		C.Storage.SecretAccessKey = v
	}
	if C.Storage.PublicBaseURL == "" {
		scheme := "http"
		if C.Storage.UseSSL {
			scheme = "https"
		}
		C.Storage.PublicBaseURL = fmt.Sprintf("%s://%s", scheme, C.Storage.Endpoint)
	}
	if C.Storage.RawBucket == "" {
		C.Storage.RawBucket = "panoramas-raw"
	}
	if C.Storage.ProcessedBucket == "" {
		C.Storage.ProcessedBucket = "panoramas-processed"
	}
	if C.Storage.OptimizedBucket == "" {
		C.Storage.OptimizedBucket = "panoramas-optimized"
	}
}

func initInstagram(C *Config) {
	if v := os.Getenv("INSTAGRAM_ACCESS_TOKEN"); v != "" {
		C.Instagram.AccessToken = v
	}
	if v := os.Getenv("INSTAGRAM_BUSINESS_ACCOUNT_ID"); v != "" {
		C.Instagram.BusinessAccountID = v
	}
	if v := os.Getenv("INSTAGRAM_TOKEN_EXPIRES_AT"); v != "" {
		C.Instagram.TokenExpiresAt = v
	}
	if C.Instagram.GraphBaseURL == "" {
		C.Instagram.GraphBaseURL = "https://graph.facebook.com/v19.0"
	}
}
