package providers

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
	"tourvisto/internal/structures"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "freecache")
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.compress", false)
	v.SetDefault("storage.driver", "mongo")
	v.SetDefault("mongo.database", "tourvisto")
	v.SetDefault("mongo.usersCollection", "users")
	v.SetDefault("mongo.tripsCollection", "trips")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("identity.peopleUrl", "https://people.googleapis.com/v1/people/me?personFields=photos")
	v.SetDefault("identity.defaultRole", "admin")
	v.SetDefault("generation.baseUrl", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("generation.model", "gemini-2.0-flash")
	v.SetDefault("generation.timeout", 60*time.Second)
	v.SetDefault("generation.rateLimit", 10)
	v.SetDefault("images.endpoint", "https://api.unsplash.com/search/photos")
	v.SetDefault("images.count", 3)
	v.SetDefault("images.timeout", 10*time.Second)
	v.SetDefault("dashboard.timezone", "Local")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// A missing .env is normal outside local development.
	_ = godotenv.Load(filepath.Join(filepath.Dir(flags.ConfigPath), ".env"))

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "TOURVISTO_LOG_LEVEL")
	v.BindEnv("webServer.port", "TOURVISTO_PORT")
	v.BindEnv("cache.enabled", "TOURVISTO_CACHE_ENABLED")
	v.BindEnv("cache.backend", "TOURVISTO_CACHE_BACKEND")
	v.BindEnv("cache.ttl", "TOURVISTO_CACHE_TTL")
	v.BindEnv("storage.driver", "TOURVISTO_STORAGE_DRIVER")
	v.BindEnv("mongo.uri", "TOURVISTO_MONGO_URI")
	v.BindEnv("mongo.database", "TOURVISTO_MONGO_DATABASE")
	v.BindEnv("identity.endpoint", "TOURVISTO_IDENTITY_ENDPOINT")
	v.BindEnv("identity.projectId", "TOURVISTO_IDENTITY_PROJECT")
	v.BindEnv("identity.successUrl", "TOURVISTO_SUCCESS_URL")
	v.BindEnv("identity.failureUrl", "TOURVISTO_FAILURE_URL")
	v.BindEnv("generation.apiKey", "GEMINI_API_KEY")
	v.BindEnv("generation.model", "TOURVISTO_GENERATION_MODEL")
	v.BindEnv("images.accessKey", "UNSPLASH_ACCESS_KEY")
	v.BindEnv("dashboard.timezone", "TOURVISTO_TIMEZONE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Tourvisto"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
