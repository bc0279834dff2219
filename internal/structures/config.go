package structures

import "time"

type Server struct {
	Host        string   `yaml:"host" validate:"required"`
	Port        int      `yaml:"port" validate:"required|uint|min:1"`
	CorsOrigins []string `yaml:"corsOrigins"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend" validate:"in:freecache,memory"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	// Compress stores entries zstd-compressed.
	Compress bool `yaml:"compress"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required|in:mongo,memory"`
}

type MongoConfig struct {
	URI             string        `yaml:"uri"`
	Database        string        `yaml:"database"`
	UsersCollection string        `yaml:"usersCollection"`
	TripsCollection string        `yaml:"tripsCollection"`
	Timeout         time.Duration `yaml:"timeout"`
}

type IdentityConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ProjectID   string `yaml:"projectId"`
	SuccessURL  string `yaml:"successUrl"`
	FailureURL  string `yaml:"failureUrl"`
	PeopleURL   string `yaml:"peopleUrl"`
	DefaultRole string `yaml:"defaultRole"`
}

type GenerationConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit is the number of generation requests allowed per client IP per minute.
	RateLimit int `yaml:"rateLimit"`
}

type ImagesConfig struct {
	AccessKey string        `yaml:"accessKey"`
	Endpoint  string        `yaml:"endpoint"`
	Count     int           `yaml:"count"`
	Timeout   time.Duration `yaml:"timeout"`
}

type DashboardConfig struct {
	Timezone        string        `yaml:"timezone"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Storage    StorageConfig    `yaml:"storage"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Identity   IdentityConfig   `yaml:"identity"`
	Generation GenerationConfig `yaml:"generation"`
	Images     ImagesConfig     `yaml:"images"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}
