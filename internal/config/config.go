package config

import "github.com/kelseyhightower/envconfig"

type Server struct {
	Address     string `envconfig:"AEMET_SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"AEMET_SERVER_READ_TIMEOUT" default:"15"`
}

type API struct {
	Key            string `envconfig:"AEMET_API_KEY" required:"true"`
	BaseURL        string `envconfig:"AEMET_API_BASE_URL" default:"https://opendata.aemet.es/opendata"`
	RequestDelay   int    `envconfig:"AEMET_REQUEST_DELAY" default:"1"`
	MaxRetries     uint64 `envconfig:"AEMET_MAX_RETRIES" default:"3"`
	RetryBackoff   int    `envconfig:"AEMET_RETRY_BACKOFF" default:"2"`
	RequestTimeout int    `envconfig:"AEMET_REQUEST_TIMEOUT" default:"30"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"6"`
}

type Storage struct {
	Path          string `envconfig:"AEMET_DB_PATH" default:"./aemet-wind.db"`
	MigrationsDir string `envconfig:"AEMET_MIGRATIONS_DIR" default:"./migrations"`
}

type Sync struct {
	// InventorySpec and WindSpec are cron expressions with a seconds field.
	InventorySpec string   `envconfig:"SYNC_INVENTORY_SPEC" default:"0 0 5 * * *"`
	WindSpec      string   `envconfig:"SYNC_WIND_SPEC" default:"0 30 5 * * *"`
	Stations      []string `envconfig:"SYNC_STATIONS"`
	WindowDays    int      `envconfig:"SYNC_WINDOW_DAYS" default:"7"`
	OutputDir     string   `envconfig:"SYNC_OUTPUT_DIR" default:"./outputs"`
}

type Config struct {
	API     API
	Server  Server
	Breaker Breaker
	Redis   Redis
	Storage Storage
	Sync    Sync

	LogsPath string `envconfig:"LOGS_PATH" default:"./log/aemet-wind.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
