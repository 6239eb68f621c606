// config предоставляет структуру конфигурации ingest-worker
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилищ записей.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config — корневая конфигурация воркера.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Storage    StorageConfig    `yaml:"storage"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	S3         S3Config         `yaml:"s3"`
	Scratch    ScratchConfig    `yaml:"scratch"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// HTTPConfig — сетевые настройки HTTP-сервера (пробы, метрики, webhook).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50085"`
	// RequestTimeout — общий дедлайн запроса POST /events.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"2m"`
}

// GRPCConfig — сетевые настройки gRPC health-сервера.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50055"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// StorageConfig — выбор реализации хранилищ записей.
// memory — всё в памяти процесса (локальный запуск без инфраструктуры).
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES"`
}

type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL"`
}

// RedisConfig — канал доставки уведомлений (Redis Streams) и dead-letter.
type RedisConfig struct {
	URL              string        `yaml:"url" env:"REDIS_URL"`
	Stream           string        `yaml:"stream" env:"REDIS_STREAM" env-default:"photos:uploads"`
	Group            string        `yaml:"group" env:"REDIS_GROUP" env-default:"ingest-worker"`
	Consumer         string        `yaml:"consumer" env:"REDIS_CONSUMER"`
	DeadLetterStream string        `yaml:"dead_letter_stream" env:"REDIS_DEAD_LETTER_STREAM" env-default:"photos:uploads:dead"`
	ClaimMinIdle     time.Duration `yaml:"claim_min_idle" env:"REDIS_CLAIM_MIN_IDLE" env-default:"30s"`
	MaxDeliveries    int           `yaml:"max_deliveries" env:"REDIS_MAX_DELIVERIES" env-default:"20"`
	Block            time.Duration `yaml:"block" env:"REDIS_BLOCK" env-default:"5s"`
	AttemptsTTL      time.Duration `yaml:"attempts_ttl" env:"REDIS_ATTEMPTS_TTL" env-default:"24h"`
}

// S3Config — объектное хранилище: бакет загрузок и публичный бакет превью.
type S3Config struct {
	Endpoint       string `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser       string `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword   string `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	IncomingBucket string `yaml:"incoming_bucket" env:"S3_INCOMING_BUCKET" env-default:"incoming"`
	ServedBucket   string `yaml:"served_bucket" env:"S3_SERVED_BUCKET" env-default:"served"`
	PublicBaseURL  string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
	// SkipPublicPolicy отключает установку public-read политики на served-бакет при старте.
	SkipPublicPolicy bool `yaml:"skip_public_policy" env:"S3_SKIP_PUBLIC_POLICY"`
}

// ScratchConfig — локальный кэш исходников.
// По умолчанию исходник удаляется после публикации превью, KeepAfterCrop его оставляет.
// Флаг инвертирован: cleanenv подставляет env-default поверх явного false из YAML.
type ScratchConfig struct {
	Dir           string `yaml:"dir" env:"SCRATCH_DIR" env-default:"/tmp/ingest-scratch"`
	KeepAfterCrop bool   `yaml:"keep_after_crop" env:"KEEP_SCRATCH_AFTER_CROP"`
}

// DeleteAfterCrop — удалять ли локальный исходник после публикации превью.
func (s ScratchConfig) DeleteAfterCrop() bool {
	return !s.KeepAfterCrop
}

// ThumbnailsConfig — ширины превью и качество JPEG.
type ThumbnailsConfig struct {
	Widths      []int `yaml:"widths" env:"THUMBNAIL_WIDTHS" env-separator:"," env-default:"240,480,960"`
	JPEGQuality int   `yaml:"jpeg_quality" env:"THUMBNAIL_JPEG_QUALITY" env-default:"85"`
}

// IngestConfig — параметры обработки событий.
type IngestConfig struct {
	Concurrency int           `yaml:"concurrency" env:"INGEST_CONCURRENCY" env-default:"4"`
	CallTimeout time.Duration `yaml:"call_timeout" env:"INGEST_CALL_TIMEOUT" env-default:"10s"`
	// Сколько доставок подряд терпим отсутствие исходника
	// (уведомление может обогнать видимость объекта).
	MissingSourceRetries int `yaml:"missing_source_retries" env:"INGEST_MISSING_SOURCE_RETRIES" env-default:"5"`
}

// ClassifierConfig — правила классификации ошибок хранилищ (transient vs permanent).
type ClassifierConfig struct {
	PostgresCodes []string `yaml:"postgres_codes" env:"CLASSIFIER_POSTGRES_CODES" env-separator:"," env-default:"40001,40P01,53300,57P01,57P03,57014"`
	S3Codes       []string `yaml:"s3_codes" env:"CLASSIFIER_S3_CODES" env-separator:"," env-default:"SlowDown,RequestTimeout,InternalError,ServiceUnavailable,XMinioServerNotInitialized"`
	MongoLabels   []string `yaml:"mongo_labels" env:"CLASSIFIER_MONGO_LABELS" env-separator:"," env-default:"RetryableWriteError,TransientTransactionError"`
	// UnknownAsPermanent — неклассифицированные ошибки считать постоянными.
	// По умолчанию они транзиентны: бесконечный retry ограничивает redis.max_deliveries.
	UnknownAsPermanent bool `yaml:"unknown_as_permanent" env:"CLASSIFIER_UNKNOWN_AS_PERMANENT"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — дефолты для нулевых значений и базовая валидация.
func (c *Config) validate() error {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverPostgres
	}

	if len(c.Thumbnails.Widths) == 0 {
		c.Thumbnails.Widths = []int{240, 480, 960}
	}

	if c.Thumbnails.JPEGQuality == 0 {
		c.Thumbnails.JPEGQuality = 85
	}

	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = 4
	}

	if c.Ingest.CallTimeout == 0 {
		c.Ingest.CallTimeout = 10 * time.Second
	}

	if c.Redis.ClaimMinIdle == 0 {
		c.Redis.ClaimMinIdle = 30 * time.Second
	}

	if c.Redis.Consumer == "" {
		host, _ := os.Hostname()
		c.Redis.Consumer = host + "-" + strconv.Itoa(os.Getpid())
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required")
		}
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required")
		}
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required")
		}
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required")
		}
		if c.S3.RootUser == "" {
			return fmt.Errorf("s3.root_user is required")
		}
		if c.S3.RootPassword == "" {
			return fmt.Errorf("s3.root_password is required")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q", DriverPostgres, DriverMemory)
	}

	if c.S3.IncomingBucket == "" || c.S3.ServedBucket == "" {
		return fmt.Errorf("s3.incoming_bucket and s3.served_bucket are required")
	}

	if c.S3.IncomingBucket == c.S3.ServedBucket {
		return fmt.Errorf("s3.incoming_bucket and s3.served_bucket must differ")
	}

	if p, err := strconv.Atoi(c.HTTP.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("http.port must be a valid TCP port (1..65535)")
	}

	if p, err := strconv.Atoi(c.GRPC.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("grpc.port must be a valid TCP port (1..65535)")
	}

	if c.Scratch.Dir == "" {
		return fmt.Errorf("scratch.dir is required")
	}

	for _, w := range c.Thumbnails.Widths {
		if w <= 0 {
			return fmt.Errorf("thumbnails.widths must be positive, got %d", w)
		}
	}

	if c.Thumbnails.JPEGQuality < 1 || c.Thumbnails.JPEGQuality > 100 {
		return fmt.Errorf("thumbnails.jpeg_quality must be in [1..100]")
	}

	if c.Ingest.Concurrency < 0 {
		return fmt.Errorf("ingest.concurrency must be > 0")
	}

	if c.Ingest.CallTimeout < 0 {
		return fmt.Errorf("ingest.call_timeout must be > 0")
	}

	// Сообщение, зависшее меньше одного вызова хранилища, ещё может быть в работе.
	if c.Redis.ClaimMinIdle <= c.Ingest.CallTimeout {
		return fmt.Errorf("redis.claim_min_idle must be greater than ingest.call_timeout")
	}

	if c.Ingest.MissingSourceRetries < 0 {
		return fmt.Errorf("ingest.missing_source_retries must be >= 0")
	}

	if c.Redis.MaxDeliveries < 0 {
		return fmt.Errorf("redis.max_deliveries must be >= 0")
	}

	return nil
}
