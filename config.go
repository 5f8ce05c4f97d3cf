package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported values of the storage driver setting.
const (
	MongoDriver = "mongo"
	RedisDriver = "redis"
	BoltDriver  = "bolt"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"BOOKS_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BOOKS_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BOOKS_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BOOKS_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BOOKS_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BOOKS_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BOOKS_LOG_MAX_SIZE"`
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BOOKS_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BOOKS_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	Storage                 StorageConfig `yaml:"storage"`
	Mongo                   MongoConfig   `yaml:"mongo"`
	Redis                   RedisConfig   `yaml:"redis"`
	BoltDB                  BoltDBConfig  `yaml:"boltdb"`
	Mirror                  MirrorConfig  `yaml:"mirror"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BOOKS_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BOOKS_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BOOKS_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BOOKS_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BOOKS_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BOOKS_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects which driver backs the books collection.
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"BOOKS_STORAGE_DRIVER"`
}

type MongoConfig struct {
	URI                    string        `yaml:"uri" envconfig:"BOOKS_MONGO_URI" json:"-"`
	Database               string        `yaml:"database" envconfig:"BOOKS_MONGO_DATABASE"`
	Collection             string        `yaml:"collection" envconfig:"BOOKS_MONGO_COLLECTION"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout" envconfig:"BOOKS_MONGO_CONNECT_TIMEOUT"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout" envconfig:"BOOKS_MONGO_SERVER_SELECTION_TIMEOUT"`
	MaxPoolSize            uint64        `yaml:"max_pool_size" envconfig:"BOOKS_MONGO_MAX_POOL_SIZE"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BOOKS_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BOOKS_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BOOKS_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BOOKS_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BOOKS_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BOOKS_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BOOKS_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BOOKS_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BOOKS_REDIS_PASSWORD" json:"-"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BOOKS_REDIS_DATABASE_INDEX"`
	HashKey       string        `yaml:"hash_key" envconfig:"BOOKS_REDIS_HASH_KEY"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BOOKS_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BOOKS_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BOOKS_BOLTDB_BUCKET_NAME"`
}

// MirrorConfig controls the asynchronous copy of book changes
// into a local bolt snapshot through redis queues.
type MirrorConfig struct {
	Enable       bool   `yaml:"enable" envconfig:"BOOKS_MIRROR_ENABLE"`
	SnapshotPath string `yaml:"snapshot_path" envconfig:"BOOKS_MIRROR_SNAPSHOT_PATH"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	if err = yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and overrides the values of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters,
// configures build tags values if provided and checks that the
// chosen storage driver has what it needs to connect.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	setDefaults(config)

	switch config.Storage.Driver {
	case MongoDriver:
		if len(config.Mongo.URI) == 0 {
			return errors.New("make sure to set a valid mongo uri in configuration file")
		}
	case RedisDriver:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	case BoltDriver:
		if len(config.BoltDB.FilePath) == 0 {
			return errors.New("make sure to set a valid boltdb file path in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (supported: mongo, redis, bolt)", config.Storage.Driver)
	}

	if config.Mirror.Enable {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("mirror requires valid redis address and port in configuration file")
		}
		if len(config.Mirror.SnapshotPath) == 0 {
			return errors.New("mirror requires a snapshot path in configuration file")
		}
	}

	return nil
}

func setDefaults(config *Config) {
	if config.Storage.Driver == "" {
		config.Storage.Driver = MongoDriver
	}
	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}
	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}
	if config.Mongo.Database == "" {
		config.Mongo.Database = "bookstore"
	}
	if config.Mongo.Collection == "" {
		config.Mongo.Collection = "books"
	}
	if config.Mongo.ConnectTimeout == 0 {
		config.Mongo.ConnectTimeout = 10 * time.Second
	}
	if config.Mongo.ServerSelectionTimeout == 0 {
		config.Mongo.ServerSelectionTimeout = 5 * time.Second
	}
	if config.Redis.HashKey == "" {
		config.Redis.HashKey = "books"
	}
	if config.BoltDB.BucketName == "" {
		config.BoltDB.BucketName = "books"
	}
	if config.BoltDB.Timeout == 0 {
		config.BoltDB.Timeout = 5 * time.Second
	}
}

// LoadAndInitConfigs loads in order the configs from the yaml file, the optional
// dotenv file and the process environment then builds the App configuration data.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// The dotenv file is optional. Existing variables are not overridden.
	err = godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BOOKS`.
	err = LoadConfigEnvs("BOOKS", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
