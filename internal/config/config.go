package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klass-lk/blog"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = blog.DriverPostgres
	DriverPgx      = blog.DriverPgx
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	Env         string      `yaml:"env"`
	Port        int         `yaml:"port"`
	Runtime     string      `yaml:"runtime"`
	CORSOrigins []string    `yaml:"cors_origins"`
	Store       StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	Driver   string        `yaml:"driver"`
	Mongo    MongoStore    `yaml:"mongo"`
	SQL      SQLStore      `yaml:"sql"`
	DynamoDB DynamoDBStore `yaml:"dynamodb"`
}

type MongoStore struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type SQLStore struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type DynamoDBStore struct {
	Region            string `yaml:"region"`
	Endpoint          string `yaml:"endpoint"`
	Table             string `yaml:"table"`
	AccessKey         string `yaml:"access_key"`
	SecretKey         string `yaml:"secret_key"`
	SkipTableCreation bool   `yaml:"skip_table_creation"`
}

// Flags are command line overrides; zero values leave the file untouched.
type Flags struct {
	Port   int
	Driver string
	Env    string
}

func Default() *Config {
	return &Config{
		Env:     "local",
		Port:    8080,
		Runtime: string(blog.RuntimeHTTP),
		Store: StoreConfig{
			Driver: DriverMemory,
			Mongo: MongoStore{
				Host:     "localhost",
				Port:     27017,
				Database: "blog",
			},
			SQL: SQLStore{
				Host:     "localhost",
				Port:     5432,
				Username: "postgres",
				Database: "blog",
				SSLMode:  "disable",
			},
			DynamoDB: DynamoDBStore{
				Region: "us-east-1",
				Table:  "blog",
			},
		},
	}
}

// Load reads a YAML file over the defaults. Values written as ${NAME} are
// replaced with the environment variable NAME.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expand()
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Apply(flags Flags) {
	if flags.Port != 0 {
		c.Port = flags.Port
	}
	if flags.Driver != "" {
		c.Store.Driver = flags.Driver
	}
	if flags.Env != "" {
		c.Env = flags.Env
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch blog.Runtime(c.Runtime) {
	case blog.RuntimeHTTP, blog.RuntimeLambda:
	default:
		return fmt.Errorf("unknown runtime %q (want http or lambda)", c.Runtime)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverMongo, DriverPostgres, DriverPgx, DriverDynamoDB:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// IsLocal selects human readable debug logging.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

func (c *Config) MongoConfig() *blog.MongoConfig {
	m := c.Store.Mongo
	return blog.NewMongoConfig().
		WithHost(m.Host, m.Port).
		WithCredentials(m.Username, m.Password).
		WithDatabase(m.Database)
}

func (c *Config) SQLConfig() *blog.SQLConfig {
	s := c.Store.SQL
	cfg := blog.NewSQLConfig().
		WithDriver(c.Store.Driver).
		WithHost(s.Host, s.Port).
		WithCredentials(s.Username, s.Password).
		WithDatabase(s.Database)
	if s.SSLMode != "" {
		cfg.WithOption("sslmode", s.SSLMode)
	}
	return cfg
}

func (c *Config) DynamoDBConfig() *blog.DynamoDBConfig {
	d := c.Store.DynamoDB
	return blog.NewDynamoDBConfig().
		WithRegion(d.Region).
		WithEndpoint(d.Endpoint).
		WithTableName(d.Table).
		WithStaticCredentials(d.AccessKey, d.SecretKey).
		WithSkipTableCreation(d.SkipTableCreation)
}

func (c *Config) expand() {
	for _, s := range []*string{
		&c.Env,
		&c.Runtime,
		&c.Store.Driver,
		&c.Store.Mongo.Host,
		&c.Store.Mongo.Username,
		&c.Store.Mongo.Password,
		&c.Store.Mongo.Database,
		&c.Store.SQL.Host,
		&c.Store.SQL.Username,
		&c.Store.SQL.Password,
		&c.Store.SQL.Database,
		&c.Store.DynamoDB.Region,
		&c.Store.DynamoDB.Endpoint,
		&c.Store.DynamoDB.Table,
		&c.Store.DynamoDB.AccessKey,
		&c.Store.DynamoDB.SecretKey,
	} {
		*s = expandEnv(*s)
	}
}

func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}
