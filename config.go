package pushdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the static settings of a pushdown engine. All fields are
// optional; the zero value targets the ANSI dialect with caching enabled.
type Config struct {
	// DBType names the target database dialect (postgres, mysql, mariadb,
	// sqlite, oracle). Empty defaults to ansi.
	DBType string `mapstructure:"db_type" json:"db_type" yaml:"db_type" jsonschema:"title=Database Type"`

	// DisableCache turns off the generated-SQL cache
	DisableCache bool `mapstructure:"disable_cache" json:"disable_cache" yaml:"disable_cache" jsonschema:"title=Disable SQL Cache,default=false"`

	// CacheSize caps the number of cached statements. Zero picks the default
	CacheSize int `mapstructure:"cache_size" json:"cache_size" yaml:"cache_size" jsonschema:"title=SQL Cache Size"`

	// Debug enables logging of every generated statement
	Debug bool `mapstructure:"debug" json:"debug" yaml:"debug" jsonschema:"title=Debug,default=false"`
}

const defaultCacheSize = 5000

// SupportedDBTypes lists the database types with a built-in dialect
var SupportedDBTypes = []string{"ansi", "postgres", "postgresql", "mysql", "mariadb", "sqlite", "oracle"}

// ValidateDBType checks if the given database type is supported
func ValidateDBType(dbType string) error {
	if dbType == "" {
		return nil // Empty defaults to ansi, which is valid
	}
	for _, t := range SupportedDBTypes {
		if strings.EqualFold(dbType, t) {
			return nil
		}
	}
	return fmt.Errorf("unsupported database type %q: supported types are %s",
		dbType, strings.Join(SupportedDBTypes, ", "))
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := ValidateDBType(c.DBType); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative: %d", c.CacheSize)
	}
	return nil
}

func (c *Config) cacheSize() int {
	if c.CacheSize <= 0 {
		return defaultCacheSize
	}
	return c.CacheSize
}

// NewConfig parses a YAML document into a Config
func NewConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
