package pushdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	conf, err := NewConfig([]byte(`
db_type: postgres
cache_size: 100
debug: true
`))
	require.NoError(t, err)
	assert.Equal(t, "postgres", conf.DBType)
	assert.Equal(t, 100, conf.CacheSize)
	assert.True(t, conf.Debug)
	assert.False(t, conf.DisableCache)
}

func TestNewConfigRejectsBadYAML(t *testing.T) {
	_, err := NewConfig([]byte("db_type: ["))
	assert.Error(t, err)
}

func TestValidateDBType(t *testing.T) {
	assert.NoError(t, ValidateDBType(""))
	assert.NoError(t, ValidateDBType("postgres"))
	assert.NoError(t, ValidateDBType("MySQL"))
	assert.NoError(t, ValidateDBType("oracle"))

	err := ValidateDBType("mssql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mssql")
}

func TestValidateCacheSize(t *testing.T) {
	c := &Config{CacheSize: -1}
	assert.Error(t, c.Validate())

	c = &Config{}
	require.NoError(t, c.Validate())
	assert.Equal(t, defaultCacheSize, c.cacheSize())

	c = &Config{CacheSize: 10}
	assert.Equal(t, 10, c.cacheSize())
}
