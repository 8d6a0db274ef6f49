package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "sql", cfg.Storage.Backend)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Storage.OpTimeout)
	assert.Equal(t, 2*time.Second, cfg.Lock.Wait)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Storage.SeedSampleData)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LOCK_TTL", "750ms")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("SEED_SAMPLE_DATA", "1")

	cfg := LoadEnv()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Lock.TTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.Storage.SeedSampleData)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Driver: "mysql", Host: "db", Port: "3306", User: "u", Password: "p", DBName: "inv"}
	assert.Equal(t, "u:p@tcp(db:3306)/inv?parseTime=true", c.DSN())

	c.Driver = "postgres"
	c.Port = "5432"
	c.SSLMode = "disable"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=inv sslmode=disable", c.DSN())
}
