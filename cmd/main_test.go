package main

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestParseConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := parseConfig("does-not-exist.env")
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.appHost)
	assert.Equal(t, "8080", cfg.appPort)
	assert.Equal(t, 5432, cfg.pgPort)
	assert.Equal(t, 6379, cfg.redisPort)
	assert.Equal(t, "transactions", cfg.queueName)
	assert.Equal(t, 3, cfg.attempts)
	assert.Equal(t, 2000*time.Millisecond, cfg.backoffDelay)
	assert.Equal(t, 30*time.Second, cfg.leaseDuration)
	assert.Equal(t, 100, cfg.removeOnComplete)
	assert.Equal(t, 1000, cfg.removeOnFail)
	assert.Equal(t, 4, cfg.concurrency)
}

func TestParseConfig_Overrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("QUEUE_ATTEMPTS", "5")
	os.Setenv("QUEUE_BACKOFF_DELAY_MS", "100")
	os.Setenv("QUEUE_LEASE_MS", "5000")
	os.Setenv("WORKER_CONCURRENCY", "8")
	defer os.Clearenv()

	cfg, err := parseConfig("does-not-exist.env")
	assert.NoError(t, err)

	assert.Equal(t, 5, cfg.attempts)
	assert.Equal(t, 100*time.Millisecond, cfg.backoffDelay)
	assert.Equal(t, 5*time.Second, cfg.leaseDuration)
	assert.Equal(t, 8, cfg.concurrency)
}

func TestParseConfig_InvalidInt(t *testing.T) {
	os.Clearenv()
	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer os.Clearenv()

	_, err := parseConfig("does-not-exist.env")
	assert.Error(t, err)
}
