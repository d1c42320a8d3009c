package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "couponleg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultConfig, GetConfig())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
defaults:
  calendar: JPN
  day_counter: ACT/365F
  representation: in-arrears
logging:
  level: debug
  format: json
batch:
  concurrency: 8
`)
	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "JPN", c.Defaults.Calendar)
	assert.Equal(t, "ACT/365F", c.Defaults.DayCounter)
	assert.Equal(t, "in-arrears", c.Defaults.Representation)
	// unset keys keep their defaults
	assert.Equal(t, DefaultConfig.Defaults.PaymentAdjustment, c.Defaults.PaymentAdjustment)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, 8, c.Batch.Concurrency)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("COUPONLEG_STORE_DSN", "postgres://legs@localhost/legs?sslmode=disable")
	t.Setenv("COUPONLEG_BATCH_CONCURRENCY", "2")

	c, err := LoadFromFile(writeFile(t, "batch:\n  concurrency: 16\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://legs@localhost/legs?sslmode=disable", c.Store.DSN)
	assert.Equal(t, 2, c.Batch.Concurrency)
}

func TestLoadRejectsInvalidDefaults(t *testing.T) {
	cases := map[string]string{
		"calendar":    "defaults:\n  calendar: MARS\n",
		"day counter": "defaults:\n  day_counter: BUS/252\n",
		"convention":  "defaults:\n  payment_adjustment: NEAREST\n",
		"format":      "logging:\n  format: xml\n",
		"concurrency": "batch:\n  concurrency: 0\n",
	}
	for name, body := range cases {
		_, err := LoadFromFile(writeFile(t, body))
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSetConfig(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	c := DefaultConfig
	c.Batch.Concurrency = 1
	SetConfig(c)
	assert.Equal(t, 1, GetConfig().Batch.Concurrency)
}
