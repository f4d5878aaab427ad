package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("KITS_TEST_DURATION", "not-a-duration")
	t.Setenv("KITS_TEST_INT", "abc")
	t.Setenv("KITS_TEST_INT32", "99999999999")
	t.Setenv("KITS_TEST_FLOAT", "x")

	assert.Equal(t, 5*time.Second, getDurationEnv("KITS_TEST_DURATION", 5*time.Second))
	assert.Equal(t, 7, getIntEnv("KITS_TEST_INT", 7))
	assert.Equal(t, int32(3), getInt32Env("KITS_TEST_INT32", 3))
	assert.Equal(t, 25.0, getFloatEnv("KITS_TEST_FLOAT", 25))
}

func TestGetEnvHelpersParseValidValues(t *testing.T) {
	t.Setenv("KITS_TEST_DURATION", "90s")
	t.Setenv("KITS_TEST_INT", "42")
	t.Setenv("KITS_TEST_INT32", "32768")
	t.Setenv("KITS_TEST_FLOAT", "19.5")

	assert.Equal(t, 90*time.Second, getDurationEnv("KITS_TEST_DURATION", time.Second))
	assert.Equal(t, 42, getIntEnv("KITS_TEST_INT", 0))
	assert.Equal(t, int32(32768), getInt32Env("KITS_TEST_INT32", 0))
	assert.Equal(t, 19.5, getFloatEnv("KITS_TEST_FLOAT", 0))
}

func TestValidateNormalizesBounds(t *testing.T) {
	cfg := &Config{JWTSecret: "secret", FeedRetries: 0, CatalogPageSize: -1}
	cfg.Validate()

	assert.Equal(t, 1, cfg.FeedRetries)
	assert.Equal(t, 20, cfg.CatalogPageSize)
}

func TestR2Enabled(t *testing.T) {
	cfg := &Config{R2AccountID: "acc", R2AccessKeyID: "key", R2AccessKeySecret: "secret"}
	assert.False(t, cfg.R2Enabled())

	cfg.R2BucketName = "kits"
	assert.True(t, cfg.R2Enabled())
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("KITS_TEST_LIST", " Admin@Kits.test, ,ops@kits.test")
	assert.Equal(t, []string{"admin@kits.test", "ops@kits.test"}, getListEnv("KITS_TEST_LIST"))
	assert.Nil(t, getListEnv("KITS_TEST_LIST_MISSING"))
}
