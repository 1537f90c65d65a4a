package util

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	_ = os.Setenv("TEST_GETENV", "")
	assert.Equal(t, "default", Getenv("TEST_GETENV", "default"))

	_ = os.Setenv("TEST_GETENV", "value")
	assert.Equal(t, "value", Getenv("TEST_GETENV", "default"))

	_ = os.Unsetenv("TEST_GETENV")
}
