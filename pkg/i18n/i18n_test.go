package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLocalesResolveAnywhere(t *testing.T) {
	// embedded files: no dependence on the process working directory
	support, err := NewI18nSupport("vi")
	require.NoError(t, err)

	assert.Equal(t, "Chờ xử lý", support.StatusLabel("vi", "request", "PENDING"))
	assert.Equal(t, "Đang bận", support.StatusLabel("vi", "team", "BUSY"))
	assert.Equal(t, "Available", support.StatusLabel("en", "team", "AVAILABLE"))
	assert.Equal(t, "Rescue request submitted.", support.T("en", "request.created", nil))
}

func TestUnknownKeyFallsBackToKey(t *testing.T) {
	support, err := NewI18nSupport("vi")
	require.NoError(t, err)

	assert.Equal(t, "status.request.UNKNOWN", support.StatusLabel("vi", "request", "UNKNOWN"))
}
