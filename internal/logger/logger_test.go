package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutsideLocal(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	log := NewWithOutput(&buf)

	req := httptest.NewRequest("GET", "/api/journey", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	log.Component("server").WithRequest(req).Info("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "handled", entry["msg"])
	assert.Equal(t, "req-1", entry["req_id"])
	assert.Equal(t, "/api/journey", entry["path"])
	assert.Equal(t, "server", entry["component"])
}

func TestWithError(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	var buf bytes.Buffer
	log := NewWithOutput(&buf)

	log.WithError(errors.New("boom")).Warn("failed")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])

	assert.Equal(t, log.Entry, log.WithError(nil))
}

func TestRequestIDFallsBackToUUID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Len(t, RequestID(req), 36)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
}
