package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		wantLevel string
		wantMsg   string
	}{
		{input: "", wantLevel: "INFO", wantMsg: ""},
		{input: "[error] boom", wantLevel: "ERROR", wantMsg: "boom"},
		{input: "WARN: disk low", wantLevel: "WARN", wantMsg: "disk low"},
		{input: "DEBUG chunk read", wantLevel: "DEBUG", wantMsg: "chunk read"},
		{input: "ingested report.pdf", wantLevel: "INFO", wantMsg: "ingested report.pdf"},
		{input: "[nope] still info", wantLevel: "INFO", wantMsg: "[nope] still info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, msg := parseLevel(tt.input)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestJSONLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newJSONLogWriter("filevars", &buf)
	w.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err := w.Write([]byte("ERROR ingest failed\n"))
	require.NoError(t, err)

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, map[string]string{
		"ts":       "2026-01-02T03:04:05Z",
		"level":    "ERROR",
		"service":  "filevars",
		"msg":      "ingest failed",
		"trace_id": "",
	}, entry)
}

func TestInitWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	var buf bytes.Buffer

	tel, err := Init(context.Background(), "filevars-test", Options{Output: &buf})
	require.NoError(t, err)
	defer func() { _ = tel.Shutdown(context.Background()) }()

	ctx, span := tel.Tracer.Start(context.Background(), "build")
	tel.LogContext(ctx, "info", "built %s", "report.pdf")
	span.End()

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "built report.pdf", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Len(t, entry["trace_id"], 32)
}

func TestInitRequiresServiceName(t *testing.T) {
	_, err := Init(context.Background(), "", Options{})
	require.Error(t, err)
}

func TestMiddlewareLogsRequests(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	var buf bytes.Buffer
	tel, err := Init(context.Background(), "filevars-test", Options{Output: &buf})
	require.NoError(t, err)

	handler := tel.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, strings.Contains(buf.String(), "GET /healthz 418"))
}

func TestNewTraceExporterRejectsHostlessURL(t *testing.T) {
	_, err := newTraceExporter(context.Background(), "http://")
	require.Error(t, err)
}
