package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name:    "missing endpoint",
			env:     map[string]string{"S3_ACCESS_KEY": "a", "S3_SECRET_KEY": "b"},
			wantErr: true,
		},
		{
			name:    "missing credentials",
			env:     map[string]string{"S3_ENDPOINT": "minio:9000"},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"S3_ENDPOINT": " minio:9000 ", "S3_ACCESS_KEY": "a", "S3_SECRET_KEY": "b"},
			want: Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", Region: "us-east-1", ForcePathStyle: true},
		},
		{
			name: "overrides",
			env: map[string]string{
				"S3_ENDPOINT":         "minio:9000",
				"S3_ACCESS_KEY":       "a",
				"S3_SECRET_KEY":       "b",
				"S3_REGION":           "eu-west-1",
				"S3_DISABLE_TLS":      "true",
				"S3_FORCE_PATH_STYLE": "false",
			},
			want: Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", Region: "eu-west-1", DisableTLS: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_REGION", "S3_DISABLE_TLS", "S3_FORCE_PATH_STYLE"} {
				t.Setenv(key, tt.env[key])
			}

			got, err := ConfigFromEnv()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://minio:9000", Config{Endpoint: "minio:9000"}.BaseURL())
	assert.Equal(t, "http://minio:9000", Config{Endpoint: "minio:9000", DisableTLS: true}.BaseURL())
	assert.Equal(t, "http://s3.local", Config{Endpoint: "http://s3.local"}.BaseURL())
}

func TestGetObjectValidation(t *testing.T) {
	var nilClient *Client
	_, _, err := nilClient.GetObject(context.Background(), "b", "k")
	require.Error(t, err)

	client, err := NewClient(context.Background(), Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Region: "us-east-1"})
	require.NoError(t, err)
	_, _, err = client.GetObject(context.Background(), "", "k")
	require.Error(t, err)
}

func TestGetObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/payloads/report.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "a,b\n1,2\n")
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		Endpoint:       server.URL,
		AccessKey:      "a",
		SecretKey:      "b",
		Region:         "us-east-1",
		ForcePathStyle: true,
	})
	require.NoError(t, err)

	body, contentType, err := client.GetObject(context.Background(), "payloads", "report.csv")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
	assert.Equal(t, "text/csv", contentType)
}
