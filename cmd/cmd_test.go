package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"mal_id":16498,"title":"Attack on Titan","synopsis":"Walls.","images":{"jpg":{"image_url":"https://img.test/aot.jpg"}},"score":8.54,"year":2013}]}`))
	}))
	defer server.Close()
	t.Setenv("JIKAN_BASE_URL", server.URL)

	out, err := execute(t, "search", "attack", "on", "titan")
	require.NoError(t, err)
	assert.Equal(t, "attack on titan", gotQuery)
	assert.Contains(t, out, "Attack on Titan [#16498]")
	assert.Contains(t, out, "Year: 2013  Score: 8.54")

	out, err = execute(t, "search", "titan", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"imageUrl": "https://img.test/aot.jpg"`)
}

func TestSearchCommand_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()
	t.Setenv("JIKAN_BASE_URL", server.URL)

	_, err := execute(t, "search", "naruto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestRecommendCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "text",
			args: []string{"recommend", "20", "1735"},
			want: []string{"Demo Recommendation A", "Demo Recommendation B", "Why: "},
		},
		{
			name: "yaml",
			args: []string{"recommend", "20", "--format", "yaml"},
			want: []string{"results:", "title: Demo Recommendation A"},
		},
		{
			name:    "bad id",
			args:    []string{"recommend", "twenty"},
			wantErr: `invalid anime id "twenty"`,
		},
		{
			name:    "bad format",
			args:    []string{"recommend", "1", "--format", "xml"},
			wantErr: "unknown format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("ANIME_LOG_FORMAT", "xml")
	_, err := execute(t, "recommend", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
