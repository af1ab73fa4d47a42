package s0_data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/pkg/config"
	"github.com/wonny/lotoscope/pkg/httputil"
	"github.com/wonny/lotoscope/pkg/logger"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want Format
	}{
		{"html extension", "page.HTML", "", FormatHTML},
		{"text extension", "history.txt", "<table>", FormatText},
		{"sniff html", "", "  <!doctype html><table>", FormatHTML},
		{"sniff text", "", "2024-01-01\n12 34", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.file, []byte(tt.data)))
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	_, _, err := Parse([]byte("x"), Format("csv"))
	assert.Error(t, err)
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.txt")
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01: 12 34\nbad line\n"), 0o644))

	src := NewFileSource(path, logger.Nop())
	draws, warnings, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, []string{"12", "34"}, draws[0].Numbers)
	assert.Len(t, warnings, 1)

	_, _, err = NewFileSource(filepath.Join(dir, "missing.txt"), logger.Nop()).Load(context.Background())
	assert.Error(t, err)
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	cfg := &config.Config{
		Env: "test",
		HTTP: config.HTTPConfig{
			Timeout:       5 * time.Second,
			RatePerSecond: 100,
		},
		History: config.HistoryConfig{SourceURL: server.URL},
	}
	client := httputil.New(cfg, logger.Nop())

	src := NewSource(cfg, client, logger.Nop())
	require.IsType(t, &URLSource{}, src)

	draws, _, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, draws, 2)
}

func TestNewSource_PrefersFileWithoutURL(t *testing.T) {
	cfg := &config.Config{History: config.HistoryConfig{File: "history.txt"}}
	src := NewSource(cfg, nil, logger.Nop())
	assert.IsType(t, &FileSource{}, src)
}
