package s0_data

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/config"
	"github.com/wonny/lotoscope/pkg/httputil"
	"github.com/wonny/lotoscope/pkg/logger"
)

// Format identifies the history input format
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// DetectFormat picks a parser from a file extension, falling back to content sniffing
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".text":
		return FormatText
	}

	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<")) || bytes.Contains(lower, []byte("<table")) {
		return FormatHTML
	}
	return FormatText
}

// Parse dispatches to the text or HTML parser
func Parse(data []byte, format Format) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	switch format {
	case FormatHTML:
		return ParseHTML(data)
	case FormatText:
		draws, warnings := ParseText(string(data))
		return draws, warnings, nil
	default:
		return nil, nil, fmt.Errorf("unknown format %q: %w", format, contracts.ErrInvalidArgument)
	}
}

// LoadFile reads and parses a history file, choosing the parser by extension
func LoadFile(path string) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read history file: %w", err)
	}
	return Parse(data, DetectFormat(path, data))
}

// FileSource loads draws from a local file
type FileSource struct {
	Path   string
	logger *logger.Logger
}

// NewFileSource creates a FileSource
func NewFileSource(path string, log *logger.Logger) *FileSource {
	return &FileSource{Path: path, logger: log.WithStage(contracts.StageData)}
}

// Load implements contracts.DrawSource
func (s *FileSource) Load(ctx context.Context) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	draws, warnings, err := LoadFile(s.Path)
	if err != nil {
		return nil, nil, err
	}
	logWarnings(s.logger, warnings)

	s.logger.WithFields(map[string]interface{}{
		"path":     s.Path,
		"days":     len(draws),
		"warnings": len(warnings),
	}).Info("History file loaded")

	return draws, warnings, nil
}

// Fetcher downloads result pages through the shared HTTP client
// ⭐ SSOT: 원격 히스토리 수집은 이 Fetcher에서만
type Fetcher struct {
	client *httputil.Client
	logger *logger.Logger
}

// NewFetcher creates a new Fetcher
func NewFetcher(client *httputil.Client, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: log.WithStage(contracts.StageData),
	}
}

// Fetch downloads url and parses the body (HTML or text by sniffing)
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	body, err := f.client.GetBody(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch history: %w", err)
	}

	draws, warnings, err := Parse(body, DetectFormat(url, body))
	if err != nil {
		return nil, nil, err
	}
	logWarnings(f.logger, warnings)

	f.logger.WithFields(map[string]interface{}{
		"url":      url,
		"bytes":    len(body),
		"days":     len(draws),
		"warnings": len(warnings),
	}).Info("History fetched")

	return draws, warnings, nil
}

// URLSource loads draws from a remote page
type URLSource struct {
	URL     string
	fetcher *Fetcher
}

// Load implements contracts.DrawSource
func (s *URLSource) Load(ctx context.Context) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	return s.fetcher.Fetch(ctx, s.URL)
}

// NewSource returns the remote source when SOURCE_URL is set, otherwise the history file
func NewSource(cfg *config.Config, client *httputil.Client, log *logger.Logger) contracts.DrawSource {
	if cfg.History.SourceURL != "" {
		return &URLSource{URL: cfg.History.SourceURL, fetcher: NewFetcher(client, log)}
	}
	return NewFileSource(cfg.History.File, log)
}

func logWarnings(log *logger.Logger, warnings []contracts.ParseWarning) {
	for _, w := range warnings {
		log.WithFields(map[string]interface{}{
			"line": w.Line,
			"text": w.Text,
		}).Warn(w.Message)
	}
}
