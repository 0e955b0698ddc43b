package main

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Config models the optional user-provided configuration file.
type Config struct {
	Capture CaptureConfig `json:"capture"`
	HTTP    HTTPConfig    `json:"http"`
	Logging LoggingConfig `json:"logging"`
}

// CaptureConfig tunes the demultiplexer.
type CaptureConfig struct {
	// LinkTypeOverride forces the framing mode regardless of what the capture
	// header declares: "ethernet" or "linux-sll". Empty means trust the header.
	LinkTypeOverride string `json:"link_type"`
	// ExcludePorts extends the default port exclusion set (443, 5223, 5228).
	ExcludePorts []int `json:"exclude_ports"`
	// FlowsDir, when set, dumps every reconstructed flow's directional byte
	// sequences under this directory for offline inspection.
	FlowsDir string `json:"flows_dir"`
}

// HTTPConfig tunes the extraction stage.
type HTTPConfig struct {
	// Workers bounds concurrent per-flow HTTP extraction. Zero means one
	// worker per CPU.
	Workers int `json:"workers"`
}

// LoggingConfig captures console verbosity.
type LoggingConfig struct {
	Level string `json:"level"`
}

var (
	keyRe          = regexp.MustCompile(`(?m)(^|\s|[{,])([A-Za-z_][A-Za-z0-9_-]*)(\s*):`)
	trailingComma  = regexp.MustCompile(`,(\s*[}\]])`)
	lineCommentRe  = regexp.MustCompile(`(?m)^\s*(//|#).*$`)
	blockCommentRe = regexp.MustCompile(`/\*.*?\*/`)
)

// LoadConfig parses json-ish configuration files by first normalizing into
// strict JSON. Unquoted keys, comments and trailing commas are tolerated.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	normalized := normalizeJSONish(string(raw))
	if err := json.Unmarshal([]byte(normalized), &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

func normalizeJSONish(text string) string {
	text = blockCommentRe.ReplaceAllString(text, "")
	text = lineCommentRe.ReplaceAllString(text, "")
	text = keyRe.ReplaceAllString(text, `${1}"${2}"${3}:`)
	text = trailingComma.ReplaceAllString(text, `$1`)
	return strings.TrimSpace(text)
}
