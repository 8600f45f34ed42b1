package pack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load error codes - unified across file and URL loading.
const (
	ErrCodeGeneric      = "E001" // generic/unknown error
	ErrCodeDecodeFailed = "E004" // document failed to parse
	ErrCodeNotFound     = "E005" // file path not found
	ErrCodeFetchFailed  = "E006" // URL fetch failed or non-200
)

// LoadError represents an error that occurred while reading or decoding a
// pack document, before structural validation.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads pack documents from files or URLs. JSON is the canonical
// wire format; YAML is accepted for hand-authored packs and converted to
// the canonical form before decoding.
//
// The URL path is a single fetch-then-parse sequence with no retry; the
// caller decides retry policy on error.
type Loader struct {
	client *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = c
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and decodes a pack from a .json, .yaml, or .yml file.
// Decoding only - the pack is validated when registered via Repository.Load.
func (l *Loader) LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pack file not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading pack file %s", path), Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data, path)
	default:
		return decodeJSON(data, path)
	}
}

// LoadURL fetches and decodes a pack from a URL. Non-200 responses and
// transport failures are returned as *LoadError with ErrCodeFetchFailed;
// there is no automatic retry.
func (l *Loader) LoadURL(ctx context.Context, url string) (*Pack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeFetchFailed, Message: fmt.Sprintf("building request for %s", url), Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeFetchFailed, Message: fmt.Sprintf("fetching pack from %s", url), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{
			Code:    ErrCodeFetchFailed,
			Message: fmt.Sprintf("fetching pack from %s: status %d", url, resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeFetchFailed, Message: fmt.Sprintf("reading pack body from %s", url), Err: err}
	}

	return decodeJSON(data, url)
}

func decodeJSON(data []byte, source string) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing pack JSON from %s", source), Err: err}
	}
	return &p, nil
}

func decodeYAML(data []byte, source string) (*Pack, error) {
	// YAML arrives as map[string]any; round-trip through JSON so the pack
	// decodes with the same field names and rules as the canonical format.
	var raw map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing pack YAML from %s", source), Err: err}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("converting pack YAML from %s", source), Err: err}
	}
	return decodeJSON(jsonData, source)
}
