package pack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packJSON = `{
  "id": "england-core",
  "name": "England core pack",
  "version": "1.2.0",
  "jurisdiction": "england",
  "rules": [
    {
      "id": "r1",
      "name": "Homeless tonight",
      "priority": 100,
      "conditions": {
        "type": "all",
        "rules": [
          {"field": "situation.homelessTonight", "operator": "equals", "value": true}
        ]
      },
      "actions": ["a1"]
    }
  ],
  "actions": [
    {"id": "a1", "name": "Contact housing options", "type": "immediate", "urgency": "critical"}
  ]
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	l := NewLoader()
	p, err := l.LoadFile(writeTempFile(t, "pack.json", packJSON))
	require.NoError(t, err)

	assert.Equal(t, "england-core", p.ID)
	require.Len(t, p.Rules, 1)
	assert.Equal(t, 100, p.Rules[0].Priority)
	assert.Equal(t, OpEquals, p.Rules[0].Conditions.Rules[0].Operator)
	assert.Equal(t, true, p.Rules[0].Conditions.Rules[0].Value)
	require.Len(t, p.Actions, 1)
	assert.Equal(t, UrgencyCritical, p.Actions[0].Urgency)
}

func TestLoadFile_YAML(t *testing.T) {
	const packYAML = `
id: wales-core
name: Wales core pack
version: 1.0.0
jurisdiction: wales
rules:
  - id: r1
    name: Homeless tonight
    conditions:
      type: all
      rules:
        - field: situation.homelessTonight
          operator: equals
          value: true
    actions: [a1]
`
	l := NewLoader()
	p, err := l.LoadFile(writeTempFile(t, "pack.yaml", packYAML))
	require.NoError(t, err)

	assert.Equal(t, "wales-core", p.ID)
	require.Len(t, p.Rules, 1)
	assert.Equal(t, []string{"a1"}, p.Rules[0].Actions)
}

func TestLoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadFile_MalformedJSON(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadFile(writeTempFile(t, "bad.json", "{not json"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeDecodeFailed, le.Code)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(packJSON))
	}))
	defer srv.Close()

	l := NewLoader()
	p, err := l.LoadURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "england-core", p.ID)
}

// Non-200 responses propagate as load errors; no retry.
func TestLoadURL_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader()
	_, err := l.LoadURL(context.Background(), srv.URL)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeFetchFailed, le.Code)
}

func TestLoadURL_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	l := NewLoader()
	_, err := l.LoadURL(context.Background(), url)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeFetchFailed, le.Code)
}

// The JSON document is the wire contract and must round-trip through load
// and re-serialization.
func TestPack_RoundTrip(t *testing.T) {
	var first Pack
	require.NoError(t, json.Unmarshal([]byte(packJSON), &first))

	out, err := json.Marshal(&first)
	require.NoError(t, err)

	var second Pack
	require.NoError(t, json.Unmarshal(out, &second))
	assert.Equal(t, first, second)
}
