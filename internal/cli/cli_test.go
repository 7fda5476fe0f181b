package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/uapush/internal/cli"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
)

const pushYAML = `
audience:
  tag: kittens
device_types: [ios, android]
notification:
  alert: Hello
  ios:
    badge: "+1"
    sound: cat.caf
    interactive:
      type: ua_yes_no_foreground
  android:
    title: Hi
    style:
      type: big_text
      content: a longer story
options:
  expiry: 3600
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "push.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UA_APP_KEY", "key")
	t.Setenv("UA_MASTER_SECRET", "secret")
	t.Setenv("UA_LOG_LEVEL", "silent")
	t.Setenv("UA_TELEMETRY_ENABLED", "false")
	t.Setenv("UA_CACHE_ENABLED", "false")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "uapush dev")
}

func TestBuildCommand(t *testing.T) {
	setEnv(t)
	out, err := run(t, "build", writeFile(t, pushYAML))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"audience": {"tag": "kittens"},
		"device_types": ["ios", "android"],
		"notification": {
			"alert": "Hello",
			"ios": {
				"badge": "+1",
				"sound": "cat.caf",
				"interactive": {"type": "ua_yes_no_foreground"}
			},
			"android": {
				"title": "Hi",
				"style": {"type": "big_text", "big_text": "a longer story"}
			}
		},
		"options": {"expiry": 3600}
	}`, out)
}

func TestBuildCommand_JSONInput(t *testing.T) {
	setEnv(t)
	out, err := run(t, "build", writeFile(t,
		`{"audience": "all", "device_types": "all", "message": {"title": "T", "body": "<b>B</b>", "campaigns": {"categories": "kittens"}}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"audience": "all",
		"device_types": "all",
		"message": {"title": "T", "body": "<b>B</b>", "campaigns": {"categories": ["kittens"]}}
	}`, out)
}

func TestBuildCommand_Errors(t *testing.T) {
	setEnv(t)

	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{
			name:    "unknown field",
			content: "audience: all\ndevice_types: all\nnotification:\n  alrt: hi\n",
			check:   func(err error) bool { return uaerrors.GetErrorCode(err) == uaerrors.ErrDeserializationFailed },
		},
		{
			name:    "invalid badge",
			content: "audience: all\ndevice_types: all\nnotification:\n  ios:\n    badge: \"*5\"\n",
			check:   uaerrors.IsValueError,
		},
		{
			name:    "nested interactive without type",
			content: "audience: all\ndevice_types: all\nnotification:\n  android:\n    interactive:\n      button_actions: {}\n",
			check:   uaerrors.IsMissingField,
		},
		{
			name:    "missing audience",
			content: "device_types: all\nnotification:\n  alert: hi\n",
			check:   uaerrors.IsMissingField,
		},
		{
			name:    "missing device types",
			content: "audience: all\nnotification:\n  alert: hi\n",
			check:   uaerrors.IsMissingField,
		},
		{
			name:    "bad device type",
			content: "audience: all\ndevice_types: [ios, symbian]\nnotification:\n  alert: hi\n",
			check:   uaerrors.IsValueError,
		},
		{
			name:    "no content",
			content: "audience: all\ndevice_types: all\n",
			check:   uaerrors.IsMissingField,
		},
		{
			name:    "empty notification",
			content: "audience: all\ndevice_types: all\nnotification: {}\n",
			check:   uaerrors.IsEmptyPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "build", writeFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestBuildCommand_MissingFile(t *testing.T) {
	setEnv(t)
	_, err := run(t, "build", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, uaerrors.IsConfigError(err))
}

func TestSendCommand(t *testing.T) {
	setEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/push/", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"tag": "kittens"}, body["audience"])

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok": true, "operation_id": "op-1", "push_ids": ["p-1"]}`))
	}))
	defer server.Close()

	out, err := run(t, "send", "--base-url", server.URL, writeFile(t, pushYAML))
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "op-1", resp["operation_id"])
	assert.Equal(t, []any{"p-1"}, resp["push_ids"])
}

func TestSendCommand_DryRun(t *testing.T) {
	setEnv(t)
	paths := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	out, err := run(t, "send", "--dry-run", "--base-url", server.URL, writeFile(t, pushYAML))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
	require.Len(t, paths, 1)
	assert.Equal(t, "/push/validate/", <-paths)
}

func TestValidateCommand(t *testing.T) {
	setEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/push/validate/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false, "error": "Could not parse request body", "error_code": 40001}`))
	}))
	defer server.Close()

	_, err := run(t, "validate", "--base-url", server.URL, writeFile(t, pushYAML))
	require.Error(t, err)
	assert.True(t, uaerrors.IsAPIError(err))
	assert.Equal(t, http.StatusBadRequest, uaerrors.GetStatusCode(err))
}

func TestValidateCommand_MissingCredentials(t *testing.T) {
	setEnv(t)
	t.Setenv("UA_APP_KEY", "")
	_, err := run(t, "validate", writeFile(t, pushYAML))
	assert.Equal(t, uaerrors.ErrMissingCredentials, uaerrors.GetErrorCode(err))
}

func TestStatsCommand(t *testing.T) {
	setEnv(t)
	t.Setenv("UA_CACHE_ENABLED", "true")
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/reports/responses/push-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"push_uuid": "push-1", "sends": 12}`))
	}))
	defer server.Close()

	out, err := run(t, "stats", "--base-url", server.URL, "push-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"push_uuid": "push-1", "sends": 12}`, out)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResponsesCommand(t *testing.T) {
	setEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports/responses/list", r.URL.Path)
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"pushes": [{"push_uuid": "b"}]}`))
			return
		}
		assert.Equal(t, "2024-01-01 00:00:00", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-01-02 12:30:00", r.URL.Query().Get("end"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"pushes": [{"push_uuid": "a"}], "next_page": "http://` + r.Host + `/reports/responses/list?page=2"}`))
	}))
	defer server.Close()

	out, err := run(t, "responses", "--base-url", server.URL,
		"--start", "2024-01-01", "--end", "2024-01-02T12:30:00Z", "--limit", "5", "--all")
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewBufferString(out))
	var pages []map[string]any
	for dec.More() {
		var page map[string]any
		require.NoError(t, dec.Decode(&page))
		pages = append(pages, page)
	}
	require.Len(t, pages, 2)
	assert.NotContains(t, pages[1], "next_page")
}

func TestResponsesCommand_BadDates(t *testing.T) {
	setEnv(t)

	_, err := run(t, "responses", "--end", "2024-01-02")
	assert.True(t, uaerrors.IsMissingField(err))

	_, err = run(t, "responses", "--start", "yesterday", "--end", "2024-01-02")
	assert.True(t, uaerrors.IsValueError(err))
}
