package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/pocket-cli/internal/config"
	"github.com/samvad-hq/pocket-cli/pkg/httpclient"
)

// countingHTTP fails the test if any request is attempted.
type countingHTTP struct {
	calls atomic.Int32
}

func (c *countingHTTP) Post(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("unexpected request")
}

func testDeps(t *testing.T, baseURL string) (deps, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return deps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				ConsumerKey: "ck",
				AccessToken: "at",
				APIBaseURL:  baseURL,
				LogLevel:    "error",
			}, nil
		},
		stdout: &out,
		stderr: &bytes.Buffer{},
	}, &out
}

func TestMissingCredentialStopsBeforeAnyRequest(t *testing.T) {
	t.Setenv(config.ConsumerKeyEnv, "")
	t.Setenv(config.AccessTokenEnv, "at")

	transport := &countingHTTP{}
	var out, errOut bytes.Buffer
	d := deps{
		loadConfig: func() (*config.Config, error) { return config.Load(t.TempDir() + "/none.env") },
		httpClient: transport,
		stdout:     &out,
		stderr:     &errOut,
	}

	err := run(context.Background(), []string{"retrieve", "--count", "1"}, d)
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, config.ConsumerKeyEnv, cfgErr.Variable)
	assert.Zero(t, transport.calls.Load())
	assert.Empty(t, out.String())

	var report bytes.Buffer
	reportError(&report, err)
	assert.Equal(t, "ERROR: POCKET_CONSUMER_KEY is not set\n", report.String())
}

func TestBareCommandPrintsHelp(t *testing.T) {
	var out bytes.Buffer
	d := deps{
		loadConfig: func() (*config.Config, error) {
			t.Fatalf("config must not be loaded for help")
			return nil, nil
		},
		stdout: &out,
		stderr: &bytes.Buffer{},
	}

	require.NoError(t, run(context.Background(), []string{}, d))
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "retrieve")
	assert.Contains(t, out.String(), "Pass --force to send it.")
}

func TestInvalidLogLevelFailsBeforeAnyRequest(t *testing.T) {
	transport := &countingHTTP{}
	d, out := testDeps(t, "http://127.0.0.1:1/v3/")
	d.httpClient = transport
	d.loadConfig = func() (*config.Config, error) {
		return &config.Config{ConsumerKey: "ck", AccessToken: "at", APIBaseURL: "http://127.0.0.1:1/v3/", LogLevel: "chatty"}, nil
	}

	err := run(context.Background(), []string{"retrieve"}, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
	assert.Zero(t, transport.calls.Load())
	assert.Empty(t, out.String())
}

func TestRetrieveSendsOnlyChangedFlags(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/get", r.URL.Path)
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		body = buf.Bytes()
		_, _ = w.Write([]byte(`{"list": {}}`))
	}))
	defer srv.Close()

	d, out := testDeps(t, srv.URL+"/v3/")
	err := run(context.Background(), []string{"retrieve", "--content-type", "video", "--favorite", "0"}, d)
	require.NoError(t, err)

	assert.Equal(t, "{\"list\": {}}\n", out.String())
	assert.JSONEq(t, `{"contentType":"video","favorite":0,"consumer_key":"ck","access_token":"at"}`, string(body))
}

func TestAddDefaultsToDryRun(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer srv.Close()

	d, out := testDeps(t, srv.URL+"/v3/")
	require.NoError(t, run(context.Background(), []string{"add", "--url", "https://example.com"}, d))
	assert.Zero(t, hits.Load())
	assert.Contains(t, out.String(), `"dry_run": true`)
	assert.NotContains(t, out.String(), `"at"`)

	d, out = testDeps(t, srv.URL+"/v3/")
	require.NoError(t, run(context.Background(), []string{"--force", "add", "--url", "https://example.com", "--tweet-id", "42"}, d))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "{\"status\":1}\n", out.String())
}

func TestAddRequiresURL(t *testing.T) {
	d, _ := testDeps(t, "http://127.0.0.1:1/v3/")
	err := run(context.Background(), []string{"add", "--title", "x"}, d)
	assert.Error(t, err)
}

func TestDryRunAndForceAreExclusive(t *testing.T) {
	d, _ := testDeps(t, "http://127.0.0.1:1/v3/")
	err := run(context.Background(), []string{"--dry-run", "--force", "add", "--url", "https://example.com"}, d)
	assert.Error(t, err)
}

func TestRemoteErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Error", "rate limited")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d, out := testDeps(t, srv.URL+"/v3/")
	err := run(context.Background(), []string{"retrieve"}, d)
	require.Error(t, err)
	assert.Empty(t, out.String())

	var report bytes.Buffer
	reportError(&report, err)
	assert.Equal(t, "ERROR: retrieve: pocket: retrieve failed with status 503: rate limited\n", report.String())
}
