package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.log"), []byte(sampleLog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.log"), 0o755))

	cfg := DefaultConfig()
	cfg.Policy = "equal"
	cfg.SidecarPaths = []string{}

	srv, err := newReportServer(dir, cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServe_List(t *testing.T) {
	ts := newTestReportServer(t)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<a href="/reports/run.log">run.log</a>`)
	assert.NotContains(t, body, "notes.md")
	assert.NotContains(t, body, "nested.log")
}

func TestServe_ReportHTML(t *testing.T) {
	ts := newTestReportServer(t)

	resp, body := get(t, ts.URL+"/reports/run.log")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<h1>ZisK Cycle Counting Report")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "500,000")
}

func TestServe_ReportHTMLEscapesLogText(t *testing.T) {
	dir := t.TempDir()
	hostile := "x` <img src=x onerror=alert(1)> `y"
	log := "Main Cost: 1.00 sec 100 steps\n" +
		"TIMING_START:" + hostile + "\nTIMING_END:" + hostile + "\n" +
		"TIMING_START:p|q\nTIMING_END:p|q\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hostile.log"), []byte(log), 0o644))

	cfg := DefaultConfig()
	cfg.Policy = "equal"
	cfg.SidecarPaths = []string{}
	srv, err := newReportServer(dir, cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/reports/hostile.log")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "<td>p|q</td>")
	assert.Contains(t, body, "onerror=alert(1)")
}

func TestServe_ReportText(t *testing.T) {
	ts := newTestReportServer(t)

	resp, body := get(t, ts.URL+"/reports/run.log?format=text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, body, "OPERATIONS DETECTED: 2")
	assert.Contains(t, body, "Analysis completed successfully.")
}

func TestServe_ReportJSON(t *testing.T) {
	ts := newTestReportServer(t)

	resp, body := get(t, ts.URL+"/reports/run.log?format=json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc struct {
		Operations []struct {
			Name  string `json:"name"`
			Steps int64  `json:"steps"`
		} `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Operations, 2)
	require.Equal(t, int64(500000), doc.Operations[1].Steps)
}

func TestServe_Errors(t *testing.T) {
	ts := newTestReportServer(t)

	resp, _ := get(t, ts.URL+"/reports/missing.log")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/reports/run.log?format=yaml")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/reports/..")
	require.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestNewReportServer_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.log")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := newReportServer(file, DefaultConfig())
	require.ErrorContains(t, err, "not a directory")

	_, err = newReportServer(filepath.Join(t.TempDir(), "missing"), DefaultConfig())
	require.Error(t, err)
}
