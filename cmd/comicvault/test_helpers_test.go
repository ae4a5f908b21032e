package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"comicvault/internal/config"
	"comicvault/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	library    string
	catalog    *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	catalog := httptest.NewServer(fakeComicVine(t))
	t.Cleanup(catalog.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(catalog.URL), testsupport.WithCommitEvery(2))
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("COMICVINE_API_KEY", "")

	configPath := filepath.Join(base, "comicvault.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		library:    cfg.Paths.LibraryDir,
		catalog:    catalog,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runJSON(t *testing.T, env *cliTestEnv, out any, args ...string) {
	t.Helper()
	stdout, _, err := runCLI(t, env.configPath, append([]string{"--json"}, args...)...)
	if err != nil {
		t.Fatalf("%v returned error: %v", args, err)
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		t.Fatalf("decode %v output: %v\n%s", args, err, stdout)
	}
}

// fakeComicVine answers the three endpoints the client uses with a single
// volume "Saga" (2012) holding issues 1 and 2.
func fakeComicVine(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/search/":
			if !strings.Contains(strings.ToLower(r.URL.Query().Get("query")), "saga") {
				fmt.Fprint(w, `{"error":"OK","status_code":1,"number_of_total_results":0,"results":[]}`)
				return
			}
			fmt.Fprint(w, `{"error":"OK","status_code":1,"number_of_total_results":1,"results":[
				{"id":48,"name":"Saga","start_year":"2012","publisher":{"id":1,"name":"Image"}}]}`)
		case r.URL.Path == "/issues/":
			fmt.Fprint(w, `{"error":"OK","status_code":1,"number_of_total_results":2,"results":[
				{"id":101,"issue_number":"1","name":"Chapter One"},
				{"id":102,"issue_number":"2","name":"Chapter Two"}]}`)
		case strings.HasPrefix(r.URL.Path, "/issue/4000-"):
			fmt.Fprint(w, `{"error":"OK","status_code":1,"number_of_total_results":1,"results":{
				"id":101,"name":"Chapter One","description":"<p>Alana and Marko.</p>","cover_date":"2012-03-01",
				"person_credits":[{"id":1,"name":"Brian K. Vaughan","role":"writer"},{"id":2,"name":"Fiona Staples","role":"artist, cover"}],
				"character_credits":[{"id":3,"name":"Alana"},{"id":4,"name":"Marko"}],
				"image":{"medium_url":"https://example.test/saga1.jpg"}}}`)
		default:
			http.NotFound(w, r)
		}
	})
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
