package main

import (
	"bytes"
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

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"run", "serve", "lake", "key"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "cinemetrics", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	for _, name := range []string{"title", "titles", "multi", "format", "xlsx"} {
		require.NotNil(t, runCmd.Flags().Lookup(name), "run command should have --%s flag", name)
	}
	assert.Equal(t, "table", runCmd.Flags().Lookup("format").DefValue)
	assert.Equal(t, "false", runCmd.Flags().Lookup("multi").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestLakeCommand_HasShow(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range lakeCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["show"])
}

func TestKeyCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range keyCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["set"])
	assert.True(t, names["delete"])
}

// fakeOMDb serves Inception and reports every other title as not found.
func fakeOMDb(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("t") != "Inception" {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"Title":"Inception","Year":"2010","Genre":"Action, Adventure, Sci-Fi",
			"Director":"Christopher Nolan","imdbRating":"8.8","imdbVotes":"2,500,000",
			"Runtime":"148 min","BoxOffice":"$292,587,330","Poster":"N/A","Response":"True"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// cliEnv points config at a temp working directory, the fake service and a
// temp lake, and returns the lake dir.
func cliEnv(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	lakeDir := filepath.Join(dir, "lake")
	t.Setenv("OMDB_API_KEY", "test-key")
	t.Setenv("CINEMETRICS_OMDB_BASE_URL", baseURL)
	t.Setenv("CINEMETRICS_LAKE_DIR", lakeDir)
	t.Setenv("CINEMETRICS_LOG_LEVEL", "error")
	return lakeDir
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		runTitle, runTitles, runMulti, runFormat, runXLSX = "", "", false, "table", ""
		_ = runCmd.Flags().Set("titles", "")
		runCmd.Flags().Lookup("titles").Changed = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
}

func TestExecute_RunJSON(t *testing.T) {
	srv := fakeOMDb(t)
	lakeDir := cliEnv(t, srv.URL)
	resetRunFlags(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--titles", "Inception, NotARealMovie123", "--format", "json"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var got struct {
		Path   string   `json:"path"`
		Absent []string `json:"absent"`
		Table  struct {
			Rows []map[string]any `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, filepath.Join(lakeDir, "cleaned_movie_data.csv"), got.Path)
	assert.Equal(t, []string{"NotARealMovie123"}, got.Absent)
	require.Len(t, got.Table.Rows, 1)
	assert.Equal(t, "Inception", got.Table.Rows[0]["Title"])

	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t,
		"Title,Year,Genre,Director,imdbRating,imdbVotes,Runtime,BoxOffice\n"+
			"Inception,2010,\"Action, Adventure, Sci-Fi\",Christopher Nolan,8.8,2500000.0,148.0,292587330.0\n",
		string(data))
}
