package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/food-journal/internal/apperror"
)

// run executes the CLI against dbPath and returns stdout.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_LogListRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, db, "log", "add", "Apple", "--date", "2024-01-01", "--calories", "95", "--sugar", "19")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged Apple on 2024-01-01")

	id := strings.TrimSuffix(strings.TrimSpace(out[strings.Index(out, "(id ")+4:]), ")")

	out, err = run(t, db, "log", "list", "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, id)

	_, err = run(t, db, "log", "rm", id)
	require.NoError(t, err)

	out, err = run(t, db, "log", "list", "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries for 2024-01-01.")
}

func TestCLI_LogAddPerServing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	_, err := run(t, db, "log", "add", "Oats", "--date", "2024-01-01",
		"--per-serving", "--servings", "2", "--calories", "150", "--fat", "2.5")
	require.NoError(t, err)
	_, err = run(t, db, "log", "add", "Juice", "--date", "2024-01-01",
		"--servings", "2", "--calories", "110")
	require.NoError(t, err)

	out, err := run(t, db, "log", "list", "--date", "2024-01-01")
	require.NoError(t, err)

	rows := map[string][]string{}
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 8 {
			rows[f[1]] = f[2:]
		}
	}
	assert.Equal(t, []string{"2", "300", "5", "0", "0", "0"}, rows["Oats"])
	assert.Equal(t, []string{"2", "110", "0", "0", "0", "0"}, rows["Juice"], "totals are stored as given")
}

func TestCLI_ValidationErrorsAreReturned(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	_, err := run(t, db, "log", "add", "Apple", "--servings", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "servings must be greater than 0 and at most 1000", userMessage(err))

	_, err = run(t, db, "summary", "--date", "not-a-date")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestCLI_GoalAndSummary(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, db, "goal", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No goal saved; showing defaults.")
	assert.Contains(t, out, "2500 kcal")

	_, err = run(t, db, "goal", "set", "--calories", "2000")
	require.NoError(t, err)

	out, err = run(t, db, "goal", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "defaults")
	assert.Contains(t, out, "2000 kcal")

	_, err = run(t, db, "log", "add", "Pasta", "--date", "2024-01-01", "--calories", "500")
	require.NoError(t, err)

	out, err = run(t, db, "summary", "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary for 2024-01-01")
	assert.Contains(t, out, "25%")
	assert.NotContains(t, out, "(default goal)")
}

func TestCLI_StorageUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := run(t, filepath.Join(blocker, "journal.db"), "log", "list")
	assert.True(t, errors.Is(err, apperror.ErrStorageUnavailable))
	assert.Equal(t, "local storage is unavailable", userMessage(err))
}

func TestCLI_SearchAndLog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"foods_search":{"results":{"food":{"food_id":"1","food_name":"Banana",
			"servings":{"serving":[{"serving_description":"1 medium","calories":"105","sugar":"14.4"}]}}}}}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	t.Setenv("FOODJOURNAL_FATSECRET_CLIENT_ID", "id")
	t.Setenv("FOODJOURNAL_FATSECRET_CLIENT_SECRET", "secret")
	t.Setenv("FOODJOURNAL_FATSECRET_TOKEN_URL", ts.URL+"/token")
	t.Setenv("FOODJOURNAL_FATSECRET_API_URL", ts.URL+"/api")

	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, db, "search", "banana")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Banana")
	assert.Contains(t, out, "1) 1 medium: 105 kcal")

	out, err = run(t, db, "search", "banana", "--log", "1", "--servings", "2", "--date", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 2 x Banana on 2024-01-01 (210 kcal")

	_, err = run(t, db, "search", "banana", "--log", "5")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = run(t, db, "search", "banana", "--log", "1", "--serving", "3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "--serving must be between 1 and 1", userMessage(err))
}

func TestCLI_SearchWithoutCredentials(t *testing.T) {
	t.Setenv("FOODJOURNAL_FATSECRET_CLIENT_ID", "")
	t.Setenv("FOODJOURNAL_FATSECRET_CLIENT_SECRET", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("CLIENT_SECRET", "")

	_, err := run(t, filepath.Join(t.TempDir(), "journal.db"), "search", "apple")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrSearch))
	assert.Equal(t, "food search failed", userMessage(err))
}
