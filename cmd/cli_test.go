package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequiresEmailFlag(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "",
		"login", "--password", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"email\" not set")
}

func TestLoginThenStatusShowsIdentity(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	stdout, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "reader@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as reader@example.com")

	stdout, _, err = executeCLI(t, home, server.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Reader <reader@example.com>")
}

func TestLoginRejectsIncompleteIdentity(t *testing.T) {
	home := t.TempDir()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"name": "Ghost"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "ghost@example.com", "--password", "secret")
	require.Error(t, err)

	stdout, _, err := executeCLI(t, home, server.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not signed in")
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	home := t.TempDir()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"message": "Invalid credentials"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "reader@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestLogoutForgetsStoredSession(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	_, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "reader@example.com", "--password", "secret")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, server.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	stdout, _, err = executeCLI(t, home, server.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not signed in")
}

func TestStatusJSONOutput(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	_, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "reader@example.com", "--password", "secret")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, server.URL, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"authenticated\": true")
	assert.Contains(t, stdout, "\"reader@example.com\"")
}

func TestPostsListShowsPosts(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	stdout, _, err := executeCLI(t, home, server.URL, "posts", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Hello World")
	assert.Contains(t, stdout, "2 likes")
}

func TestPostsCreateRequiresLogin(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	_, _, err := executeCLI(t, home, server.URL,
		"posts", "create", "--title", "T", "--content", "C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCommentsAddRequiresLogin(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	_, _, err := executeCLI(t, home, server.URL, "comments", "add", "1", "nice post")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestFavoritesRoundTrip(t *testing.T) {
	home := t.TempDir()
	server := newAPIServer(t)

	stdout, _, err := executeCLI(t, home, server.URL, "favorites", "add", "12")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Favorited 12")

	stdout, _, err = executeCLI(t, home, server.URL, "favorites", "add", "12")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Already a favorite")

	stdout, _, err = executeCLI(t, home, server.URL, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "12")

	stdout, _, err = executeCLI(t, home, server.URL, "favorites", "remove", "12")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 12")

	stdout, _, err = executeCLI(t, home, server.URL, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No favorites.")
}

func TestVersionPrintsVersion(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func executeCLI(t *testing.T, home, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("BLOG_API_URL", apiURL)
	t.Setenv("BLOG_SOCKET_URL", "ws://127.0.0.1:1/ws")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{
			"token": "tok-1",
			"user": map[string]any{
				"id":         7,
				"email":      "reader@example.com",
				"name":       "Reader",
				"avatar_url": "https://cdn.example.com/a.png",
			},
		})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, []map[string]any{
			{
				"id":           "1",
				"title":        "Hello World",
				"content":      "First post",
				"likes":        2,
				"commentCount": 1,
				"categories":   []string{"intro"},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
