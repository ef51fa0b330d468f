package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/blogctl/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source := func() string { return token }
	return NewClient(server.URL, server.Client(), source, zerolog.Nop())
}

func TestClientAttachesBearerTokenWhenAvailable(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, "T1")

	_, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer T1", gotAuth)
}

func TestClientOmitsBearerHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, "")

	_, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientSurfacesServerErrorMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials."}`))
	}, "")

	_, err := client.Login(context.Background(), "a@b.com", "nope")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials.", apiErr.Message)
}

func TestClientFallsBackToGenericMessageForUnparsableBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}, "")

	_, err := client.ListPosts(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP error 502", apiErr.Message)
}

func TestCurrentUserTranslatesWireFieldNames(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":3,"email":"a@b.com","name":"Ada","avatar_url":"https://cdn/a.png"}`))
	}, "T1")

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: 3, Email: "a@b.com", Name: "Ada", AvatarURL: "https://cdn/a.png"}, user)
}

func TestGetPostNormalizesMissingCategories(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"title":"Hello","likes":2,"commentCount":1}`))
	}, "")

	post, err := client.GetPost(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, domain.PostID("7"), post.ID)
	require.NotNil(t, post.Categories)
	assert.Empty(t, post.Categories)
}

func TestGetPostMapsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Post not found."}`))
	}, "")

	_, err := client.GetPost(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestCreatePostSendsCategoriesAsArray(t *testing.T) {
	t.Parallel()

	var body string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)
		_, _ = w.Write([]byte(`{"insertedId":11}`))
	}, "T1")

	id, err := client.CreatePost(context.Background(), PostInput{Title: "Hi", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostID("11"), id)
	assert.Contains(t, body, `"categories":[]`)
}

func TestToggleLike(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts/7/like", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Liked.","liked":true,"likes":4}`))
	}, "T1")

	result, err := client.ToggleLike(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, Likes: 4}, result)
}

func TestRegisterSendsMultipartFormWithAvatar(t *testing.T) {
	t.Parallel()

	avatarPath := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(avatarPath, []byte("png-bytes"), 0o600))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "a@b.com", r.FormValue("email"))
		assert.Equal(t, "Ada", r.FormValue("name"))
		assert.Equal(t, "pw", r.FormValue("password"))

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "avatar.png", header.Filename)

		_, _ = w.Write([]byte(`{"userId":9}`))
	}, "")

	id, err := client.Register(context.Background(), RegisterInput{
		Email:      "a@b.com",
		Name:       "Ada",
		Password:   "pw",
		AvatarPath: avatarPath,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(9), id)
}

func TestListCommentsMapsUsers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/7/comments", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"content":"Nice","createdAt":"2026-03-01T10:00:00Z","user":{"id":2,"name":"Bo","avatarUrl":"https://cdn/b.png"}}]`))
	}, "")

	comments, err := client.ListComments(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(1), comments[0].ID)
	assert.Equal(t, domain.UserID(2), comments[0].User.ID)
	assert.Equal(t, "https://cdn/b.png", comments[0].User.AvatarURL)
	assert.False(t, comments[0].CreatedAt.IsZero())
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/password", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Password updated."}`))
	}, "T1")

	require.NoError(t, client.ChangePassword(context.Background(), "old", "new"))
}
