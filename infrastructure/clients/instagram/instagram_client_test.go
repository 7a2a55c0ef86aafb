package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishImage(t *testing.T) {
	var containerCalls, publishCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/17840001/media":
			containerCalls++
			require.Equal(t, "https://cdn.test/p.jpg", r.Form.Get("image_url"))
			require.Equal(t, "hello", r.Form.Get("caption"))
			require.Equal(t, "tok", r.Form.Get("access_token"))
			w.Write([]byte(`{"id":"creation-1"}`))
		case "/17840001/media_publish":
			publishCalls++
			require.Equal(t, "creation-1", r.Form.Get("creation_id"))
			w.Write([]byte(`{"id":"post-99"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.PublishImage(context.Background(), "tok", "17840001", "https://cdn.test/p.jpg", "hello")
	require.NoError(t, err)
	require.Equal(t, "post-99", res.PostID)
	require.Equal(t, 1, containerCalls)
	require.Equal(t, 1, publishCalls)
}

func TestPublishCarousel(t *testing.T) {
	var childIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/178/media":
			if r.Form.Get("is_carousel_item") == "true" {
				id := "child-" + r.Form.Get("image_url")[len(r.Form.Get("image_url"))-1:]
				childIDs = append(childIDs, id)
				w.Write([]byte(`{"id":"` + id + `"}`))
				return
			}
			require.Equal(t, "CAROUSEL", r.Form.Get("media_type"))
			require.Equal(t, strings.Join(childIDs, ","), r.Form.Get("children"))
			w.Write([]byte(`{"id":"parent-1"}`))
		case "/178/media_publish":
			require.Equal(t, "parent-1", r.Form.Get("creation_id"))
			w.Write([]byte(`{"id":"post-7"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.PublishCarousel(context.Background(), "tok", "178",
		[]string{"https://cdn.test/1", "https://cdn.test/2", "https://cdn.test/3"}, "cap")
	require.NoError(t, err)
	require.Equal(t, "post-7", res.PostID)
	require.Len(t, childIDs, 3)
}

func TestPublishImageGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image","type":"GraphMethodException","code":100}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.PublishImage(context.Background(), "tok", "178", "https://cdn.test/x.jpg", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid image")
}

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") == "good" {
			w.Write([]byte(`{"id":"17840001"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	valid, err := c.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	require.True(t, valid)

	// Invalid is a normal outcome, not an error.
	valid, err = c.ValidateToken(context.Background(), "bad")
	require.NoError(t, err)
	require.False(t, valid)
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh_access_token", r.URL.Path)
		require.Equal(t, "ig_refresh_token", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"access_token":"new-tok","token_type":"bearer","expires_in":5184000}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tok, err := c.RefreshToken(context.Background(), "old-tok")
	require.NoError(t, err)
	require.Equal(t, "new-tok", tok.AccessToken)
	require.EqualValues(t, 5184000, tok.ExpiresIn)
}
