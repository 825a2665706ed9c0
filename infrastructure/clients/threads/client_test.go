package threads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"social-hub/domain/dto"
	"social-hub/domain/model"
)

func testClient(baseURL string) *Client {
	return NewClient(&Config{
		ClientID:     "tid",
		ClientSecret: "tsecret",
		RedirectURI:  "https://app.example/callback",
		Scopes:       "threads_basic,threads_content_publish",
		AuthBaseURL:  baseURL,
		GraphBaseURL: baseURL,
	})
}

func TestAuthorizationURL(t *testing.T) {
	c := testClient("https://threads.example")
	raw := c.AuthorizationURL("state-abc")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "/oauth/authorize", u.Path)
	q := u.Query()
	require.Equal(t, "tid", q.Get("client_id"))
	require.Equal(t, "state-abc", q.Get("state"))
	require.Equal(t, "threads_basic threads_content_publish", q.Get("scope"))
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/access_token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tat","token_type":"bearer","user_id":17841400000}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	data, err := c.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "tat", data.AccessToken)
	require.Equal(t, "17841400000", data.PlatformUserID)
	require.Equal(t, int64(3600), data.ExpiresIn)
}

func TestExchangeCode_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_type":"OAuthException"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ExchangeCode(context.Background(), "bad-code")
	require.ErrorIs(t, err, model.ErrTokenExchange)
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1.0/me", r.URL.Path)
		require.Equal(t, "tat", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"id":"9000","username":"bob","threads_profile_picture_url":"https://cdn/b.png","threads_biography":"yo"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	profile, err := c.GetProfile(context.Background(), "tat", "9000")
	require.NoError(t, err)
	require.Equal(t, "9000", profile.PlatformUserID)
	require.Equal(t, "bob", profile.Username)
	require.Equal(t, "yo", profile.Bio)
}

func TestGetProfile_FallsBackToKnownID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"bob"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	profile, err := c.GetProfile(context.Background(), "tat", "9000")
	require.NoError(t, err)
	require.Equal(t, "9000", profile.PlatformUserID)
}

func TestCreateContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1.0/9000/media", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "IMAGE", q.Get("media_type"))
		require.Equal(t, "https://cdn/pic.png", q.Get("image_url"))
		require.Equal(t, "true", q.Get("is_carousel_item"))
		require.Equal(t, "tat", q.Get("access_token"))
		_, _ = w.Write([]byte(`{"id":"ch-1"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.CreateContainer(context.Background(), "tat", "9000", &dto.ThreadsContainer{
		MediaType:      model.MediaTypeImage,
		ImageURL:       "https://cdn/pic.png",
		IsCarouselItem: true,
	})
	require.NoError(t, err)
	require.Equal(t, "ch-1", id)
}

func TestCreateContainer_CarouselChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "CAROUSEL", q.Get("media_type"))
		require.Equal(t, "ch-1,ch-2,ch-3", q.Get("children"))
		require.Equal(t, "hello", q.Get("text"))
		_, _ = w.Write([]byte(`{"id":"parent-1"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.CreateContainer(context.Background(), "tat", "9000", &dto.ThreadsContainer{
		MediaType: model.MediaTypeCarousel,
		Text:      "hello",
		Children:  []string{"ch-1", "ch-2", "ch-3"},
	})
	require.NoError(t, err)
	require.Equal(t, "parent-1", id)
}

func TestPublishContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1.0/9000/threads_publish", r.URL.Path)
		require.Equal(t, "parent-1", r.URL.Query().Get("creation_id"))
		_, _ = w.Write([]byte(`{"id":"post-1"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	id, err := c.PublishContainer(context.Background(), "tat", "9000", "parent-1")
	require.NoError(t, err)
	require.Equal(t, "post-1", id)
}

func TestPublishContainer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Media not ready"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.PublishContainer(context.Background(), "tat", "9000", "parent-1")
	require.Error(t, err)
}

func TestPublishContainer_EmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.PublishContainer(context.Background(), "tat", "9000", "parent-1")
	require.Error(t, err)
}

func TestDeletePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1.0/post-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.NoError(t, c.DeletePost(context.Background(), "tat", "post-1"))
}

func TestDeletePost_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.Error(t, c.DeletePost(context.Background(), "tat", "gone"))
}
