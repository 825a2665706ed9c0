package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

const (
	defaultAuthBaseURL  = "https://www.threads.net"
	defaultGraphBaseURL = "https://graph.threads.net"
	apiVersion          = "v1.0"
)

// Config carries the Meta app credentials for Threads.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       string
	// AuthBaseURL and GraphBaseURL default to the public endpoints and are
	// overridable for tests.
	AuthBaseURL  string
	GraphBaseURL string
}

// Client talks to the Threads Graph API.
type Client struct {
	cfg  *Config
	http *http.Client
}

func NewClient(cfg *Config) *Client {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = defaultAuthBaseURL
	}
	if cfg.GraphBaseURL == "" {
		cfg.GraphBaseURL = defaultGraphBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURI,
		Scopes:       strings.Split(c.cfg.Scopes, ","),
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.cfg.AuthBaseURL + "/oauth/authorize",
			TokenURL: c.cfg.GraphBaseURL + "/oauth/access_token",
		},
	}
}

func (c *Client) AuthorizationURL(state string) string {
	return c.oauthConfig().AuthCodeURL(state)
}

// ExchangeCode trades the authorization code for a short-lived token. The
// grant response carries the numeric owner id; Threads issues no refresh
// token for these grants.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.TokenData, error) {
	tok, err := c.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenExchange, err)
	}
	data := &model.TokenData{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		data.ExpiresIn = int64(time.Until(tok.Expiry).Seconds())
	} else {
		// Threads short-lived tokens default to one hour when the grant
		// omits expires_in.
		data.ExpiresIn = 3600
	}
	switch v := tok.Extra("user_id").(type) {
	case string:
		data.PlatformUserID = v
	case float64:
		data.PlatformUserID = strconv.FormatInt(int64(v), 10)
	case json.Number:
		data.PlatformUserID = v.String()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		data.Scope = scope
	}
	return data, nil
}

func (c *Client) GetProfile(ctx context.Context, accessToken, userID string) (*model.Profile, error) {
	u := fmt.Sprintf("%s/%s/me?fields=id,username,threads_profile_picture_url,threads_biography&access_token=%s",
		c.cfg.GraphBaseURL, apiVersion, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	var profile struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		PictureURL string `json:"threads_profile_picture_url"`
		Biography  string `json:"threads_biography"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	return &model.Profile{
		PlatformUserID: profile.ID,
		Username:       profile.Username,
		AvatarURL:      profile.PictureURL,
		Bio:            profile.Biography,
	}, nil
}

// CreateContainer stages a media container and returns its creation id.
func (c *Client) CreateContainer(ctx context.Context, accessToken, userID string, container *dto.ThreadsContainer) (string, error) {
	params, err := query.Values(container)
	if err != nil {
		return "", err
	}
	params.Set("access_token", accessToken)
	u := fmt.Sprintf("%s/%s/%s/media?%s", c.cfg.GraphBaseURL, apiVersion, url.PathEscape(userID), params.Encode())
	return c.postForID(ctx, u)
}

// PublishContainer finalizes a staged container into a live post.
func (c *Client) PublishContainer(ctx context.Context, accessToken, userID, creationID string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)
	params.Set("access_token", accessToken)
	u := fmt.Sprintf("%s/%s/%s/threads_publish?%s", c.cfg.GraphBaseURL, apiVersion, url.PathEscape(userID), params.Encode())
	return c.postForID(ctx, u)
}

func (c *Client) DeletePost(ctx context.Context, accessToken, postID string) error {
	params := url.Values{}
	params.Set("access_token", accessToken)
	u := fmt.Sprintf("%s/%s/%s?%s", c.cfg.GraphBaseURL, apiVersion, url.PathEscape(postID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post delete failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	return nil
}

func (c *Client) postForID(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("graph call failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", fmt.Errorf("graph call returned no id: %s", snippet(body))
	}
	return payload.ID, nil
}

func snippet(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
