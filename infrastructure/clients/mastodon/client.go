package mastodon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"

	"golang.org/x/oauth2"
)

// Config carries the registered application's OAuth credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	InstanceURL  string
	Scopes       string
}

// Client talks to Mastodon's REST API. Accounts can live on different
// instances, so every call takes the instance base URL.
type Client struct {
	cfg  *Config
	http *http.Client
}

func NewClient(cfg *Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// oauthConfig builds the per-instance oauth2 endpoint configuration.
func (c *Client) oauthConfig(instanceURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURI,
		Scopes:       strings.Fields(c.cfg.Scopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:  instanceURL + "/oauth/authorize",
			TokenURL: instanceURL + "/oauth/token",
		},
	}
}

func (c *Client) AuthorizationURL(state string) string {
	conf := c.oauthConfig(c.cfg.InstanceURL)
	// Mastodon expects the scope list as one space-separated parameter.
	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("scope", c.cfg.Scopes))
}

// RegisterApp creates an application on the given instance and returns its
// client credentials.
func (c *Client) RegisterApp(ctx context.Context, domain, clientName, redirectURIs, website string) (*dto.AppCredentials, error) {
	form := url.Values{}
	form.Set("client_name", clientName)
	form.Set("redirect_uris", redirectURIs)
	form.Set("scopes", "read write push")
	if website != "" {
		form.Set("website", website)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, domain+"/api/v1/apps", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("app registration failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	creds := &dto.AppCredentials{}
	if err := json.Unmarshal(body, creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func (c *Client) ExchangeCode(ctx context.Context, instanceURL, code string) (*model.TokenData, error) {
	conf := c.oauthConfig(instanceURL)
	tok, err := conf.Exchange(ctx, code, oauth2.SetAuthURLParam("scope", c.cfg.Scopes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenExchange, err)
	}
	data := &model.TokenData{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		data.ExpiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		data.Scope = scope
	}
	return data, nil
}

// RefreshToken exchanges a refresh token for a new access token. A non-2xx
// response surfaces as ErrRefreshRejected and is never retried here.
func (c *Client) RefreshToken(ctx context.Context, instanceURL, refreshToken string) (*model.TokenData, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", c.cfg.Scopes)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, instanceURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRefreshRejected, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", model.ErrRefreshRejected, resp.StatusCode, snippet(body))
	}
	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		Scope        string `json:"scope"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRefreshRejected, err)
	}
	return &model.TokenData{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
		Scope:        payload.Scope,
	}, nil
}

func (c *Client) VerifyCredentials(ctx context.Context, instanceURL, accessToken string) (*model.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instanceURL+"/api/v1/accounts/verify_credentials", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify_credentials failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	var account struct {
		ID          string `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Avatar      string `json:"avatar"`
		Note        string `json:"note"`
	}
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, err
	}
	return &model.Profile{
		PlatformUserID: account.ID,
		Username:       account.Username,
		DisplayName:    account.DisplayName,
		AvatarURL:      account.Avatar,
		Bio:            account.Note,
	}, nil
}

// UploadMedia posts the downloaded file to the v2 media endpoint. The v2
// API answers 202 when the attachment still needs server-side processing.
func (c *Client) UploadMedia(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error) {
	f, err := os.Open(asset.TempPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "media."+extensionForMime(asset.MimeType))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if description != "" {
		_ = writer.WriteField("description", description)
	}
	if focus != "" {
		_ = writer.WriteField("focus", focus)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, instanceURL+"/api/v2/media", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("media upload failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	media := &model.UploadedMedia{}
	if err := json.Unmarshal(body, media); err != nil {
		return nil, err
	}
	return media, nil
}

// GetMedia fetches the processing state of an uploaded attachment. A 206
// means the instance is still processing; the returned record then has no
// URL yet.
func (c *Client) GetMedia(ctx context.Context, instanceURL, accessToken, mediaID string) (*model.UploadedMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instanceURL+"/api/v1/media/"+url.PathEscape(mediaID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("media status failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	media := &model.UploadedMedia{}
	if err := json.Unmarshal(body, media); err != nil {
		return nil, err
	}
	return media, nil
}

func (c *Client) CreateStatus(ctx context.Context, instanceURL, accessToken string, status *dto.StatusRequest) (*dto.PlatformPost, error) {
	payload, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, instanceURL+"/api/v1/statuses", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status creation failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	post := &dto.PlatformPost{Raw: body}
	if err := json.Unmarshal(body, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *Client) DeleteStatus(ctx context.Context, instanceURL, accessToken, statusID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, instanceURL+"/api/v1/statuses/"+url.PathEscape(statusID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status delete failed: status %d: %s", resp.StatusCode, snippet(body))
	}
	return nil
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	case "video/quicktime":
		return "mov"
	case "video/webm":
		return "webm"
	case "video/x-ms-wmv":
		return "wmv"
	default:
		return "bin"
	}
}

// snippet bounds upstream bodies included in error messages.
func snippet(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
