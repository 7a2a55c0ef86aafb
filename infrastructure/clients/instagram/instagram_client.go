package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

// Client talks to the Instagram Graph API: media containers, publish,
// token validation and long-lived token refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// graphError is the standard Graph API error envelope.
type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type idResponse struct {
	ID string `json:"id"`
}

// mediaParams covers the /media container endpoint for both single images
// and carousel parents/children.
type mediaParams struct {
	ImageURL       string `url:"image_url,omitempty"`
	Caption        string `url:"caption,omitempty"`
	MediaType      string `url:"media_type,omitempty"`
	IsCarouselItem bool   `url:"is_carousel_item,omitempty"`
	Children       string `url:"children,omitempty"`
	AccessToken    string `url:"access_token"`
}

type publishParams struct {
	CreationID  string `url:"creation_id"`
	AccessToken string `url:"access_token"`
}

type refreshParams struct {
	GrantType   string `url:"grant_type"`
	AccessToken string `url:"access_token"`
}

func (c *Client) post(ctx context.Context, path string, params interface{}) ([]byte, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var ge graphError
		if json.Unmarshal(body, &ge) == nil && ge.Error.Message != "" {
			return body, fmt.Errorf("graph api: %s (code %d)", ge.Error.Message, ge.Error.Code)
		}
		return body, fmt.Errorf("graph api: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values) ([]byte, int, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

// createContainer creates one media container and returns its creation id.
func (c *Client) createContainer(ctx context.Context, accessToken, businessAccountID string, params mediaParams) (string, error) {
	params.AccessToken = accessToken
	body, err := c.post(ctx, url.PathEscape(businessAccountID)+"/media", params)
	if err != nil {
		return "", err
	}
	var res idResponse
	if err := json.Unmarshal(body, &res); err != nil || res.ID == "" {
		return "", fmt.Errorf("graph api: container response missing id")
	}
	return res.ID, nil
}

func (c *Client) publishContainer(ctx context.Context, accessToken, businessAccountID, creationID string) (*model.GraphPublishResult, error) {
	body, err := c.post(ctx, url.PathEscape(businessAccountID)+"/media_publish", publishParams{
		CreationID:  creationID,
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, err
	}
	var res idResponse
	if err := json.Unmarshal(body, &res); err != nil || res.ID == "" {
		return nil, fmt.Errorf("graph api: publish response missing id")
	}
	return &model.GraphPublishResult{PostID: res.ID, Raw: body}, nil
}

func (c *Client) PublishImage(ctx context.Context, accessToken, businessAccountID, imageURL, caption string) (*model.GraphPublishResult, error) {
	creationID, err := c.createContainer(ctx, accessToken, businessAccountID, mediaParams{
		ImageURL: imageURL,
		Caption:  caption,
	})
	if err != nil {
		return nil, err
	}
	return c.publishContainer(ctx, accessToken, businessAccountID, creationID)
}

func (c *Client) PublishCarousel(ctx context.Context, accessToken, businessAccountID string, panelURLs []string, caption string) (*model.GraphPublishResult, error) {
	if len(panelURLs) == 0 {
		return nil, fmt.Errorf("carousel requires at least one panel url")
	}
	children := make([]string, 0, len(panelURLs))
	for _, u := range panelURLs {
		id, err := c.createContainer(ctx, accessToken, businessAccountID, mediaParams{
			ImageURL:       u,
			IsCarouselItem: true,
		})
		if err != nil {
			return nil, fmt.Errorf("carousel item: %w", err)
		}
		children = append(children, id)
	}
	parentID, err := c.createContainer(ctx, accessToken, businessAccountID, mediaParams{
		MediaType: "CAROUSEL",
		Children:  strings.Join(children, ","),
		Caption:   caption,
	})
	if err != nil {
		return nil, fmt.Errorf("carousel container: %w", err)
	}
	return c.publishContainer(ctx, accessToken, businessAccountID, parentID)
}

// ValidateToken checks the token against the identity endpoint. An invalid
// token returns (false, nil); only transport failures produce an error.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) (bool, error) {
	values := url.Values{}
	values.Set("access_token", accessToken)
	values.Set("fields", "id")
	body, status, err := c.get(ctx, "me", values)
	if err != nil {
		return false, err
	}
	if status == http.StatusOK {
		return true, nil
	}
	var ge graphError
	if json.Unmarshal(body, &ge) == nil && ge.Error.Type == "OAuthException" {
		return false, nil
	}
	logger.GetLogger().WithFields(map[string]interface{}{"status": status, "body": string(body)}).Warn("unexpected token validation response")
	return false, nil
}

// RefreshToken exchanges a valid long-lived token for a refreshed one. The
// caller validates first; an invalid token surfaces here as a Graph error.
func (c *Client) RefreshToken(ctx context.Context, accessToken string) (*model.RefreshedToken, error) {
	values, err := query.Values(refreshParams{
		GrantType:   "ig_refresh_token",
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, err
	}
	body, status, err := c.get(ctx, "refresh_access_token", values)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var ge graphError
		if json.Unmarshal(body, &ge) == nil && ge.Error.Message != "" {
			return nil, fmt.Errorf("graph api: %s (code %d)", ge.Error.Message, ge.Error.Code)
		}
		return nil, fmt.Errorf("graph api: unexpected status %d", status)
	}
	var tok model.RefreshedToken
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("graph api: refresh response missing access_token")
	}
	return &tok, nil
}

var _ repository.IInstagramClient = (*Client)(nil)
