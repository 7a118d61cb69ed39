package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"telehealth-backend/config"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.100ms.live"

// ErrProvision is returned when the video provider rejects or times out a
// room-management call.
var ErrProvision = errors.New("video room provisioning failed")

// Client is a thin JSON client for the 100ms-style room management API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	templateID string
	joinHost   string
	timeout    time.Duration
	log        *logrus.Logger
}

func NewClient(cfg config.VideoConfig, log *logrus.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
		templateID: cfg.TemplateID,
		joinHost:   cfg.JoinHost,
		timeout:    timeout,
		log:        log,
	}
}

type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TemplateID  string `json:"template_id"`
}

type createRoomResponse struct {
	ID string `json:"id"`
}

// CreateRoom creates a persistent room at the provider and returns its id.
func (c *Client) CreateRoom(ctx context.Context, name, description string) (string, error) {
	body := createRoomRequest{
		Name:        name,
		Description: description,
		TemplateID:  c.templateID,
	}

	var resp createRoomResponse
	if err := c.post(ctx, "/v2/rooms", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: response carried no room id", ErrProvision)
	}

	return resp.ID, nil
}

type createRoomCodeRequest struct {
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

type createRoomCodeResponse struct {
	Data []struct {
		Role string `json:"role"`
		Code string `json:"code"`
	} `json:"data"`
}

// CreateRoomCode requests a short-lived access code for (room, role). An
// answer without a matching role entry yields "" with no error: the caller
// degrades to an empty join link.
func (c *Client) CreateRoomCode(ctx context.Context, roomID, role, userID string) (string, error) {
	body := createRoomCodeRequest{Role: role, UserID: userID}

	var resp createRoomCodeResponse
	path := fmt.Sprintf("/v2/room-codes/room/%s", roomID)
	if err := c.post(ctx, path, body, &resp); err != nil {
		return "", err
	}

	for _, entry := range resp.Data {
		if entry.Role == role {
			return entry.Code, nil
		}
	}

	c.log.Warnf("Video provider returned no code for role %q in room %s", role, roomID)
	return "", nil
}

// JoinURL builds the user-facing join link from an access code.
func (c *Client) JoinURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/meeting/%s", c.joinHost, code)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrProvision, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrProvision, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvision, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: provider returned status %d", ErrProvision, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProvision, err)
	}

	return nil
}
