package facades

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/registration-bot/registration-api/internal/logger"
)

// MessageHTTPFacade fetches motivational messages from the external
// message service over HTTP.
type MessageHTTPFacade struct {
	baseURL string
	client  *http.Client
}

// NewMessageHTTPFacade creates a new facade for the given base URL.
// The client's timeout bounds the whole call; on expiry the request is
// abandoned, never retried.
func NewMessageHTTPFacade(baseURL string, client *http.Client) *MessageHTTPFacade {
	if client == nil {
		client = http.DefaultClient
	}
	return &MessageHTTPFacade{baseURL: baseURL, client: client}
}

// GetRandomMessage fetches a random quote from the message service.
// All failure modes (network, timeout, bad status, malformed body) come back
// as an error value; the caller decides what to substitute.
func (f *MessageHTTPFacade) GetRandomMessage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/random-message", nil)
	if err != nil {
		logger.Log.Errorw("failed to build message request", "error", err)
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("failed to fetch message", "url", f.baseURL, "error", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("message service returned status %d", resp.StatusCode)
		logger.Log.Errorw("unexpected message service status", "status", resp.StatusCode)
		return "", err
	}

	var body struct {
		Quote string `json:"quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Log.Errorw("failed to decode message response", "error", err)
		return "", err
	}

	return body.Quote, nil
}
