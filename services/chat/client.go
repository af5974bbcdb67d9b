package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"craftly/config"
)

// HTTPChatService talks to the chat provider's REST API.
type HTTPChatService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPChatService builds a client from app config. Calls carry a bounded
// timeout; the side-effect worker never waits on the provider indefinitely.
func NewHTTPChatService() *HTTPChatService {
	return &HTTPChatService{
		baseURL: config.AppConfig.ChatAPIURL,
		apiKey:  config.AppConfig.ChatAPIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPChatService) EnsureUser(ctx context.Context, id, name, role string) error {
	body := map[string]string{"id": id, "name": name, "role": role}
	return s.do(ctx, http.MethodPut, "/users/"+id, body, nil)
}

func (s *HTTPChatService) EnsureDirectChannel(ctx context.Context, memberA, memberB string) (string, error) {
	body := map[string]any{"type": "direct", "members": []string{memberA, memberB}}
	var out struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, "/channels/direct", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("chat provider returned empty channel id")
	}
	return out.ID, nil
}

func (s *HTTPChatService) PostMessage(ctx context.Context, channelID, senderID, text string) error {
	body := map[string]string{"senderId": senderID, "text": text}
	return s.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", body, nil)
}

func (s *HTTPChatService) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("chat: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("chat: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chat: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat: %s %s returned status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("chat: failed to decode response: %w", err)
		}
	}
	return nil
}
