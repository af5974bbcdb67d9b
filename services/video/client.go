package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"craftly/config"
)

// HTTPVideoService talks to the video provider's REST API.
type HTTPVideoService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPVideoService builds a client from app config.
func NewHTTPVideoService() *HTTPVideoService {
	return &HTTPVideoService{
		baseURL: config.AppConfig.VideoAPIURL,
		apiKey:  config.AppConfig.VideoAPIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPVideoService) CreatePrivateRoom(ctx context.Context, name string, maxParticipants int) (*Room, error) {
	body := map[string]any{
		"name":    name,
		"privacy": "private",
		"properties": map[string]any{
			"max_participants": maxParticipants,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("video: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rooms", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("video: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("video: create room returned status %d", resp.StatusCode)
	}

	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("video: failed to decode response: %w", err)
	}
	if room.Name == "" || room.URL == "" {
		return nil, fmt.Errorf("video: provider returned incomplete room")
	}
	return &room, nil
}
