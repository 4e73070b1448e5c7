package mypyllant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the slice of the vendor API this bridge needs. Authentication,
// session renewal and retries live with whoever constructs the client.
type Client interface {
	GetSystems(ctx context.Context) ([]System, error)
	SetVentilationOperationMode(ctx context.Context, ventilation Ventilation, mode VentilationOperationMode) error
}

type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string, token string) Client {
	return &apiClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *apiClient) GetSystems(ctx context.Context) ([]System, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/systems", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching systems: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching systems: unexpected status %v", resp.Status)
	}

	var systems []System
	if err := json.NewDecoder(resp.Body).Decode(&systems); err != nil {
		return nil, fmt.Errorf("decoding systems: %w", err)
	}

	return systems, nil
}

func (c *apiClient) SetVentilationOperationMode(ctx context.Context, ventilation Ventilation, mode VentilationOperationMode) error {
	body, _ := json.Marshal(map[string]string{
		"operationMode": mode.String(),
	})

	url := fmt.Sprintf("%v/systems/%v/ventilation/%v/operation-mode", c.baseURL, ventilation.SystemID, ventilation.Index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("setting operation mode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("setting operation mode: unexpected status %v", resp.Status)
	}

	return nil
}
