package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"linear-planner/internal/config"
	"linear-planner/internal/models"
)

const userAgent = "linear-planner"

// APIError is returned when Linear rejects a request, either at the HTTP
// level or with GraphQL errors in the response body.
type APIError struct {
	StatusCode int
	Messages   []string
	notFound   bool
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("linear API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("linear API returned status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Unwrap lets callers match unresolved entities with errors.Is(err, models.ErrNotFound).
func (e *APIError) Unwrap() error {
	if e.notFound {
		return models.ErrNotFound
	}
	return nil
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// LinearRepository handles Linear GraphQL API interactions
type LinearRepository struct {
	config *config.LinearConfig
	client *http.Client
}

// NewLinearRepository creates a new Linear repository
func NewLinearRepository(linearConfig *config.LinearConfig) *LinearRepository {
	return &LinearRepository{
		config: linearConfig,
		client: &http.Client{
			Timeout: time.Duration(linearConfig.Timeout) * time.Second,
		},
	}
}

// execute posts a GraphQL document and decodes the data member into out
func (r *LinearRepository) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", r.config.APIKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Messages: []string{strings.TrimSpace(string(body))}}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return newAPIError(resp.StatusCode, gqlResp.Errors)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Messages: []string{strings.TrimSpace(string(body))}}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func newAPIError(status int, errs []graphQLError) *APIError {
	apiErr := &APIError{StatusCode: status}
	for _, e := range errs {
		apiErr.Messages = append(apiErr.Messages, e.Message)
		if strings.Contains(strings.ToLower(e.Message), "not found") {
			apiErr.notFound = true
		}
	}
	return apiErr
}

// notFound builds the error returned when a query resolves to null
func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, models.ErrNotFound)
}
