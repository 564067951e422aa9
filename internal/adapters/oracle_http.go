package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenkalti/backoff/v4"

	"apt-warden/internal/ports"
	"apt-warden/internal/shared"
)

// OracleHTTPAdapter talks to the analysis oracle over a chat-completions
// style JSON endpoint. The oracle is treated as untyped text-in/text-out;
// this adapter only moves bytes and retries transient transport failures.
type OracleHTTPAdapter struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
	Client     *http.Client
}

const defaultOracleTimeout = 180 * time.Second
const defaultOracleRetries = 3

func NewOracleHTTPAdapter(baseURL string, apiKey string, timeout time.Duration) OracleHTTPAdapter {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return OracleHTTPAdapter{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Timeout:    timeout,
		MaxRetries: defaultOracleRetries,
		Client:     &http.Client{},
	}
}

type oracleMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oracleRequest struct {
	Model    string          `json:"model"`
	Messages []oracleMessage `json:"messages"`
}

type oracleResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a OracleHTTPAdapter) Analyze(ctx context.Context, payload string, prompt string, model string) (string, error) {
	body, err := json.Marshal(oracleRequest{
		Model: model,
		Messages: []oracleMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: payload},
		},
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode oracle request").
			WithCause(err)
	}

	var text string
	operation := func() error {
		result, callErr := a.call(ctx, body)
		if callErr != nil {
			return callErr
		}
		text = result
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("oracle analysis request failed").
			WithCause(err)
	}
	return text, nil
}

func (a OracleHTTPAdapter) call(ctx context.Context, body []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", shared.HTTPStatusError(resp.StatusCode, a.BaseURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", backoff.Permanent(shared.HTTPStatusErrorWithBody(resp.StatusCode, a.BaseURL, string(data)))
	}
	var parsed oracleResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", backoff.Permanent(err)
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(shared.HTTPStatusErrorWithBody(resp.StatusCode, a.BaseURL, "empty choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ ports.OraclePort = OracleHTTPAdapter{}
