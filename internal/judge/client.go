// Package judge talks to a Judge0-compatible remote code execution
// service. Execution failures of any kind (compile errors, limits,
// transport faults, timeouts) are reported inside Result, never as an
// error: a broken submission is a wrong answer, not a server fault.
package judge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Judge0 status ids: 1 queued, 2 processing, 3 accepted, >3 terminal failure.
const (
	statusProcessing = 2
	statusAccepted   = 3
)

type Result struct {
	Success       bool    `json:"success"`
	Output        string  `json:"output"`
	ConsoleOutput string  `json:"console"`
	Error         string  `json:"error,omitempty"`
	Time          string  `json:"time,omitempty"`
	Memory        float64 `json:"memory,omitempty"`
}

type Client interface {
	Execute(source string, languageID int) Result
}

type HTTPClient struct {
	BaseURL string
	APIKey  string
	APIHost string

	HTTP         *http.Client
	PollInterval time.Duration
	MaxPolls     int

	Log *zap.Logger
}

func NewHTTPClient(baseURL, apiKey, apiHost string, log *zap.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		APIKey:       apiKey,
		APIHost:      apiHost,
		HTTP:         &http.Client{Timeout: 10 * time.Second},
		PollInterval: time.Second,
		MaxPolls:     15,
		Log:          log,
	}
}

type submission struct {
	Token string `json:"token"`
}

type pollResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          *string `json:"time"`
	Memory        float64 `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute submits source code and polls until the service reaches a
// terminal status or the poll budget runs out. It deliberately ignores
// caller cancellation: the submission is already billed remotely, so the
// poll runs to completion server-side.
func (c *HTTPClient) Execute(source string, languageID int) Result {
	token, err := c.submit(source, languageID)
	if err != nil {
		return failure(err)
	}

	for i := 0; i < c.MaxPolls; i++ {
		time.Sleep(c.PollInterval)

		res, err := c.poll(token)
		if err != nil {
			return failure(err)
		}
		if res.Status.ID <= statusProcessing {
			continue
		}

		output := strings.TrimSpace(deref(res.Stdout))
		errText := deref(res.Stderr)
		if errText == "" {
			errText = deref(res.CompileOutput)
		}
		if c.Log != nil && res.Status.ID != statusAccepted {
			c.Log.Debug("execution finished with failure status",
				zap.Int("status", res.Status.ID),
				zap.String("description", res.Status.Description))
		}
		return Result{
			Success:       res.Status.ID == statusAccepted,
			Output:        output,
			ConsoleOutput: output,
			Error:         strings.TrimSpace(errText),
			Time:          deref(res.Time),
			Memory:        res.Memory,
		}
	}

	if c.Log != nil {
		c.Log.Warn("execution poll budget exhausted",
			zap.String("token", token),
			zap.Int("polls", c.MaxPolls))
	}
	return failure(fmt.Errorf("execution timed out after %d polls", c.MaxPolls))
}

func (c *HTTPClient) submit(source string, languageID int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"source_code":    source,
		"language_id":    languageID,
		"stdin":          "",
		"cpu_time_limit": 5,
		"memory_limit":   128000,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost,
		c.BaseURL+"/submissions?base64_encoded=false&wait=false", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("submission failed: %d", resp.StatusCode)
	}

	var sub submission
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return "", err
	}
	if sub.Token == "" {
		return "", fmt.Errorf("submission returned no token")
	}
	return sub.Token, nil
}

func (c *HTTPClient) poll(token string) (pollResponse, error) {
	req, err := http.NewRequest(http.MethodGet,
		c.BaseURL+"/submissions/"+token+"?base64_encoded=false&fields=*", nil)
	if err != nil {
		return pollResponse{}, err
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return pollResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pollResponse{}, fmt.Errorf("failed to fetch result: %d", resp.StatusCode)
	}

	var out pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pollResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.APIKey)
	}
	if c.APIHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.APIHost)
	}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
