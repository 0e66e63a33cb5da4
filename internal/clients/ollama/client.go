package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkoval/jobpilot/internal/pipeline"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a local Ollama instance. Every call is bounded by an
// explicit timeout: a short one for the liveness probe, a long one for
// generation. Timeouts and unreachability surface as distinct errors.
type Client struct {
	httpClient      HTTPClient
	baseURL         string
	model           string
	probeTimeout    time.Duration
	generateTimeout time.Duration
	rateLimiter     *rate.Limiter
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func NewClient(baseURL, model string, probeTimeout, generateTimeout time.Duration) *Client {
	return &Client{
		httpClient:      &http.Client{},
		baseURL:         baseURL,
		model:           model,
		probeTimeout:    probeTimeout,
		generateTimeout: generateTimeout,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerMinute float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

// Ping checks whether the Ollama server answers at all.
func (c *Client) Ping(ctx context.Context) error {

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return errors.Wrap(err, "error creating request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(pipeline.ErrUnavailable, "unexpected status %v", resp.Status)
	}
	return nil
}

// Infer sends the prompt and returns the raw model output. Internal server
// errors are retried a few times; timeouts are not, the caller decides.
func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("ollama returned an internal error, retrying...")
		}
		resp, err = c.waitAndInfer(ctx, prompt)
		return err, errors.Is(err, errInternal)
	})

	return resp, err
}

var errInternal = errors.New("internal server error")

func (c *Client) waitAndInfer(ctx context.Context, prompt string) (string, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "error creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "error reading response")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", errors.Wrapf(errInternal, "status %v", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(pipeline.ErrUnavailable, "unexpected status %v: %s", resp.Status, string(raw))
	}

	var generated generateResponse
	if err := json.Unmarshal(raw, &generated); err != nil {
		return "", fmt.Errorf("error decoding JSON response: %v", err)
	}

	return generated.Response, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(pipeline.ErrTimeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return errors.Wrap(pipeline.ErrUnavailable, err.Error())
}
