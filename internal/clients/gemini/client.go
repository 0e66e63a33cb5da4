package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/jobpilot/internal/pipeline"
	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash Model = "gemini-1.5-flash"
	//Model15Flash8b is the smallest model for lower intelligence use cases
	Model15Flash8b Model = "gemini-1.5-flash-8b"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro Model = "gemini-1.5-pro"
)

// Client is the hosted alternative to the local Ollama oracle. It satisfies
// the same Infer/Ping contract the pipeline stages consume.
type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	probeTimeout      time.Duration
	generateTimeout   time.Duration
	minuteRateLimiter *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model,
	probeTimeout, generateTimeout time.Duration) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Client{
		client:          client,
		model:           client.GenerativeModel(string(model)),
		probeTimeout:    probeTimeout,
		generateTimeout: generateTimeout,
	}, nil
}

func (c *Client) SetRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

// Ping runs a token count as a cheap liveness probe.
func (c *Client) Ping(ctx context.Context) error {

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	if _, err := c.model.CountTokens(ctx, genai.Text("ping")); err != nil {
		return classifyError(err)
	}
	return nil
}

func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		resp, err = c.waitAndGenerate(ctx, prompt)
		return err, isInternalError(err)
	})

	return resp, err
}

func (c *Client) waitAndGenerate(ctx context.Context, prompt string) (string, error) {

	if c.minuteRateLimiter != nil {
		if err := c.minuteRateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	response, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyError(err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	if textPart, ok := response.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(textPart), nil
	}

	return "", fmt.Errorf("response part is not text")
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(pipeline.ErrTimeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return errors.Wrap(pipeline.ErrUnavailable, err.Error())
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
