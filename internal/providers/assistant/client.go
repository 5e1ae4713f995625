package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
)

// Replies used instead of errors. The chat window shows them verbatim.
const (
	MsgMissingKey = "Nexus AI System Error: API Key missing. Please configure the environment."
	MsgConnection = "I'm having trouble connecting to the Nexus Mainframe. Please try again later."
	MsgEmpty      = "I processed that, but have no textual response."
)

// SystemInstruction sets the assistant's persona
const SystemInstruction = "You are Nexus, an advanced AI integrated into the NexusOS operating system. You are helpful, concise, and futuristic in your tone. Keep responses relatively short suitable for a chat interface."

// Config configures the generative language client
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	RateLimit  float64 // Requests per second, 0 for unlimited
}

// Client calls the generateContent endpoint through a rate limiter and a
// circuit breaker. Request never returns an error.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	cfg     Config
	logger  *zap.Logger
}

// NewClient creates an assistant client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWait
	retryClient.RetryWaitMax = 10 * cfg.RetryWait
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "NexusOS-Assistant/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}

	breaker := resilience.New("assistant", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: breaker,
		cfg:     cfg,
		logger:  logger,
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Request sends one prompt and returns the reply text, or one of the
// fixed fallback messages
func (c *Client) Request(ctx context.Context, prompt, model string) string {
	if !c.Configured() {
		return MsgMissingKey
	}
	if model == "" {
		model = c.cfg.Model
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("Assistant request not sent", zap.Error(err))
		return MsgConnection
	}

	text, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return c.generate(ctx, prompt, model)
	})
	if err != nil {
		c.logger.Warn("Assistant request failed",
			zap.String("model", model),
			zap.Error(err),
		)
		return MsgConnection
	}
	if strings.TrimSpace(text) == "" {
		return MsgEmpty
	}
	return text
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content   `json:"systemInstruction"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) generate(ctx context.Context, prompt, model string) (string, error) {
	var out generateResponse
	var failure apiError

	req := c.resty.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.cfg.APIKey).
		SetPathParam("model", model).
		SetBody(generateRequest{
			SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
			Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		}).
		SetResult(&out).
		SetError(&failure)
	tracing.InjectTraceContext(ctx, req.Header)

	resp, err := req.Post("/models/{model}:generateContent")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		if failure.Error.Message != "" {
			return "", fmt.Errorf("generateContent %d: %s", resp.StatusCode(), failure.Error.Message)
		}
		return "", fmt.Errorf("generateContent: %s", http.StatusText(resp.StatusCode()))
	}

	var b strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String(), nil
}
