// Package client calls the stage API over HTTP and rebuilds failure kinds
// from the response envelope.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fiberclient "github.com/gofiber/fiber/v3/client"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

// DefaultTimeout exceeds the server's model call timeout so that a server
// side timeout is reported as such instead of as a client abort.
const DefaultTimeout = 35 * time.Second

// ErrClientTimeout reports that the client stopped waiting before the API
// answered. A timeout decided by the server arrives as failure.Timeout.
var ErrClientTimeout = errors.New("client timed out waiting for the api")

// Client implements workflow.StageClient against a running API.
type Client struct {
	http    *fiberclient.Client
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as X-API-Key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    fiberclient.New().SetTimeout(DefaultTimeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type envelope struct {
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	RequestID string          `json:"requestId"`
}

func (c *Client) AnalyzeIntent(ctx context.Context, req models.IntentRequest) (models.IntentAnalysis, error) {
	return post[models.IntentAnalysis](ctx, c, "/api/intent", req)
}

func (c *Client) ReviewOpportunity(ctx context.Context, req models.OpportunityApprovalRequest) (models.ApprovalResult, error) {
	return post[models.ApprovalResult](ctx, c, "/api/opportunity/approve", req)
}

func (c *Client) ProposeTemplates(ctx context.Context, req models.TemplateRequest) (models.TemplateProposal, error) {
	return post[models.TemplateProposal](ctx, c, "/api/templates", req)
}

func (c *Client) ReviewTemplate(ctx context.Context, req models.TemplateApprovalRequest) (models.ApprovalResult, error) {
	return post[models.ApprovalResult](ctx, c, "/api/templates/approve", req)
}

func (c *Client) GenerateContent(ctx context.Context, req models.ContentRequest) (models.ContentDraft, error) {
	return post[models.ContentDraft](ctx, c, "/api/content", req)
}

func (c *Client) ReviewContent(ctx context.Context, req models.ContentApprovalRequest) (models.ApprovalResult, error) {
	return post[models.ApprovalResult](ctx, c, "/api/content/approve", req)
}

func (c *Client) Publish(ctx context.Context, req models.PublishRequest) (*models.ResultBundle, error) {
	return post[*models.ResultBundle](ctx, c, "/api/publish", req)
}

func (c *Client) ListResults(ctx context.Context) ([]models.BundleSummary, error) {
	return do[[]models.BundleSummary](ctx, c, http.MethodGet, "/api/results", nil)
}

// GetResult returns the bundle, or nil when the server reports it absent.
func (c *Client) GetResult(ctx context.Context, id string) (*models.ResultBundle, error) {
	bundle, err := do[*models.ResultBundle](ctx, c, http.MethodGet, "/api/results/"+url.PathEscape(id), nil)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == failure.CodeNotFound {
		return nil, nil
	}

	return bundle, err
}

// StatusError is an error envelope whose code is not a failure kind, such as
// UNAUTHORIZED or NOT_FOUND, or a response that is not an envelope at all.
type StatusError struct {
	Status int
	Code   string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api responded %d %s: %s", e.Status, e.Code, e.Body)
	}

	return fmt.Sprintf("api responded %d", e.Status)
}

func post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return do[T](ctx, c, http.MethodPost, path, body)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	op := "client " + method + " " + path

	req := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json")

	if id := log.RequestIDFrom(ctx); id != "" {
		req.SetHeader("X-Request-Id", id)
	}

	if c.apiKey != "" {
		req.SetHeader("X-API-Key", c.apiKey)
	}

	if body != nil {
		req.SetJSON(body)
	}

	var (
		resp *fiberclient.Response
		err  error
	)

	if method == http.MethodPost {
		resp, err = req.Post(c.baseURL + path)
	} else {
		resp, err = req.Get(c.baseURL + path)
	}

	if err != nil {
		return zero, transportError(op, err)
	}
	defer resp.Close()

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return zero, &StatusError{Status: resp.StatusCode()}
	}

	if !env.OK {
		return zero, envelopeError(op, resp, env)
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return zero, failure.Wrap(failure.Internal, op, fmt.Errorf("failed to decode response data: %w", err))
	}

	return value, nil
}

func envelopeError(op string, resp *fiberclient.Response, env envelope) error {
	switch env.Code {
	case failure.CodeUnauthorized, failure.CodeNotFound:
		return &StatusError{Status: resp.StatusCode(), Code: env.Code, Body: env.Error}
	}

	fe := failure.New(failure.KindFromCode(env.Code), op, env.Error)

	if fe.Kind == failure.AdmissionDenied {
		if seconds, err := strconv.Atoi(resp.Header("Retry-After")); err == nil {
			fe.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	return fe
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, fiberclient.ErrTimeoutOrCancel) {
		return fmt.Errorf("%s: %w: %w", op, ErrClientTimeout, err)
	}

	return failure.Wrap(failure.UpstreamFailure, op, err)
}
