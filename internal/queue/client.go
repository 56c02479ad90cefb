package queue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"logingest/internal/config"
	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
)

// Client talks to an SQS-compatible queue through the query API.
type Client struct {
	queueURL string
	timeout  time.Duration
	client   *http.Client
	logger   logger.Logger
}

func NewClient(cfg config.QueueConfig, log logger.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: constants.DefaultHTTPTimeout}, log)
}

func NewClientWithHTTP(cfg config.QueueConfig, httpClient *http.Client, log logger.Logger) *Client {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = constants.DefaultFetchTimeout
	}
	return &Client{
		queueURL: cfg.URL,
		timeout:  timeout,
		client:   httpClient,
		logger:   log,
	}
}

// Receive polls for at most one message and returns the raw response body.
func (c *Client) Receive(ctx context.Context) ([]byte, error) {
	body, err := c.call(ctx, url.Values{
		"Action":              {"ReceiveMessage"},
		"MaxNumberOfMessages": {"1"},
		"AttributeName":       {"All"},
	})
	if err != nil {
		return nil, err
	}
	c.logger.DebugwCtx(ctx, "Received queue response", "bytes", len(body))
	return body, nil
}

// Delete removes a processed message so it is not delivered again.
func (c *Client) Delete(ctx context.Context, receiptHandle string) error {
	if receiptHandle == "" {
		return apperrors.ErrFetch.WithMessage("cannot delete message without a receipt handle")
	}
	_, err := c.call(ctx, url.Values{
		"Action":        {"DeleteMessage"},
		"ReceiptHandle": {receiptHandle},
	})
	return err
}

// Ping checks the queue answers without consuming a message.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, url.Values{
		"Action":        {"GetQueueAttributes"},
		"AttributeName": {"QueueArn"},
	})
	return err
}

func (c *Client) call(ctx context.Context, params url.Values) ([]byte, error) {
	target, err := c.buildURL(params)
	if err != nil {
		return nil, apperrors.ErrFetch.WithCause(err).WithMessage("invalid queue url")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.ErrFetch.WithCause(err).WithMessage("failed to create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.ErrFetch.WithCause(err).WithDetail("action", params.Get("Action"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxQueueResponseBytes+1))
	if err != nil {
		return nil, apperrors.ErrFetch.WithCause(err).WithMessage("failed to read queue response")
	}
	if len(body) > constants.MaxQueueResponseBytes {
		return nil, apperrors.ErrFetch.WithMessage("queue response exceeds %d bytes", constants.MaxQueueResponseBytes)
	}

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return nil, apperrors.ErrFetch.
			WithMessage("queue returned status %d", resp.StatusCode).
			WithDetail("action", params.Get("Action")).
			WithDetail("status", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) buildURL(params url.Values) (string, error) {
	u, err := url.Parse(c.queueURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) String() string {
	return fmt.Sprintf("queue(%s)", c.queueURL)
}
