package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultMaxBody = 1 << 20

// Client performs single-shot GET requests without retries.
type Client struct {
	HTTP    *http.Client
	MaxBody int64
}

type Response struct {
	StatusCode int
	Reason     string
	Body       []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode <= 299 }

func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	limit := c.MaxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Response{StatusCode: resp.StatusCode, Reason: Reason(resp)}, fmt.Errorf("read body: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Reason: Reason(resp), Body: body}, nil
}

// Reason extracts the reason phrase ("Not Found") from a response.
func Reason(resp *http.Response) string {
	if _, after, ok := strings.Cut(resp.Status, " "); ok && after != "" {
		return after
	}
	return http.StatusText(resp.StatusCode)
}
