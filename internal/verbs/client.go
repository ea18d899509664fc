package verbs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to a remote verb service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client rooted at baseURL. A non-positive timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("verb service url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid verb service url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}, nil
}

// Random fetches a random verb filtered by the query.
func (c *Client) Random(ctx context.Context, q RandomQuery) (VerbConjugations, error) {
	params := url.Values{}
	params.Set("include_vosotros", strconv.FormatBool(q.IncludeVosotros))
	for _, tense := range q.Tenses {
		params.Add("tenses", tense)
	}
	var out VerbConjugations
	if err := c.getJSON(ctx, "/api/v1/verbs/random?"+params.Encode(), &out); err != nil {
		return VerbConjugations{}, err
	}
	return out, nil
}

// Verb fetches every tense of a named verb.
func (c *Client) Verb(ctx context.Context, name string) (VerbConjugations, error) {
	var out VerbConjugations
	if err := c.getJSON(ctx, "/api/v1/verbs/"+url.PathEscape(name), &out); err != nil {
		return VerbConjugations{}, err
	}
	return out, nil
}

// Tense fetches a single tense of a named verb.
func (c *Client) Tense(ctx context.Context, name, tense string) (TenseConjugations, error) {
	var out TenseConjugations
	if err := c.getJSON(ctx, "/api/v1/verbs/"+url.PathEscape(name)+"/"+url.PathEscape(tense), &out); err != nil {
		return TenseConjugations{}, err
	}
	return out, nil
}

// Tenses fetches the ordered tense names the service knows.
func (c *Client) Tenses(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/api/v1/tenses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrUnavailable, err)
	}
	return nil
}

type errorBody struct {
	Detail string `json:"detail"`
}

func statusError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	se := &StatusError{Code: resp.StatusCode, Status: resp.Status, Detail: body.Detail}
	if resp.StatusCode == http.StatusNotFound {
		switch {
		case strings.HasPrefix(body.Detail, "Tense "):
			return fmt.Errorf("%w: %w", ErrTenseNotFound, se)
		case strings.HasPrefix(body.Detail, "Verb "):
			return fmt.Errorf("%w: %w", ErrVerbNotFound, se)
		}
	}
	return se
}
