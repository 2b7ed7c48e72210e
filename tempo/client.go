package tempo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used by the Tempo v4 API.
	DateLayout = "2006-01-02"

	// DefaultBaseURL is the public Tempo REST endpoint.
	DefaultBaseURL = "https://api.tempo.io/4"

	defaultPageLimit = 50
)

// Client defines the Tempo API operations the copier relies on.
type Client interface {
	ListUserWorklogs(ctx context.Context, accountID string, from, to time.Time) ([]Worklog, error)
	CreateWorklog(ctx context.Context, request CreateWorklogRequest) (Worklog, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	APIToken   string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	apiToken   string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	apiToken := strings.TrimSpace(cfg.APIToken)
	if apiToken == "" {
		return nil, errors.New("API token is required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiToken:   apiToken,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// Worklog is a single Tempo worklog as returned by the v4 API.
type Worklog struct {
	Self             string     `json:"self,omitempty"`
	TempoWorklogID   int64      `json:"tempoWorklogId"`
	Issue            Issue      `json:"issue"`
	TimeSpentSeconds int        `json:"timeSpentSeconds"`
	BillableSeconds  int        `json:"billableSeconds"`
	StartDate        string     `json:"startDate"`
	StartTime        string     `json:"startTime"`
	Description      string     `json:"description"`
	CreatedAt        string     `json:"createdAt,omitempty"`
	UpdatedAt        string     `json:"updatedAt,omitempty"`
	Author           Author     `json:"author"`
	Attributes       Attributes `json:"attributes"`
}

// Day parses the worklog's start date.
func (w Worklog) Day() (time.Time, error) {
	return ParseDate(w.StartDate)
}

func (w Worklog) Duration() time.Duration {
	return time.Duration(w.TimeSpentSeconds) * time.Second
}

type Issue struct {
	Self string `json:"self,omitempty"`
	ID   int64  `json:"id"`
}

type Author struct {
	Self      string `json:"self,omitempty"`
	AccountID string `json:"accountId"`
}

type Attributes struct {
	Self   string           `json:"self,omitempty"`
	Values []AttributeValue `json:"values"`
}

// AttributeValue is a custom work attribute. Values pass through untyped
// because the service mixes strings, numbers and booleans per attribute key.
type AttributeValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// CreateWorklogRequest is the POST /worklogs payload. Billable seconds are
// not part of the create contract; the service derives them.
type CreateWorklogRequest struct {
	Attributes       []AttributeValue `json:"attributes"`
	AuthorAccountID  string           `json:"authorAccountId"`
	IssueID          int64            `json:"issueId"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
	StartDate        string           `json:"startDate"`
	StartTime        string           `json:"startTime"`
	Description      string           `json:"description"`
}

type pageMetadata struct {
	Count  int    `json:"count"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Next   string `json:"next"`
}

type searchWorklogsResponse struct {
	Metadata pageMetadata `json:"metadata"`
	Results  []Worklog    `json:"results"`
}

// APIError describes a non-2xx response from the Tempo API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request %s %s failed with status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Authentication reports whether the response rejected the presented credentials.
func (e *APIError) Authentication() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err carries an API response that rejected the
// presented credentials.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Authentication()
}

// ListUserWorklogs returns every worklog for the account between from and to,
// both inclusive, following the paging metadata until exhausted.
func (c *HTTPClient) ListUserWorklogs(ctx context.Context, accountID string, from, to time.Time) ([]Worklog, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errors.New("account id is required")
	}

	var worklogs []Worklog
	offset := 0
	for {
		query := url.Values{}
		query.Set("from", FormatDate(from))
		query.Set("to", FormatDate(to))
		query.Set("offset", strconv.Itoa(offset))
		query.Set("limit", strconv.Itoa(defaultPageLimit))
		path := fmt.Sprintf("/worklogs/user/%s?%s", url.PathEscape(accountID), query.Encode())

		var page searchWorklogsResponse
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		worklogs = append(worklogs, page.Results...)

		if page.Metadata.Next == "" || len(page.Results) == 0 {
			return worklogs, nil
		}
		offset += len(page.Results)
	}
}

func (c *HTTPClient) CreateWorklog(ctx context.Context, request CreateWorklogRequest) (Worklog, error) {
	var out Worklog
	if err := c.doJSON(ctx, http.MethodPost, "/worklogs", request, &out); err != nil {
		return Worklog{}, err
	}
	return out, nil
}

func FormatDate(day time.Time) string {
	return day.Format(DateLayout)
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	url := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
