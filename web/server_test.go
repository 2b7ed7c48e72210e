package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClearDemand/tempo-utils/tempo"
)

type fakeClient struct {
	mu          sync.Mutex
	worklogs    []tempo.Worklog
	listErr     error
	createCalls []tempo.CreateWorklogRequest
}

func (f *fakeClient) ListUserWorklogs(ctx context.Context, accountID string, from, to time.Time) ([]tempo.Worklog, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	fromDay := tempo.FormatDate(from)
	toDay := tempo.FormatDate(to)
	out := make([]tempo.Worklog, 0, len(f.worklogs))
	for _, item := range f.worklogs {
		if item.StartDate < fromDay || item.StartDate > toDay {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeClient) CreateWorklog(ctx context.Context, request tempo.CreateWorklogRequest) (tempo.Worklog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, request)
	return tempo.Worklog{TempoWorklogID: int64(1000 + len(f.createCalls))}, nil
}

func newTestServer(t *testing.T, client tempo.Client) *httptest.Server {
	t.Helper()
	handler := NewServer(zerolog.Nop(), client, Config{AccountID: "abc123", Timeout: 5 * time.Second})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func sourceWeekEntry() tempo.Worklog {
	return tempo.Worklog{
		TempoWorklogID:   555,
		Issue:            tempo.Issue{ID: 10100},
		TimeSpentSeconds: 7200,
		StartDate:        "2025-03-24",
		StartTime:        "09:00:00",
		Description:      "Feature work",
		Author:           tempo.Author{AccountID: "abc123"},
	}
}

func TestServer_IndexPageRenders(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeClient{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, "tempoutils")
	assert.Contains(t, text, "abc123")
	assert.Contains(t, text, "Copy a week")
}

func TestServer_APIWorklogsReturnsWeekJSON(t *testing.T) {
	t.Parallel()

	outside := sourceWeekEntry()
	outside.TempoWorklogID = 556
	outside.StartDate = "2025-04-02"

	ts := newTestServer(t, &fakeClient{worklogs: []tempo.Worklog{sourceWeekEntry(), outside}})

	resp, err := http.Get(ts.URL + "/api/worklogs?week=2025-03-24")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var decoded weekResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	assert.Equal(t, "2025-03-24", decoded.Week.Start)
	assert.Equal(t, "2025-03-30", decoded.Week.End)
	require.Len(t, decoded.Worklogs, 1)
	assert.Equal(t, int64(555), decoded.Worklogs[0].TempoWorklogID)
	assert.Equal(t, "2h", decoded.Worklogs[0].TimeSpent)
	require.Len(t, decoded.Days, 1)
	assert.Equal(t, "2025-03-24", decoded.Days[0].Date)
	assert.Equal(t, 7200, decoded.TotalSeconds)
}

func TestServer_APIWorklogsRejectsBadWeek(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeClient{})

	resp, err := http.Get(ts.URL + "/api/worklogs?week=not-a-week")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/worklogs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func postCopy(t *testing.T, ts *httptest.Server, payload string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/copy", "application/json", bytes.NewReader([]byte(payload)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_APICopyDryRunCreatesNothing(t *testing.T) {
	t.Parallel()

	client := &fakeClient{worklogs: []tempo.Worklog{sourceWeekEntry()}}
	ts := newTestServer(t, client)

	resp := postCopy(t, ts, `{"source":"2025-03-24","dest":"2025-03-31","dryRun":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded copyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	assert.True(t, decoded.DryRun)
	assert.Equal(t, 7, decoded.OffsetDays)
	require.Len(t, decoded.Entries, 1)
	assert.Equal(t, "2025-03-31", decoded.Entries[0].StartDate)
	assert.Equal(t, int64(10100), decoded.Entries[0].IssueID)
	assert.Zero(t, decoded.Created)
	assert.Empty(t, client.createCalls)
}

func TestServer_APICopyCreatesEntries(t *testing.T) {
	t.Parallel()

	client := &fakeClient{worklogs: []tempo.Worklog{sourceWeekEntry()}}
	ts := newTestServer(t, client)

	resp := postCopy(t, ts, `{"source":"2025-03-24","dest":"2025-03-31"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded copyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	assert.False(t, decoded.DryRun)
	assert.Equal(t, 1, decoded.Created)
	assert.Zero(t, decoded.Failed)

	require.Len(t, client.createCalls, 1)
	assert.Equal(t, "2025-03-31", client.createCalls[0].StartDate)
	assert.Equal(t, "abc123", client.createCalls[0].AuthorAccountID)
}

func TestServer_APICopyRejectsBadBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeClient{})

	resp := postCopy(t, ts, `{"source":"2025-03-24","dest":"2025-03-31","unknown":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postCopy(t, ts, `{"source":"not-a-day","dest":"2025-03-31"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_APICopyUpstreamErrorIsBadGateway(t *testing.T) {
	t.Parallel()

	client := &fakeClient{listErr: &tempo.APIError{Method: http.MethodGet, Path: "/worklogs/user/abc123", StatusCode: http.StatusUnauthorized, Body: "expired token"}}
	ts := newTestServer(t, client)

	resp := postCopy(t, ts, `{"source":"2025-03-24","dest":"2025-03-31"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "401"), "expected status in error body, got: %s", body)
}
