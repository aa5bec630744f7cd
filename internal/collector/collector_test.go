package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/feedback-form/internal/form"
)

func testCollector(t *testing.T, apiKey string) (*Collector, *httptest.Server) {
	t.Helper()
	c := New(apiKey, nil)
	srv := httptest.NewServer(c.Router())
	t.Cleanup(srv.Close)
	return c, srv
}

func postRecord(t *testing.T, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/api/feedback", bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func sampleRecord() form.Record {
	return form.Record{
		ID:          "rec-1",
		SubmittedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Name:        "Anna",
		Email:       "a@x.com",
		Category:    "category2",
		Message:     "This is long enough",
		Attachment:  &form.Attachment{FileName: "a.png", SizeBytes: 10, MIMEType: "image/png"},
	}
}

func TestFeedbackAccepted(t *testing.T) {
	c, srv := testCollector(t, "")
	body, _ := json.Marshal(sampleRecord())

	resp := postRecord(t, srv.URL, "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "rec-1", payload.Data.ID)
	assert.Equal(t, "received", payload.Data.Status)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, sampleRecord(), records[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(c.received.WithLabelValues("category2")))
}

func TestFeedbackRequiresKey(t *testing.T) {
	c, srv := testCollector(t, "secret")
	body, _ := json.Marshal(sampleRecord())

	resp := postRecord(t, srv.URL, "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, c.Records())

	resp = postRecord(t, srv.URL, "secret", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestFeedbackRejectsMalformedBody(t *testing.T) {
	c, srv := testCollector(t, "")

	resp := postRecord(t, srv.URL, "", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postRecord(t, srv.URL, "", []byte(`{"name":"no id"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, c.Records())
}

func TestHealthAndMetrics(t *testing.T) {
	_, srv := testCollector(t, "")
	body, _ := json.Marshal(sampleRecord())
	postRecord(t, srv.URL, "", body)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	text, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `feedback_received_total{category="category2"} 1`)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New("", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
