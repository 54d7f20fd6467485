package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ActraStride/xulcan/types"
)

func TestCollectorRecordUsage(t *testing.T) {
	c := NewCollector("xulcan", zaptest.NewLogger(t))

	usage, _, err := types.NewUsageStats(types.UsageStats{
		InputTokens:              100,
		OutputTokens:             50,
		TotalTokens:              150,
		CacheReadInputTokens:     30,
		CacheCreationInputTokens: 20,
		LatencyMS:                1200,
	})
	require.NoError(t, err)

	c.RecordUsage("anthropic", "claude-sonnet-4", usage)
	c.RecordUsage("anthropic", "claude-sonnet-4", usage)

	reports := c.llmUsageReports.WithLabelValues("anthropic", "claude-sonnet-4")
	assert.Equal(t, 2.0, testutil.ToFloat64(reports))

	input := c.llmTokensUsed.WithLabelValues("anthropic", "claude-sonnet-4", "input")
	assert.Equal(t, 200.0, testutil.ToFloat64(input))

	cacheRead := c.llmCacheTokens.WithLabelValues("anthropic", "claude-sonnet-4", "read")
	assert.Equal(t, 60.0, testutil.ToFloat64(cacheRead))
}

func TestCollectorUnknownLabels(t *testing.T) {
	c := NewCollector("xulcan", zaptest.NewLogger(t))

	c.RecordUsage("", "", types.ZeroUsage())

	reports := c.llmUsageReports.WithLabelValues("unknown", "unknown")
	assert.Equal(t, 1.0, testutil.ToFloat64(reports))
}

func TestCollectorHTTPAndScrape(t *testing.T) {
	c := NewCollector("xulcan", zaptest.NewLogger(t))

	c.RecordHTTPRequest(http.MethodPost, "/validate/messages", 200, 5*time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, "/validate/messages", 400, 2*time.Millisecond)

	ok := c.httpRequestsTotal.WithLabelValues(http.MethodPost, "/validate/messages", "2xx")
	assert.Equal(t, 1.0, testutil.ToFloat64(ok))
	rejected := c.httpRequestsTotal.WithLabelValues(http.MethodPost, "/validate/messages", "4xx")
	assert.Equal(t, 1.0, testutil.ToFloat64(rejected))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "xulcan_http_requests_total"))
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx", 204: "2xx", 301: "3xx", 404: "4xx", 500: "5xx", 100: "unknown",
	}
	for code, want := range cases {
		assert.Equal(t, want, statusClass(code), "code %d", code)
	}
}
