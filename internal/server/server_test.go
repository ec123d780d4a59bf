package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const salesRows = `[
	{"day": "2024-01-01", "sales": "100", "goal": "90", "ly": ""},
	{"day": "2024-01-08", "sales": "120", "goal": "95", "ly": ""},
	{"day": "2024-01-15", "sales": "90", "goal": "100", "ly": ""},
	{"day": "2024-02-05", "sales": "150", "goal": "110", "ly": "140"}
]`

func baseConfig() *contract.Config {
	return &contract.Config{
		HasHeader: true,
		Mapping: schema.FieldMapping{
			Date:       schema.FieldRef{Position: 1},
			Value:      schema.FieldRef{Position: 2},
			Target:     schema.FieldRef{Position: 3},
			Historical: schema.FieldRef{Position: 4},
		},
		TrailingWeeks: contract.DefaultTrailingWeeks,
		MonthCount:    contract.DefaultMonthCount,
		ReferenceNow:  time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC),
		Location:      time.UTC,
		Precision:     1,
		Style:         schema.Style{ShowTargets: true, ShowHistorical: true, ShowGrowthRates: true},
	}
}

func do(t *testing.T, s *Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, data
}

func decodeSummary(t *testing.T, data []byte) schema.Summary {
	t.Helper()
	var summary schema.Summary
	require.NoError(t, json.Unmarshal(data, &summary), string(data))
	return summary
}

func TestHealth(t *testing.T) {
	s := New(baseConfig(), nil, "test")
	resp, data := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestWeeklySummary(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	resp, data := do(t, s, http.MethodPost, "/v1/summary/weekly", salesRows)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	summary := decodeSummary(t, data)
	assert.Equal(t, schema.SixWeekVariant, summary.Variant)
	assert.Equal(t, schema.StatusOK, summary.Status)
	require.Len(t, summary.Series, 4)
	require.NotNil(t, summary.BoxScore)
	assert.Equal(t, 150.0, summary.BoxScore.LastValue)
	require.True(t, summary.Growth.WeekOverWeek.Valid)
	assert.InDelta(t, 66.667, summary.Growth.WeekOverWeek.Float64, 0.001)
}

func TestWeeklySummaryWithOptions(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	body := `{"rows": ` + salesRows + `, "options": {"date_field": "day", "value_field": "sales", "weeks": 2, "show_targets": false}}`
	resp, data := do(t, s, http.MethodPost, "/v1/summary/weekly", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	summary := decodeSummary(t, data)
	require.Len(t, summary.Series, 2)
	assert.Equal(t, 90.0, summary.Series[0].Value)
	assert.Equal(t, 150.0, summary.Series[1].Value)
	for _, p := range summary.Series {
		assert.False(t, p.Target.Valid, "disabled target series stays absent")
	}
}

func TestMonthlySummary(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	body := `{"rows": ` + salesRows + `, "options": {"now": "2024-02-20", "months": 12}}`
	resp, data := do(t, s, http.MethodPost, "/v1/summary/monthly", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	summary := decodeSummary(t, data)
	assert.Equal(t, schema.TwelveMonthVariant, summary.Variant)
	require.Len(t, summary.Series, 2)
	assert.Equal(t, time.January, summary.Series[0].Date.Month())
}

func TestSummaryPipelineFailureIsOK(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	body := `{"rows": ` + salesRows + `, "options": {"value_field": "revenue"}}`
	resp, data := do(t, s, http.MethodPost, "/v1/summary/weekly", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeSummary(t, data)
	assert.Equal(t, schema.StatusFailed, summary.Status)
	assert.Equal(t, schema.MsgCannotRender, summary.Message)
	assert.Empty(t, summary.Series)
}

func TestSummaryBadRequests(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"not json", `{nope`, "not valid JSON"},
		{"scalar body", `42`, "invalid rows"},
		{"options wrong type", `{"rows": [], "options": {"weeks": "six"}}`, "invalid options"},
		{"weeks out of range", `{"rows": [], "options": {"weeks": 9999}}`, "weeks"},
		{"bad field", `{"rows": [], "options": {"date_field": "#0"}}`, "invalid date_field"},
		{"bad timezone", `{"rows": [], "options": {"timezone": "Mars/Olympus"}}`, "invalid timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, s, http.MethodPost, "/v1/summary/weekly", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Contains(t, body["error"], tt.contains)
		})
	}
}

func TestSummaryRecordsHistory(t *testing.T) {
	mockMgr := &runstore.MockHistoryManager{}
	mockStore := &runstore.MockHistoryStore{}
	mockMgr.On("GetHistoryStore").Return(mockStore)
	mockStore.On("BeginRun", schema.SixWeekVariant, mock.Anything, mock.Anything).Return(int64(3), nil)
	mockStore.On("RecordPoints", int64(3), mock.Anything).Return(nil)
	mockStore.On("EndRun", int64(3), mock.Anything, mock.Anything).Return(nil)

	s := New(baseConfig(), mockMgr, "test")

	resp, _ := do(t, s, http.MethodPost, "/v1/summary/weekly", salesRows)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mockStore.AssertExpectations(t)

	mockMgr.Calls = nil
	resp, _ = do(t, s, http.MethodPost, "/v1/summary/weekly?record=false", salesRows)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mockMgr.AssertNotCalled(t, "GetHistoryStore")
}

func TestFields(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	resp, data := do(t, s, http.MethodGet, "/v1/fields", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var model schema.FieldsRenderModel
	require.NoError(t, json.Unmarshal(data, &model))
	assert.Equal(t, "Trendbox Fields", model.Title)
	assert.NotEmpty(t, model.Fields)
}

func TestMetrics(t *testing.T) {
	s := New(baseConfig(), nil, "test")

	resp, _ := do(t, s, http.MethodPost, "/v1/summary/weekly", salesRows)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(data)
	assert.Contains(t, text, `trendbox_summaries_total{status="ok",variant="six-week"} 1`)
	assert.Contains(t, text, `trendbox_rows_read_total{variant="six-week"} 4`)
	assert.Contains(t, text, "trendbox_summary_duration_seconds_bucket")
}

func TestUnknownRoute(t *testing.T) {
	s := New(baseConfig(), nil, "test")
	resp, data := do(t, s, http.MethodGet, "/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(data), "error")
}
