package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anmolairi03/diabetes/internal/common/config"
	"github.com/anmolairi03/diabetes/internal/common/database"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/gateway/prediction"
	"github.com/anmolairi03/diabetes/internal/models"
)

func testConfig(predictionBaseURL string, predictionEnabled bool) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "diabetes-risk-api", Environment: "test"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: 5000, WriteTimeout: 5000},
		Prediction: config.PredictionConfig{
			BaseURL: predictionBaseURL,
			Timeout: 2000,
			Enabled: predictionEnabled,
		},
	}
}

func newTestGateway(t *testing.T, baseURL string) *prediction.Client {
	t.Helper()
	return prediction.NewClient(&prediction.Config{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	}, nil, logger.NewTestLogger(t))
}

func newTestServer(t *testing.T, cfg *config.Config, gateway *prediction.Client, redisClient *database.RedisClient) *httptest.Server {
	t.Helper()
	log := logger.NewTestLogger(t)
	handler := NewHandler(cfg, gateway, redisClient, nil, log)
	srv := New(cfg, handler, log)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeAssessment(t *testing.T, resp *http.Response) models.AssessmentResponse {
	t.Helper()
	defer resp.Body.Close()
	var out models.AssessmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAssess_RuleBasedOnly(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	resp := postJSON(t, ts.URL+"/api/assess", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	out := decodeAssessment(t, resp)
	assert.False(t, out.ModelUsed)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, resp.Header.Get("X-Request-Id"), out.RequestID)

	assert.Equal(t, 3.0, out.Result.Score)
	assert.Equal(t, models.RiskLow, out.Result.RiskLevel)
	assert.Equal(t, 31, out.Result.Percentage)
	assert.Nil(t, out.Result.ModelPrediction)

	require.Len(t, out.Result.Factors, 3)
	assert.Equal(t, models.StatusElevated, out.Result.Factors["bmi"].Status)
	assert.Equal(t, models.StatusNormal, out.Result.Factors["s5"].Status)
	assert.Equal(t, models.StatusNormal, out.Result.Factors["bp"].Status)

	assert.Contains(t, out.Result.Recommendations, "Maintain a balanced diet rich in vegetables, whole grains and lean protein.")
	assert.Contains(t, out.Result.Recommendations, "Aim for at least 150 minutes of moderate physical activity per week.")
}

func TestAssess_WithModelPrediction(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PredictResponse{Success: true, Prediction: 150})
	}))
	defer upstream.Close()

	ts := newTestServer(t, testConfig(upstream.URL, true), newTestGateway(t, upstream.URL), nil)

	resp := postJSON(t, ts.URL+"/api/assess", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAssessment(t, resp)
	assert.True(t, out.ModelUsed)
	require.NotNil(t, out.Result.ModelPrediction)
	assert.Equal(t, 150.0, *out.Result.ModelPrediction)
	// (3.0 + 150/50) / 2
	assert.Equal(t, 3.0, out.Result.Score)
	assert.Equal(t, 75, out.Result.Percentage)
}

func TestAssess_UpstreamDownFallsBack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	ts := newTestServer(t, testConfig(upstream.URL, true), newTestGateway(t, upstream.URL), nil)

	resp := postJSON(t, ts.URL+"/api/assess", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAssessment(t, resp)
	assert.False(t, out.ModelUsed)
	assert.Nil(t, out.Result.ModelPrediction)
	assert.Equal(t, 31, out.Result.Percentage)
}

func TestAssess_ValidationFailures(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing field", `{"bmi":25.5,"s5":0.045}`, "bp"},
		{"bmi below range", `{"bmi":9.9,"s5":0.045,"bp":120}`, "bmi"},
		{"bp above range", `{"bmi":25.5,"s5":0.045,"bp":201}`, "bp"},
		{"s5 wrong type", `{"bmi":25.5,"s5":"high","bp":120}`, "s5"},
		{"unknown field", `{"bmi":25.5,"s5":0.045,"bp":120,"age":44}`, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/assess", tt.body)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, "request validation failed", out.Error)

			fields := make([]string, 0, len(out.Fields))
			for _, f := range out.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestAssess_MalformedJSON(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	resp := postJSON(t, ts.URL+"/api/assess", `{"bmi":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssess_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	resp, err := http.Get(ts.URL + "/api/assess")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPredictProxy_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PredictResponse{Success: true, Prediction: 88.5})
	}))
	defer upstream.Close()

	ts := newTestServer(t, testConfig(upstream.URL, true), newTestGateway(t, upstream.URL), nil)

	resp := postJSON(t, ts.URL+"/api/predict", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.PredictResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, 88.5, out.Prediction)
	assert.Equal(t, models.RiskInput{BMI: 25.5, S5: 0.045, BP: 120}, out.Inputs)
}

func TestPredictProxy_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.PredictResponse{Success: false, Error: "model not loaded"})
	}))
	defer upstream.Close()

	ts := newTestServer(t, testConfig(upstream.URL, true), newTestGateway(t, upstream.URL), nil)

	resp := postJSON(t, ts.URL+"/api/predict", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out models.PredictResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Equal(t, "model not loaded", out.Error)
}

func TestPredictProxy_Disabled(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	resp := postJSON(t, ts.URL+"/api/predict", `{"bmi":25.5,"s5":0.045,"bp":120}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth_RedisStates(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ts := newTestServer(t, testConfig("", false), nil, nil)

		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ok", out["status"])
		assert.Equal(t, "disabled", out["redis"])
	})

	t.Run("reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
		ts := newTestServer(t, testConfig("", false), nil, rdb)

		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ok", out["redis"])
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
		mr.Close()
		ts := newTestServer(t, testConfig("", false), nil, rdb)

		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ok", out["status"])
		assert.Equal(t, "unavailable", out["redis"])
	})
}

func TestRequestID_IncomingHeaderHonored(t *testing.T) {
	ts := newTestServer(t, testConfig("", false), nil, nil)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/assess", bytes.NewBufferString(`{"bmi":25.5,"s5":0.045,"bp":120}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "caller-supplied-id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeAssessment(t, resp)
	assert.Equal(t, "caller-supplied-id", out.RequestID)
	assert.Equal(t, "caller-supplied-id", resp.Header.Get("X-Request-Id"))
}
