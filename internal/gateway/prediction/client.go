// Package prediction talks to the upstream diabetes-progression model
// service. Every failure mode collapses into a non-success Result so callers
// can degrade to pure rule-based scoring without branching on error kinds.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/anmolairi03/diabetes/internal/common/errors"
	commonhttp "github.com/anmolairi03/diabetes/internal/common/http"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/common/metrics"
	"github.com/anmolairi03/diabetes/internal/models"
)

// Result is the normalized outcome of a prediction look-up.
type Result struct {
	Success    bool
	Prediction float64
	Error      string
}

type Client struct {
	config *Config
	http   *commonhttp.Client
	cache  *Cache
	logger logger.Logger
}

// NewClient builds a gateway client. cache may be nil, in which case every
// look-up goes upstream.
func NewClient(config *Config, cache *Cache, log logger.Logger) *Client {
	return &Client{
		config: config,
		http:   commonhttp.NewClient(config.Timeout),
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "prediction-gateway"}),
	}
}

// Predict obtains a progression estimate for the given metrics. Transport
// errors, 5xx responses (after retries), malformed bodies and upstream
// success=false payloads all come back as Result{Success:false}.
func (c *Client) Predict(ctx context.Context, input models.RiskInput) Result {
	if c.cache != nil {
		if value, ok := c.cache.Get(ctx, input); ok {
			metrics.PredictionCacheHits.WithLabelValues("hit").Inc()
			return Result{Success: true, Prediction: value}
		}
		metrics.PredictionCacheHits.WithLabelValues("miss").Inc()
	}

	resp, err := c.call(ctx, input)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		c.logger.Warn("prediction unavailable, falling back to rule-based scoring", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		metrics.PredictionRequests.WithLabelValues("failure").Inc()
		return Result{Success: false, Error: stdErr.Message}
	}

	if !resp.Success {
		c.logger.Warn("prediction rejected by upstream", map[string]interface{}{
			"error": resp.Error,
		})
		metrics.PredictionRequests.WithLabelValues("rejected").Inc()
		return Result{Success: false, Error: resp.Error}
	}

	metrics.PredictionRequests.WithLabelValues("success").Inc()
	if c.cache != nil {
		c.cache.Set(ctx, input, resp.Prediction)
	}
	return Result{Success: true, Prediction: resp.Prediction}
}

func (c *Client) call(ctx context.Context, input models.RiskInput) (*models.PredictResponse, error) {
	body, _ := json.Marshal(models.PredictRequest{BMI: input.BMI, S5: input.S5, BP: input.BP})

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewPredictionTimeoutError()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/predict", bytes.NewReader(body))
		if err != nil {
			return nil, apperrors.NewPredictionUnavailableError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, apperrors.NewPredictionTimeoutError()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("upstream status %d", resp.StatusCode)
			continue
		}

		var decoded models.PredictResponse
		err = json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()
		if err != nil {
			return nil, apperrors.NewPredictionMalformedError(err)
		}

		// The upstream reports its own failures as success=false (with a 400
		// status); the payload passes through unchanged either way.
		return &decoded, nil
	}

	return nil, apperrors.NewPredictionUnavailableError(lastErr)
}

// requestBudget bounds one debounced look-up: all attempts plus backoff.
func (c *Client) requestBudget() time.Duration {
	return c.config.Timeout*time.Duration(c.config.MaxRetries+1) + time.Second
}
