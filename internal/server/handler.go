// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/anmolairi03/diabetes/internal/common/config"
	"github.com/anmolairi03/diabetes/internal/common/database"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/common/metrics"
	"github.com/anmolairi03/diabetes/internal/common/observability"
	"github.com/anmolairi03/diabetes/internal/common/validation"
	"github.com/anmolairi03/diabetes/internal/gateway/prediction"
	"github.com/anmolairi03/diabetes/internal/models"
	"github.com/anmolairi03/diabetes/internal/risk"
)

// assessSchema bounds the questionnaire domain. The scorer itself is total
// over any finite input; range enforcement stops at this boundary.
var assessSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []string{"bmi", "s5", "bp"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"bmi": map[string]interface{}{"type": "number", "minimum": 10, "maximum": 50},
		"s5":  map[string]interface{}{"type": "number", "minimum": -0.2, "maximum": 0.2},
		"bp":  map[string]interface{}{"type": "number", "minimum": 60, "maximum": 200},
	},
}

type Handler struct {
	config  *config.Config
	gateway *prediction.Client
	redis   *database.RedisClient
	obs     *observability.Observability
	logger  logger.Logger
}

// NewHandler wires the HTTP handlers. gateway, redisClient and obs may each
// be nil; the corresponding feature is then reported as disabled.
func NewHandler(cfg *config.Config, gateway *prediction.Client, redisClient *database.RedisClient, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:  cfg,
		gateway: gateway,
		redis:   redisClient,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

type errorResponse struct {
	Error  string                       `json:"error"`
	Fields []validation.ValidationError `json:"fields,omitempty"`
}

// Assess runs the full questionnaire flow: validate, optionally fetch a
// model prediction, score. Gateway failure silently degrades to rule-based
// scoring; the client always gets a complete result.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	input, vr, err := h.decodeInput(r)
	if err != nil {
		h.record(r.Context(), start, "bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if !vr.Valid {
		for _, fieldErr := range vr.Errors {
			metrics.ValidationFailures.WithLabelValues(fieldErr.Field).Inc()
		}
		h.record(r.Context(), start, "invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request validation failed", Fields: vr.Errors})
		return
	}

	var pred *float64
	if h.config.Prediction.Enabled && h.gateway != nil {
		if result := h.gateway.Predict(r.Context(), *input); result.Success {
			p := result.Prediction
			pred = &p
		}
	}

	result := risk.Score(*input, pred)

	metrics.AssessmentsTotal.WithLabelValues(string(result.RiskLevel), strconv.FormatBool(pred != nil)).Inc()
	h.record(r.Context(), start, "ok")

	writeJSON(w, http.StatusOK, models.AssessmentResponse{
		RequestID: RequestIDFrom(r.Context()),
		ModelUsed: pred != nil,
		Result:    result,
	})
}

// Predict proxies the raw upstream prediction for clients that only want the
// model value, mirroring the upstream wire shape.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	input, vr, err := h.decodeInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.PredictResponse{Success: false, Error: "invalid JSON body"})
		return
	}
	if !vr.Valid {
		writeJSON(w, http.StatusBadRequest, models.PredictResponse{Success: false, Error: "request validation failed"})
		return
	}

	if !h.config.Prediction.Enabled || h.gateway == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.PredictResponse{Success: false, Error: "prediction service disabled"})
		return
	}

	result := h.gateway.Predict(r.Context(), *input)
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, models.PredictResponse{Success: false, Error: result.Error})
		return
	}

	writeJSON(w, http.StatusOK, models.PredictResponse{
		Success:    true,
		Prediction: result.Prediction,
		Inputs:     *input,
	})
}

// Health reports liveness plus the state of the optional redis dependency.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "redis": "disabled"}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) decodeInput(r *http.Request) (*models.RiskInput, *validation.ValidationResult, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, err
	}

	vr, err := validation.Validate(assessSchema, doc)
	if err != nil {
		return nil, nil, err
	}
	if !vr.Valid {
		return nil, vr, nil
	}

	var input models.RiskInput
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, nil, err
	}
	return &input, vr, nil
}

func (h *Handler) record(ctx context.Context, start time.Time, status string) {
	metrics.AssessmentDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if h.obs != nil {
		h.obs.RecordRequest(ctx, status)
		h.obs.RecordRequestDuration(ctx, time.Since(start), status)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
