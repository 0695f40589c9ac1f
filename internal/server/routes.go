// Package server wires the scoring service into HTTP endpoints.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulmosight/lungrisk/internal/apperrors"
	"github.com/pulmosight/lungrisk/internal/database"
	"github.com/pulmosight/lungrisk/internal/features"
	"github.com/pulmosight/lungrisk/internal/monitoring"
	"github.com/pulmosight/lungrisk/internal/prior"
	"github.com/pulmosight/lungrisk/internal/scoring"
	"github.com/pulmosight/lungrisk/internal/types"
)

const version = "1.0.0"

// Deps bundles what the handlers need. Repo may be nil when auditing is
// disabled.
type Deps struct {
	Service *scoring.Service
	Repo    *database.Repository
	Logger  *monitoring.Logger
	Metrics *monitoring.Metrics
}

// New builds the gin engine with all middleware and routes registered.
func New(deps Deps, allowedOrigins []string, maxRequestsPerMin int) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(RequestLogging(deps.Logger, deps.Metrics))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(SecurityHeaders())
	r.Use(RateLimitByIP(maxRequestsPerMin))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	registerRoutes(r, deps)
	return r
}

func registerRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().Format(time.RFC3339),
			Version:   version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/predict", predictHandler(deps))
	r.GET("/model/meta", metaHandler(deps))
	r.GET("/predictions/recent", recentHandler(deps))
}

func predictHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Error(apperrors.NewValidationError("request body must be a JSON object", err))
			return
		}

		attrs := make(map[string]features.Variant, len(body))
		for k, v := range body {
			attrs[k] = features.FromAny(v)
		}

		req := scoring.Request{Attributes: attrs}
		if raw := c.Query("prevalence"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || !prior.Valid(v) {
				c.Error(apperrors.NewValidationError("prevalence must be a number strictly between 0 and 1", err))
				return
			}
			req.PrevalenceOverride = &v
		}

		res := deps.Service.Predict(req)
		requestID := c.GetString("request_id")

		deps.Metrics.PredictionsTotal.Inc()
		deps.Metrics.PredictionScores.Observe(res.Probability)
		deps.Metrics.PredictionLatency.Observe(time.Since(start).Seconds())
		if res.UsedAdjustment {
			deps.Metrics.AdjustedTotal.Inc()
		}
		deps.Logger.PredictionLogger(requestID, res.RawProbability, res.UsedAdjustment, time.Since(start))

		if deps.Repo != nil {
			rec := &database.PredictionRecord{
				ID:                  requestID,
				Inputs:              res.Inputs,
				RawProbability:      res.RawProbability,
				AdjustedProbability: res.AdjustedProbability,
				Adjusted:            res.UsedAdjustment,
				PiTrain:             res.PiTrain,
				PiDeploy:            res.PiDeploy,
			}
			if err := deps.Repo.InsertPrediction(rec); err != nil {
				deps.Metrics.AuditWriteFailures.Inc()
				deps.Logger.Warn("failed to record prediction", "error", err, "request_id", requestID)
			}
		}

		resp := types.PredictResponse{
			RiskPercentage:        scoring.Percent(res.Probability),
			RawRiskPercentage:     scoring.Percent(res.RawProbability),
			AdjustedForPrevalence: res.UsedAdjustment,
			PriorTraining:         res.PiTrain,
			PriorDeployment:       res.PiDeploy,
			InputsUsed:            res.Inputs,
			RequestID:             requestID,
		}
		if res.AdjustedProbability != nil {
			pct := scoring.Percent(*res.AdjustedProbability)
			resp.AdjustedRiskPercentage = &pct
		}

		c.JSON(http.StatusOK, resp)
	}
}

func metaHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := deps.Service.Meta()
		c.JSON(http.StatusOK, types.MetaResponse{
			FeatureOrder:       meta.FeatureOrder,
			NumericCols:        meta.NumericCols,
			BinaryCols:         meta.BinaryCols,
			BinaryMeaning:      meta.BinaryMeaning,
			Target:             meta.Target,
			CalibrationMethod:  meta.CalibrationMethod,
			ModelFamily:        meta.ModelFamily,
			TrainingDataSource: meta.TrainingDataSource,
			PriorTraining:      deps.Service.TrainingPrior(),
			PriorDeployment:    deps.Service.DefaultDeployPrior(),
		})
	}
}

func recentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit store not configured"})
			return
		}

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				limit = v
			}
		}

		records, err := deps.Repo.RecentPredictions(limit)
		if err != nil {
			c.Error(apperrors.NewInternalError("failed to load recent predictions", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"predictions": records,
			"count":       len(records),
		})
	}
}
