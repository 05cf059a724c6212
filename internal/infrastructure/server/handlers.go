package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doeshing/diarisk/internal/application/report"
	"github.com/doeshing/diarisk/internal/domain"
)

// reportRequest carries metrics and an explanation produced by an earlier
// prediction, so a report never triggers a second remote call.
type reportRequest struct {
	Metrics     domain.HealthMetrics `json:"metrics"`
	Explanation string               `json:"explanation"`
}

func (s *Server) handleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index", s.page(domain.DefaultHealthMetrics()))
}

func (s *Server) handleFormSubmit(c *gin.Context) {
	metrics := metricsFromForm(c.PostForm)
	data := s.page(metrics)

	if !s.guard.TryAcquire() {
		data.Notice = MsgInProgress
		c.HTML(http.StatusConflict, "index", data)
		return
	}
	defer s.guard.Release()

	ctx, cancel := s.predictContext(c.Request.Context())
	defer cancel()

	result, err := s.predictor.Predict(ctx, metrics)
	if err != nil {
		_ = c.Error(err)
		data.Notice = "The prediction could not be completed."
		c.HTML(http.StatusInternalServerError, "index", data)
		return
	}
	data.Result = &result
	c.HTML(http.StatusOK, "index", data)
}

func (s *Server) handleScore(c *gin.Context) {
	var metrics domain.HealthMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	c.JSON(http.StatusOK, s.predictor.Assess(metrics))
}

func (s *Server) handlePredict(c *gin.Context) {
	var metrics domain.HealthMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if !s.guard.TryAcquire() {
		c.JSON(http.StatusConflict, gin.H{"error": "request already in progress"})
		return
	}
	defer s.guard.Release()

	ctx, cancel := s.predictContext(c.Request.Context())
	defer cancel()

	result, err := s.predictor.Predict(ctx, metrics)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleFormReport(c *gin.Context) {
	metrics := metricsFromForm(c.PostForm)
	s.sendReport(c, metrics, c.PostForm("explanation"))
}

func (s *Server) handleReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	s.sendReport(c, req.Metrics, req.Explanation)
}

func (s *Server) sendReport(c *gin.Context, metrics domain.HealthMetrics, explanation string) {
	doc, err := report.FromExplanation(metrics, explanation, s.opts.ModelID, time.Now()).Bytes()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(http.StatusOK, report.ContentType, doc)
}

func (s *Server) handleReady(c *gin.Context) {
	if !s.opts.Ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "degraded",
			"credential": "missing " + s.opts.CredentialName,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "credential": "configured"})
}
