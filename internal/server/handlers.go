package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/palassaha/SC2-Backend/internal/placement"
	"github.com/palassaha/SC2-Backend/internal/planner"
)

const oracleUnavailable = "this endpoint requires the AI backend, which is not configured"

// handleEligibilityCheck never 5xxs: the engine answers for any shaped
// payload, oracle or no oracle.
func (s *Server) handleEligibilityCheck(c *gin.Context) {
	var payload placement.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if payload.User == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user object is required"})
		return
	}

	report := s.services.Engine.Check(c.Request.Context(), &payload)

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleSkillsAnalyze(c *gin.Context) {
	if s.services.Resume == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": oracleUnavailable})
		return
	}

	var body struct {
		ResumeContent string   `json:"resume_content"`
		Skills        []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	analysis, err := s.services.Resume.Analyze(c.Request.Context(), body.ResumeContent, body.Skills)
	if err != nil {
		// Analyze only fails on unusable input; oracle trouble degrades
		// to an all-unmatched analysis instead.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleInterviewQuestions(c *gin.Context) {
	if s.services.Interview == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": oracleUnavailable})
		return
	}

	// Existing clients key these fields with spaces; keep that contract.
	var body struct {
		CompanyName string `json:"company name"`
		JobRole     string `json:"job role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(body.CompanyName) == "" || strings.TrimSpace(body.JobRole) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must contain 'company name' and 'job role'"})
		return
	}

	questions, err := s.services.Interview.Fetch(c.Request.Context(), body.CompanyName, body.JobRole)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (s *Server) handlePlannerGenerate(c *gin.Context) {
	if s.services.Planner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": oracleUnavailable})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	req, err := planner.DecodeRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Role) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company and role are required"})
		return
	}

	plan, err := s.services.Planner.Generate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (s *Server) handlePostsSummarize(c *gin.Context) {
	if s.services.Summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": oracleUnavailable})
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}

	summary, err := s.services.Summarizer.Summarize(c.Request.Context(), body.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
