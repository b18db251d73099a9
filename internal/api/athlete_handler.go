package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AthleteHandler serves an athlete's programs, sessions and assessments.
type AthleteHandler struct {
	athleteService service.AthleteService
	statsService   service.StatsService
	buckets        domain.ScaleBuckets
	notifier       *notify.Notifier
}

func NewAthleteHandler(athleteService service.AthleteService, statsService service.StatsService, buckets domain.ScaleBuckets, notifier *notify.Notifier) *AthleteHandler {
	return &AthleteHandler{athleteService: athleteService, statsService: statsService, buckets: buckets, notifier: notifier}
}

type MarkCompleteRequest struct {
	Notes string `json:"notes"`
}

type MarkCompleteResponse struct {
	Session *domain.WorkoutSession `json:"session"`
	Created bool                   `json:"created"`
}

type SubmitAssessmentRequest struct {
	WorkoutSessionID string                `json:"workoutSessionId" binding:"required"`
	AssessmentType   domain.AssessmentType `json:"assessmentType" binding:"required"`
	FatigueLevel     int                   `json:"fatigueLevel" binding:"required"`
	PainLevel        int                   `json:"painLevel" binding:"required"`
	MotivationLevel  int                   `json:"motivationLevel" binding:"required"`
	EnergyLevel      int                   `json:"energyLevel" binding:"required"`
	Notes            string                `json:"notes"`
}

// AssessmentResponse is an assessment with its scales labelled for display.
type AssessmentResponse struct {
	domain.FitnessAssessment
	Readings []domain.ScaleReading `json:"readings"`
}

func (h *AthleteHandler) assessmentResponse(a domain.FitnessAssessment) AssessmentResponse {
	return AssessmentResponse{FitnessAssessment: a, Readings: h.buckets.Readings(a)}
}

// ListMyPrograms godoc
// @Summary List programs assigned to the athlete
// @Tags Athlete
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description or coach name"
// @Param date query string false "today, this_week, upcoming, past or unscheduled"
// @Param status query string false "completed or pending"
// @Success 200 {array} domain.ProgramListing
// @Router /athlete/programs [get]
func (h *AthleteHandler) ListMyPrograms(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	filter, err := programFilterFromQuery(c)
	if err != nil {
		respondError(c, h.notifier, "list programs", err)
		return
	}
	listings, err := h.athleteService.ListMyPrograms(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		respondError(c, h.notifier, "list programs", err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// MarkComplete godoc
// @Summary Mark an assigned program complete
// @Description Creates the workout session on first completion and updates it afterwards.
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ObjectID Hex"
// @Param request body MarkCompleteRequest false "Optional notes"
// @Success 200 {object} MarkCompleteResponse
// @Failure 403 {object} ErrorResponse "Program not assigned to this athlete"
// @Router /athlete/programs/{id}/complete [post]
func (h *AthleteHandler) MarkComplete(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	programID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req MarkCompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	session, created, err := h.athleteService.MarkProgramComplete(c.Request.Context(), identity.UserID, programID, req.Notes)
	if err != nil {
		respondError(c, h.notifier, "mark program complete", err)
		return
	}
	c.JSON(http.StatusOK, MarkCompleteResponse{Session: session, Created: created})
}

func (h *AthleteHandler) ListCompletedSessions(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	sessions, err := h.athleteService.ListCompletedSessions(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "list sessions", err)
		return
	}
	if sessions == nil {
		sessions = []domain.CompletedSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// SubmitAssessment godoc
// @Summary Record a fitness assessment for a completed session
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitAssessmentRequest true "Scales from 1 to 10"
// @Success 201 {object} AssessmentResponse
// @Failure 400 {object} ErrorResponse "Scale out of range or session not completed"
// @Router /athlete/assessments [post]
func (h *AthleteHandler) SubmitAssessment(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.WorkoutSessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout session ID format.")
		return
	}

	assessment, err := h.athleteService.SubmitAssessment(c.Request.Context(), identity.UserID, service.AssessmentInput{
		SessionID:  sessionID,
		Type:       req.AssessmentType,
		Fatigue:    req.FatigueLevel,
		Pain:       req.PainLevel,
		Motivation: req.MotivationLevel,
		Energy:     req.EnergyLevel,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.notifier, "submit assessment", err)
		return
	}
	c.JSON(http.StatusCreated, h.assessmentResponse(*assessment))
}

func (h *AthleteHandler) ListAssessments(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	history, err := h.athleteService.ListAssessments(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "list assessments", err)
		return
	}
	out := make([]AssessmentResponse, 0, len(history))
	for _, a := range history {
		out = append(out, h.assessmentResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AthleteHandler) Dashboard(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	stats, err := h.statsService.AthleteDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
