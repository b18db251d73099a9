package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler serves the roster, program list and dashboard of a coach.
type CoachHandler struct {
	coachService service.CoachService
	statsService service.StatsService
	notifier     *notify.Notifier
}

func NewCoachHandler(coachService service.CoachService, statsService service.StatsService, notifier *notify.Notifier) *CoachHandler {
	return &CoachHandler{coachService: coachService, statsService: statsService, notifier: notifier}
}

type LinkAthleteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// programFilterFromQuery reads ?search=&date=&status=&athleteId=.
func programFilterFromQuery(c *gin.Context) (service.ProgramFilter, error) {
	filter := service.ProgramFilter{
		Search: c.Query("search"),
		Date:   service.DateBucket(c.Query("date")),
		Status: service.ProgramStatus(c.Query("status")),
	}
	if hex := c.Query("athleteId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return filter, &domain.ValidationError{Field: "athleteId", Reason: "is not a valid id"}
		}
		filter.AthleteID = &id
	}
	return filter, nil
}

// ListAthletes godoc
// @Summary List the coach's athletes
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.RosterEntry "Roster, empty when no athlete is linked"
// @Router /coach/athletes [get]
func (h *CoachHandler) ListAthletes(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	roster, err := h.coachService.ListAthletes(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "list athletes", err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// LinkAthlete godoc
// @Summary Add an athlete to the roster by email
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LinkAthleteRequest true "Athlete's email"
// @Success 201 {object} domain.RosterEntry "Athlete linked"
// @Failure 400 {object} ErrorResponse "Not an athlete, or the coach's own email"
// @Failure 404 {object} ErrorResponse "No profile with this email"
// @Failure 409 {object} ErrorResponse "Already linked"
// @Router /coach/athletes [post]
func (h *CoachHandler) LinkAthlete(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req LinkAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.coachService.LinkAthleteByEmail(c.Request.Context(), identity.UserID, req.Email)
	if err != nil {
		respondError(c, h.notifier, "link athlete", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *CoachHandler) UnlinkAthlete(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	athleteID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.coachService.UnlinkAthlete(c.Request.Context(), identity.UserID, athleteID, confirmed(c)); err != nil {
		respondError(c, h.notifier, "unlink athlete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPrograms godoc
// @Summary List the coach's programs
// @Description Filters are applied over the coach's whole program list.
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description or athlete name"
// @Param date query string false "today, this_week, upcoming, past or unscheduled"
// @Param status query string false "completed or pending"
// @Param athleteId query string false "Athlete ObjectID Hex"
// @Success 200 {array} domain.ProgramListing
// @Router /coach/programs [get]
func (h *CoachHandler) ListPrograms(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	filter, err := programFilterFromQuery(c)
	if err != nil {
		respondError(c, h.notifier, "list programs", err)
		return
	}
	listings, err := h.coachService.ListPrograms(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		respondError(c, h.notifier, "list programs", err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *CoachHandler) GetProgram(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	programID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	program, err := h.coachService.GetProgram(c.Request.Context(), identity.UserID, programID)
	if err != nil {
		respondError(c, h.notifier, "load program", err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *CoachHandler) DeleteProgram(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	programID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.coachService.DeleteProgram(c.Request.Context(), identity.UserID, programID, confirmed(c)); err != nil {
		respondError(c, h.notifier, "delete program", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CoachHandler) Dashboard(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	stats, err := h.statsService.CoachDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
