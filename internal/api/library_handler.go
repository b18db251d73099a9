package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
)

// LibraryHandler serves the coach's exercise library.
type LibraryHandler struct {
	libraryService service.LibraryService
	notifier       *notify.Notifier
}

func NewLibraryHandler(libraryService service.LibraryService, notifier *notify.Notifier) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService, notifier: notifier}
}

// CreateExercise godoc
// @Summary Add an exercise to the coach's library
// @Tags Library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body service.LibraryExerciseInput true "Exercise details"
// @Success 201 {object} domain.LibraryExercise
// @Failure 409 {object} ErrorResponse "Name already used in this library"
// @Router /coach/library [post]
func (h *LibraryHandler) CreateExercise(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req service.LibraryExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.libraryService.CreateExercise(c.Request.Context(), identity.UserID, req)
	if err != nil {
		respondError(c, h.notifier, "create exercise", err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *LibraryHandler) ListExercises(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	exercises, err := h.libraryService.ListExercises(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "list exercises", err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *LibraryHandler) GetExercise(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.libraryService.GetExercise(c.Request.Context(), identity.UserID, exerciseID)
	if err != nil {
		respondError(c, h.notifier, "load exercise", err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *LibraryHandler) UpdateExercise(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req service.LibraryExerciseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.libraryService.UpdateExercise(c.Request.Context(), identity.UserID, exerciseID, req)
	if err != nil {
		respondError(c, h.notifier, "update exercise", err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *LibraryHandler) DeleteExercise(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	exerciseID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.libraryService.DeleteExercise(c.Request.Context(), identity.UserID, exerciseID, confirmed(c)); err != nil {
		respondError(c, h.notifier, "delete exercise", err)
		return
	}
	c.Status(http.StatusNoContent)
}
