package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DraftHandler drives the program builder. A draft lives in the draft store
// between requests; each op request applies one edit.
type DraftHandler struct {
	programService service.ProgramService
	notifier       *notify.Notifier
}

func NewDraftHandler(programService service.ProgramService, notifier *notify.Notifier) *DraftHandler {
	return &DraftHandler{programService: programService, notifier: notifier}
}

// StartDraftRequest opens a blank draft, or a draft of an existing program.
type StartDraftRequest struct {
	ProgramID string `json:"programId"`
}

// StartDraft godoc
// @Summary Open a program draft
// @Tags Builder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartDraftRequest false "Existing program to edit"
// @Success 201 {object} service.DraftView
// @Router /coach/drafts [post]
func (h *DraftHandler) StartDraft(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req StartDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	var from *primitive.ObjectID
	if req.ProgramID != "" {
		id, err := primitive.ObjectIDFromHex(req.ProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
			return
		}
		from = &id
	}

	view, err := h.programService.StartDraft(c.Request.Context(), identity.UserID, from)
	if err != nil {
		respondError(c, h.notifier, "start draft", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	view, err := h.programService.GetDraft(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.notifier, "load draft", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ApplyOp godoc
// @Summary Apply one edit to a draft
// @Description A rejected edit leaves the draft unchanged.
// @Tags Builder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param op body builder.Op true "Edit"
// @Success 200 {object} service.DraftView
// @Failure 400 {object} ErrorResponse "Invalid value, e.g. an RPE above 10"
// @Failure 404 {object} ErrorResponse "Draft, block, exercise or set not found"
// @Router /coach/drafts/{id}/ops [post]
func (h *DraftHandler) ApplyOp(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var op builder.Op
	if err := c.ShouldBindJSON(&op); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	view, err := h.programService.Apply(c.Request.Context(), identity.UserID, c.Param("id"), op)
	if err != nil {
		respondError(c, h.notifier, "edit draft", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveDraft godoc
// @Summary Save a draft as a program
// @Description On success the draft is discarded. A rejected save keeps it.
// @Tags Builder
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.Program
// @Router /coach/drafts/{id}/save [post]
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	program, err := h.programService.SaveDraft(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		// SaveDraft reports its own failures through the notifier
		renderError(c, h.notifier, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	if err := h.programService.DiscardDraft(c.Request.Context(), identity.UserID, c.Param("id")); err != nil {
		respondError(c, h.notifier, "discard draft", err)
		return
	}
	c.Status(http.StatusNoContent)
}
