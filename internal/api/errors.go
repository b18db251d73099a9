package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/kafkaan/fit-coach-link/internal/draft"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewNotifier returns the notifier used by every handler, with the texts of
// the errors users run into most.
func NewNotifier() *notify.Notifier {
	return notify.New(
		// roster
		notify.Rule{Target: service.ErrAthleteNotFound, Kind: notify.KindNotFound, Title: "Athlete not found", Description: "No athlete uses this email. Ask them to sign up first."},
		notify.Rule{Target: service.ErrNotAthleteRole, Kind: notify.KindValidation, Title: "Invalid role", Description: "This user is not registered as an athlete."},
		notify.Rule{Target: service.ErrNotCoach, Kind: notify.KindPermissionDenied, Title: "Not authorized", Description: "Only coaches can add athletes."},
		notify.Rule{Target: service.ErrSelfLink, Kind: notify.KindValidation, Title: "Invalid athlete", Description: "You cannot add yourself as an athlete."},
		notify.Rule{Target: service.ErrAthleteAlreadyLinked, Kind: notify.KindConflict, Title: "Already linked", Description: "This athlete is already in your roster."},
		notify.Rule{Target: service.ErrAthleteNotLinked, Kind: notify.KindPermissionDenied, Title: "Athlete not linked", Description: "Add the athlete to your roster before assigning programs."},
		notify.Rule{Target: service.ErrConfirmationRequired, Kind: notify.KindValidation, Title: "Confirmation required", Description: "Repeat the request with confirm=true to delete."},

		// programs and sessions
		notify.Rule{Target: service.ErrProgramNotAssigned, Kind: notify.KindPermissionDenied, Title: "Not your program", Description: "This program is not assigned to you."},
		notify.Rule{Target: service.ErrSessionNotCompleted, Kind: notify.KindValidation, Title: "Session not completed", Description: "Mark the program complete before assessing it."},
		notify.Rule{Target: service.ErrLibraryExerciseRequired, Kind: notify.KindValidation, Title: "Invalid input", Description: "Pick an exercise from your library."},
		notify.Rule{Target: builder.ErrIndexOutOfRange, Kind: notify.KindValidation, Title: "Invalid move", Description: "The block position is out of range."},
		notify.Rule{Target: builder.ErrNothingToUndo, Kind: notify.KindValidation, Title: "Nothing to undo"},
		notify.Rule{Target: builder.ErrNothingToRedo, Kind: notify.KindValidation, Title: "Nothing to redo"},
		notify.Rule{Target: builder.ErrUnknownOp, Kind: notify.KindValidation, Title: "Invalid input", Description: "Unknown builder operation."},
		notify.Rule{Target: builder.ErrClosed, Kind: notify.KindConflict, Title: "Draft closed", Description: "This draft was already saved."},
		notify.Rule{Target: draft.ErrDraftNotFound, Kind: notify.KindNotFound, Title: "Draft expired", Description: "The draft was not found or has expired. Start a new one."},

		// auth, library and media
		notify.Rule{Target: service.ErrUserAlreadyExists, Kind: notify.KindConflict, Title: "Email taken", Description: "An account with this email already exists."},
		notify.Rule{Target: service.ErrExerciseNameTaken, Kind: notify.KindConflict, Title: "Name taken", Description: "An exercise with this name already exists in your library."},
		notify.Rule{Target: service.ErrUnsupportedMediaType, Kind: notify.KindValidation, Title: "Unsupported file", Description: "Only image and video files can be uploaded."},
		notify.Rule{Target: service.ErrUploadNotFound, Kind: notify.KindNotFound, Title: "Upload missing", Description: "The file was not found in storage. Upload it again."},
	)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string      `json:"error"`
	Kind        notify.Kind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// respondError logs the failure and answers with its notification.
func respondError(c *gin.Context, n *notify.Notifier, action string, err error) {
	n.NotifyError(c.Request.Context(), action, err)
	renderError(c, n, err)
}

// renderError answers with the notification of an error that was already
// logged.
func renderError(c *gin.Context, n *notify.Notifier, err error) {
	note := n.Notify(err)
	c.AbortWithStatusJSON(note.Status, ErrorResponse{
		Error:       errorMessage(note, err),
		Kind:        note.Kind,
		Title:       note.Title,
		Description: note.Description,
	})
}

// errorMessage hides the text of unclassified errors; it stays in the logs.
func errorMessage(note notify.Notification, err error) string {
	if note.Kind == notify.KindUnclassified {
		return note.Description
	}
	return err.Error()
}

var errInvalidID = errors.New("invalid id")

// objectIDParam parses a hex path parameter, aborting with 400 when invalid.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errInvalidID.Error()+": "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// confirmed reads the confirm query flag required by delete endpoints.
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}
