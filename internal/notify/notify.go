// Package notify turns errors into user-facing notifications. Every failed
// write is logged here and answered with a title and description picked from
// the error's identity, its backend code, or its message.
package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind is the class of a failure.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindPermissionDenied Kind = "permission_denied"
	KindValidation       Kind = "validation"
	KindUnclassified     Kind = "unclassified"
)

// Status maps the kind to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Notification is what the user sees after a failed action.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      int    `json:"-"`
}

// Rule gives a specific error its own notification text. Kind may be left
// empty to fall back to Classify.
type Rule struct {
	Target      error
	Kind        Kind
	Title       string
	Description string
}

const unauthorizedCode = 13

// Classify inspects err by identity, then by backend code, then by message.
func Classify(err error) Kind {
	if err == nil {
		return KindUnclassified
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return KindNotFound
	case errors.Is(err, repository.ErrConflict):
		return KindConflict
	case errors.Is(err, repository.ErrPermissionDenied):
		return KindPermissionDenied
	case domain.IsValidationError(err):
		return KindValidation
	case mongo.IsDuplicateKeyError(err):
		return KindConflict
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(unauthorizedCode) {
		return KindPermissionDenied
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return KindNotFound
	case strings.Contains(msg, "already exists"), strings.Contains(msg, "duplicate"):
		return KindConflict
	case strings.Contains(msg, "permission"), strings.Contains(msg, "not authorized"):
		return KindPermissionDenied
	}
	return KindUnclassified
}

var defaults = map[Kind]Notification{
	KindNotFound:         {Title: "Not found", Description: "The requested data could not be found."},
	KindConflict:         {Title: "Conflict", Description: "This data already exists."},
	KindPermissionDenied: {Title: "Access denied", Description: "You do not have the required permissions."},
	KindValidation:       {Title: "Invalid input"},
	KindUnclassified:     {Title: "Error", Description: "An unexpected error occurred. Please try again later."},
}

// Notifier builds notifications and logs the failures behind them.
type Notifier struct {
	rules []Rule
}

func New(rules ...Rule) *Notifier {
	return &Notifier{rules: rules}
}

// Notify returns the notification for err. The first matching rule wins.
// Validation errors carry their own message as description.
func (n *Notifier) Notify(err error) Notification {
	for _, r := range n.rules {
		if r.Target != nil && errors.Is(err, r.Target) {
			kind := r.Kind
			if kind == "" {
				kind = Classify(err)
			}
			return Notification{Kind: kind, Title: r.Title, Description: r.Description, Status: kind.Status()}
		}
	}

	kind := Classify(err)
	out := defaults[kind]
	out.Kind = kind
	out.Status = kind.Status()
	if kind == KindValidation {
		out.Description = err.Error()
	}
	return out
}

// NotifyError logs a failed action. Unclassified failures are logged as
// errors, the rest as warnings.
func (n *Notifier) NotifyError(ctx context.Context, action string, err error) {
	note := n.Notify(err)
	entry := log.WithFields(log.Fields{
		"action": action,
		"kind":   note.Kind,
	}).WithError(err)
	if id, ok := domain.IdentityFromContext(ctx); ok {
		entry = entry.WithField("user_id", id.UserID.Hex())
	}
	if note.Kind == KindUnclassified {
		entry.Error("action failed")
		return
	}
	entry.Warn("action failed")
}
