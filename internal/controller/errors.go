package controller

import (
	"errors"
	"net/http"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/flow"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognized is logged and returned as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrJobNotFound),
		errors.Is(err, util.ErrApplicantNotFound),
		errors.Is(err, util.ErrCollegeNotFound),
		errors.Is(err, util.ErrAssessmentNotFound),
		errors.Is(err, util.ErrAssessmentNotLive),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrCandidateNotFound),
		errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrAccountDisabled),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrAlreadySubmitted):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrUnsupportedFileType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptLocked),
		errors.Is(err, util.ErrAttemptNotStarted),
		errors.Is(err, util.ErrAttemptExpired),
		errors.Is(err, util.ErrUploadNotRetryable),
		errors.Is(err, util.ErrNotFileQuestion),
		errors.Is(err, flow.ErrWrongPasscode),
		errors.Is(err, flow.ErrIdentityMismatch),
		errors.Is(err, flow.ErrGateNotApplicable):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
