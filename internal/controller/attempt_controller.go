package controller

import (
	"strconv"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// maxAnswerFileSize caps answer file uploads at 25 MB.
const maxAnswerFileSize = 25 << 20

// AttemptController serves the public candidate flow. No JWT here; the
// attempt id is the only credential a candidate holds.
type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Begin creates an attempt for a share link. Optional collegeId and
// candidateId query params carry the invitation linkage.
func (c *AttemptController) Begin(ctx *gin.Context) {
	token := ctx.Param("token")

	var collegeID, candidateID *uint
	if v, err := strconv.ParseUint(ctx.Query("collegeId"), 10, 64); err == nil {
		id := uint(v)
		collegeID = &id
	}
	if v, err := strconv.ParseUint(ctx.Query("candidateId"), 10, 64); err == nil {
		id := uint(v)
		candidateID = &id
	}

	view, err := c.AttemptService.Begin(ctx.Request.Context(), token, collegeID, candidateID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

func (c *AttemptController) Get(ctx *gin.Context) {
	view, err := c.AttemptService.Get(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type PasscodeRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

func (c *AttemptController) UnlockPasscode(ctx *gin.Context) {
	var req PasscodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.AttemptService.UnlockPasscode(ctx.Param("id"), req.Passcode)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type IdentityRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (c *AttemptController) UnlockIdentity(ctx *gin.Context) {
	var req IdentityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.AttemptService.UnlockIdentity(ctx.Param("id"), req.Name, req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

func (c *AttemptController) Start(ctx *gin.Context) {
	view, err := c.AttemptService.Start(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SaveAnswerRequest struct {
	Section  int    `json:"section" binding:"gte=0"`
	Question int    `json:"question" binding:"gte=0"`
	Value    string `json:"value"`
}

func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	var req SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AttemptService.SaveAnswer(ctx.Request.Context(), ctx.Param("id"), req.Section, req.Question, req.Value)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"saved": true})
}

// UploadAnswer streams a file answer for one question. Multipart form
// with a single "file" field; the question id comes from the path.
func (c *AttemptController) UploadAnswer(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxAnswerFileSize {
		util.BadRequest(ctx, "file exceeds the 25MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	state, err := c.AttemptService.UploadAnswerFile(
		ctx.Request.Context(),
		ctx.Param("id"),
		ctx.Param("questionId"),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

// UploadProgress reports the transfer state for one file question, for
// client polling.
func (c *AttemptController) UploadProgress(ctx *gin.Context) {
	state, err := c.AttemptService.UploadProgress(ctx.Request.Context(), ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

func (c *AttemptController) Submit(ctx *gin.Context) {
	submission, err := c.AttemptService.Submit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"submissionId": submission.ID,
		"submittedAt":  submission.SubmittedAt,
		"trigger":      submission.Trigger,
	})
}
