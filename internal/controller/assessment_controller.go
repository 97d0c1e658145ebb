package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
	InvitationService *service.InvitationService
}

func NewAssessmentController(assessmentService *service.AssessmentService, invitationService *service.InvitationService) *AssessmentController {
	return &AssessmentController{
		AssessmentService: assessmentService,
		InvitationService: invitationService,
	}
}

func (c *AssessmentController) Create(ctx *gin.Context) {
	var input service.AssessmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assessment, err := c.AssessmentService.Create(&input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, assessment)
}

func (c *AssessmentController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	assessments, total, err := c.AssessmentService.List(page, limit, ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	assessment, err := c.AssessmentService.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"assessment": assessment,
		"shareUrl":   c.AssessmentService.ShareURL(assessment),
	})
}

func (c *AssessmentController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var input service.AssessmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assessment, err := c.AssessmentService.Update(id, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, assessment)
}

func (c *AssessmentController) Publish(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	assessment, err := c.AssessmentService.Publish(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"assessment": assessment,
		"shareUrl":   c.AssessmentService.ShareURL(assessment),
	})
}

func (c *AssessmentController) Unpublish(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	assessment, err := c.AssessmentService.Unpublish(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, assessment)
}

func (c *AssessmentController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.AssessmentService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

func (c *AssessmentController) ListSubmissions(ctx *gin.Context) {
	page, limit := pagination(ctx)
	assessmentID := util.MustParseUint(ctx.Query("assessmentId"))

	submissions, total, err := c.AssessmentService.ListSubmissions(page, limit, assessmentID, ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

func (c *AssessmentController) GetSubmission(ctx *gin.Context) {
	submission, err := c.AssessmentService.GetSubmission(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

func (c *AssessmentController) DeleteSubmission(ctx *gin.Context) {
	if err := c.AssessmentService.DeleteSubmission(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// ExportSubmissions streams an xlsx workbook of submissions, scoped to
// one assessment when assessmentId is given.
func (c *AssessmentController) ExportSubmissions(ctx *gin.Context) {
	assessmentID := util.MustParseUint(ctx.Query("assessmentId"))

	buf, err := c.AssessmentService.ExportSubmissions(assessmentID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

type InviteApplicantsRequest struct {
	ApplicantIDs []uint `json:"applicantIds" binding:"required,min=1"`
}

// InviteApplicants mails the assessment link to a batch of applicants.
// Partial delivery failures come back as 207 with the failure list.
func (c *AssessmentController) InviteApplicants(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req InviteApplicantsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InvitationService.InviteApplicants(id, req.ApplicantIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if len(result.Failures) > 0 {
		util.MultiStatus(ctx, result)
		return
	}
	util.Success(ctx, result)
}

type InviteCollegeRequest struct {
	CollegeID    uint   `json:"collegeId" binding:"required"`
	CandidateIDs []uint `json:"candidateIds" binding:"required,min=1"`
}

// InviteCollegeCandidates mails personalized, identity-gated links to
// college candidates.
func (c *AssessmentController) InviteCollegeCandidates(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req InviteCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.InvitationService.InviteCollegeCandidates(id, req.CollegeID, req.CandidateIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if len(result.Failures) > 0 {
		util.MultiStatus(ctx, result)
		return
	}
	util.Success(ctx, result)
}
