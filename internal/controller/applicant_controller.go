package controller

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// maxResumeSize caps resume uploads at 10 MB.
const maxResumeSize = 10 << 20

type ApplicantController struct {
	ApplicantService *service.ApplicantService
}

func NewApplicantController(applicantService *service.ApplicantService) *ApplicantController {
	return &ApplicantController{ApplicantService: applicantService}
}

// Apply is the public application endpoint behind the careers page.
// Multipart form: name, email, phone and an optional resume file.
func (c *ApplicantController) Apply(ctx *gin.Context) {
	jobID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	input := &service.ApplyInput{
		JobID: jobID,
		Name:  ctx.PostForm("name"),
		Email: ctx.PostForm("email"),
		Phone: ctx.PostForm("phone"),
	}
	if input.Name == "" || input.Email == "" {
		util.BadRequest(ctx, "name and email are required")
		return
	}

	var applicant *model.Applicant
	fileHeader, err := ctx.FormFile("resume")
	if err == nil {
		if fileHeader.Size > maxResumeSize {
			util.BadRequest(ctx, "resume exceeds the 10MB limit")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer file.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		applicant, err = c.ApplicantService.Apply(ctx.Request.Context(), input, file, fileHeader.Filename, fileHeader.Size, contentType)
		if err != nil {
			respondError(ctx, err)
			return
		}
	} else {
		applicant, err = c.ApplicantService.Apply(ctx.Request.Context(), input, nil, "", 0, "")
		if err != nil {
			respondError(ctx, err)
			return
		}
	}

	util.Created(ctx, applicant)
}

func (c *ApplicantController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	jobID := util.MustParseUint(ctx.Query("jobId"))

	applicants, total, err := c.ApplicantService.List(page, limit, jobID, ctx.Query("status"), ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: applicants, Total: total, Page: page, Limit: limit})
}

func (c *ApplicantController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	applicant, err := c.ApplicantService.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, applicant)
}

type UpdateStatusRequest struct {
	Status model.ApplicantStatus `json:"status" binding:"required,oneof=applied shortlisted rejected assessment_invited"`
	Notify bool                  `json:"notify"`
}

func (c *ApplicantController) UpdateStatus(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	applicant, err := c.ApplicantService.UpdateStatus(id, req.Status, req.Notify)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, applicant)
}

func (c *ApplicantController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ApplicantService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
