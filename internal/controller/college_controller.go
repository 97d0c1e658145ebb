package controller

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// maxImportSize caps candidate CSV uploads at 5 MB.
const maxImportSize = 5 << 20

type CollegeController struct {
	CollegeService *service.CollegeService
}

func NewCollegeController(collegeService *service.CollegeService) *CollegeController {
	return &CollegeController{CollegeService: collegeService}
}

func (c *CollegeController) Create(ctx *gin.Context) {
	var input service.CollegeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	college, err := c.CollegeService.Create(&input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, college)
}

func (c *CollegeController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	colleges, total, err := c.CollegeService.List(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: colleges, Total: total, Page: page, Limit: limit})
}

func (c *CollegeController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	college, err := c.CollegeService.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, college)
}

func (c *CollegeController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var input service.CollegeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	college, err := c.CollegeService.Update(id, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, college)
}

func (c *CollegeController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CollegeService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

func (c *CollegeController) AddCandidate(ctx *gin.Context) {
	collegeID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var input service.CandidateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	candidate, err := c.CollegeService.AddCandidate(collegeID, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, candidate)
}

func (c *CollegeController) ListCandidates(ctx *gin.Context) {
	collegeID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	page, limit := pagination(ctx)
	candidates, total, err := c.CollegeService.ListCandidates(collegeID, page, limit, ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: candidates, Total: total, Page: page, Limit: limit})
}

func (c *CollegeController) DeleteCandidate(ctx *gin.Context) {
	collegeID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	candidateID, ok := uintParam(ctx, "candidateId")
	if !ok {
		return
	}

	if err := c.CollegeService.DeleteCandidate(collegeID, candidateID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// ImportCandidates ingests a CSV of candidates. Rows that fail
// validation are reported in the result, not fatal to the import.
func (c *CollegeController) ImportCandidates(ctx *gin.Context) {
	collegeID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "csv file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		util.BadRequest(ctx, "import exceeds the 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	report, err := c.CollegeService.ImportCandidates(collegeID, file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if len(report.Errors) > 0 {
		util.MultiStatus(ctx, report)
		return
	}
	util.Success(ctx, report)
}
