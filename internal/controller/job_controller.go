package controller

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	JobService *service.JobService
}

func NewJobController(jobService *service.JobService) *JobController {
	return &JobController{JobService: jobService}
}

func (c *JobController) Create(ctx *gin.Context) {
	var input service.JobInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	job, err := c.JobService.Create(&input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, job)
}

func (c *JobController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	jobs, total, err := c.JobService.List(page, limit, ctx.Query("status"), ctx.Query("search"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: jobs, Total: total, Page: page, Limit: limit})
}

// ListPublished is the public careers-page listing.
func (c *JobController) ListPublished(ctx *gin.Context) {
	jobs, err := c.JobService.ListPublished()
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, jobs)
}

func (c *JobController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	job, err := c.JobService.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

func (c *JobController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var input service.JobInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	job, err := c.JobService.Update(id, &input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

func (c *JobController) Publish(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	job, err := c.JobService.Publish(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

func (c *JobController) Close(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	job, err := c.JobService.Close(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

func (c *JobController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.JobService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
