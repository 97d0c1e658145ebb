package app

import (
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/middleware"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/model"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	staff := router.Group("/api")
	staff.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStaffRoutes(staff, c)
		a.registerAdminRoutes(staff, c)
	}
}

// registerPublicRoutes wires everything candidates and visitors reach
// without credentials: the careers page, applications, and the whole
// assessment-taking flow.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/login", c.auth.Login)

		public.GET("/careers/jobs", c.job.ListPublished)
		public.GET("/careers/jobs/:id", c.job.Get)
		public.POST("/careers/jobs/:id/apply", c.applicant.Apply)

		// Candidate assessment flow, keyed by share token and then by
		// attempt id. No JWT; the attempt id is the credential.
		public.POST("/a/:token/attempts", c.attempt.Begin)

		attempts := public.Group("/attempts/:id")
		{
			attempts.GET("", c.attempt.Get)
			attempts.POST("/passcode", c.attempt.UnlockPasscode)
			attempts.POST("/identity", c.attempt.UnlockIdentity)
			attempts.POST("/start", c.attempt.Start)
			attempts.PUT("/answers", c.attempt.SaveAnswer)
			attempts.POST("/questions/:questionId/file", c.attempt.UploadAnswer)
			attempts.GET("/questions/:questionId/file", c.attempt.UploadProgress)
			attempts.POST("/submit", c.attempt.Submit)
		}
	}
}

// registerStaffRoutes covers recruiters and admins; viewers only get
// the read endpoints.
func (a *App) registerStaffRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)
	group.PUT("/me/password", c.auth.ChangePassword)

	read := group.Group("")
	read.Use(middleware.RoleMiddleware(model.Recruiter, model.Viewer))
	{
		read.GET("/jobs", c.job.List)
		read.GET("/jobs/:id", c.job.Get)
		read.GET("/applicants", c.applicant.List)
		read.GET("/applicants/:id", c.applicant.Get)
		read.GET("/colleges", c.college.List)
		read.GET("/colleges/:id", c.college.Get)
		read.GET("/colleges/:id/candidates", c.college.ListCandidates)
		read.GET("/assessments", c.assessment.List)
		read.GET("/assessments/:id", c.assessment.Get)
		read.GET("/submissions", c.assessment.ListSubmissions)
		read.GET("/submissions/:id", c.assessment.GetSubmission)
		read.GET("/exports/submissions", c.assessment.ExportSubmissions)
	}

	write := group.Group("")
	write.Use(middleware.RoleMiddleware(model.Recruiter))
	{
		write.POST("/jobs", c.job.Create)
		write.PUT("/jobs/:id", c.job.Update)
		write.POST("/jobs/:id/publish", c.job.Publish)
		write.POST("/jobs/:id/close", c.job.Close)
		write.DELETE("/jobs/:id", c.job.Delete)

		write.PUT("/applicants/:id/status", c.applicant.UpdateStatus)
		write.DELETE("/applicants/:id", c.applicant.Delete)

		write.POST("/colleges", c.college.Create)
		write.PUT("/colleges/:id", c.college.Update)
		write.DELETE("/colleges/:id", c.college.Delete)
		write.POST("/colleges/:id/candidates", c.college.AddCandidate)
		write.POST("/colleges/:id/candidates/import", c.college.ImportCandidates)
		write.DELETE("/colleges/:id/candidates/:candidateId", c.college.DeleteCandidate)

		write.POST("/assessments", c.assessment.Create)
		write.PUT("/assessments/:id", c.assessment.Update)
		write.POST("/assessments/:id/publish", c.assessment.Publish)
		write.POST("/assessments/:id/unpublish", c.assessment.Unpublish)
		write.DELETE("/assessments/:id", c.assessment.Delete)
		write.POST("/assessments/:id/invite/applicants", c.assessment.InviteApplicants)
		write.POST("/assessments/:id/invite/college", c.assessment.InviteCollegeCandidates)

		write.DELETE("/submissions/:id", c.assessment.DeleteSubmission)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.user.Create)
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id", c.user.Update)
		admin.DELETE("/users/:id", c.user.Delete)
		admin.POST("/users/:id/reset-password", c.user.ResetPassword)
	}
}
