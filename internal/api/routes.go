package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth    service.AuthService
	Profile service.ProfileService
	Coach   service.CoachService
	Athlete service.AthleteService
	Program service.ProgramService
	Stats   service.StatsService
	Library service.LibraryService
	Media   service.MediaService
}

// NewRouter builds the gin engine with recovery, request logging and
// metrics, and registers every route.
func NewRouter(svc Services, notifier *notify.Notifier, buckets domain.ScaleBuckets, m *metrics.Manager, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(PanicRecovery(), RequestLogger(), RequestMetrics(m))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	SetupRoutes(router, svc, notifier, buckets)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services, notifier *notify.Notifier, buckets domain.ScaleBuckets) {
	authHandler := NewAuthHandler(svc.Auth, svc.Profile, notifier)
	coachHandler := NewCoachHandler(svc.Coach, svc.Stats, notifier)
	draftHandler := NewDraftHandler(svc.Program, notifier)
	libraryHandler := NewLibraryHandler(svc.Library, notifier)
	mediaHandler := NewMediaHandler(svc.Media, notifier)
	athleteHandler := NewAthleteHandler(svc.Athlete, svc.Stats, buckets, notifier)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateProfile)
		protected.PUT("/me/theme", authHandler.UpdateTheme)

		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.GET("/athletes", coachHandler.ListAthletes)
			coachGroup.POST("/athletes", coachHandler.LinkAthlete)
			// DELETE requires ?confirm=true
			coachGroup.DELETE("/athletes/:id", coachHandler.UnlinkAthlete)

			coachGroup.GET("/programs", coachHandler.ListPrograms)
			coachGroup.GET("/programs/:id", coachHandler.GetProgram)
			coachGroup.DELETE("/programs/:id", coachHandler.DeleteProgram)

			coachGroup.POST("/drafts", draftHandler.StartDraft)
			coachGroup.GET("/drafts/:id", draftHandler.GetDraft)
			coachGroup.POST("/drafts/:id/ops", draftHandler.ApplyOp)
			coachGroup.POST("/drafts/:id/save", draftHandler.SaveDraft)
			coachGroup.DELETE("/drafts/:id", draftHandler.DiscardDraft)

			coachGroup.GET("/dashboard", coachHandler.Dashboard)

			coachGroup.GET("/library", libraryHandler.ListExercises)
			coachGroup.POST("/library", libraryHandler.CreateExercise)
			coachGroup.GET("/library/:id", libraryHandler.GetExercise)
			coachGroup.PUT("/library/:id", libraryHandler.UpdateExercise)
			coachGroup.DELETE("/library/:id", libraryHandler.DeleteExercise)

			coachGroup.GET("/media", mediaHandler.ListMedia)
			coachGroup.POST("/media/upload-url", mediaHandler.RequestUploadURL)
			coachGroup.POST("/media/confirm", mediaHandler.ConfirmUpload)
			coachGroup.GET("/media/:id/url", mediaHandler.GetDownloadURL)
		}

		athleteGroup := protected.Group("/athlete")
		athleteGroup.Use(RoleMiddleware(domain.RoleAthlete))
		{
			athleteGroup.GET("/programs", athleteHandler.ListMyPrograms)
			athleteGroup.POST("/programs/:id/complete", athleteHandler.MarkComplete)
			athleteGroup.GET("/sessions", athleteHandler.ListCompletedSessions)
			athleteGroup.GET("/assessments", athleteHandler.ListAssessments)
			athleteGroup.POST("/assessments", athleteHandler.SubmitAssessment)
			athleteGroup.GET("/dashboard", athleteHandler.Dashboard)
		}
	}
}
