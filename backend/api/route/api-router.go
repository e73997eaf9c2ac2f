package route

import (
	"artfolio/backend/api/handler"
	"artfolio/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	apiRouter.Use(middleware.Lang())
	apiRouter.Use(middleware.RequestLogger())
	{
		// Public routes (no authentication required)
		apiRouter.GET("/status", handler.GetStatus)
		apiRouter.GET("/notice", handler.GetNotice)

		// Authentication routes
		apiRouter.POST("/user/register", middleware.CriticalRateLimit(), handler.Register)
		apiRouter.POST("/user/login", middleware.CriticalRateLimit(), handler.Login)
		apiRouter.GET("/user/logout", handler.Logout)

		// Public gallery
		apiRouter.GET("/gallery", middleware.TryAuth(), handler.ListPublishedProjects)
		apiRouter.GET("/gallery/:id", middleware.TryAuth(), handler.GetPublishedProject)
		apiRouter.GET("/categories", handler.ListCategories)
		apiRouter.GET("/profile/:username", middleware.TryAuth(), handler.GetProfile)

		// User routes that require authentication
		userRoute := apiRouter.Group("/user")
		userRoute.Use(middleware.UserAuth())
		{
			userRoute.GET("/self", handler.GetSelf)
			userRoute.PUT("/self", handler.UpdateSelf)
			userRoute.GET("/token", middleware.CriticalRateLimit(), handler.GenerateAccessToken)
			userRoute.GET("/dashboard", handler.GetDashboard)
			userRoute.POST("/follow/:id", handler.ToggleFollow)
			userRoute.POST("/location", handler.ReportLocation)
		}

		// Project management (owner scope)
		projectRoute := apiRouter.Group("/projects")
		projectRoute.Use(middleware.UserAuth())
		{
			projectRoute.GET("/", handler.ListOwnProjects)
			projectRoute.POST("/", handler.CreateProject)
			projectRoute.GET("/:id", handler.GetProject)
			projectRoute.PUT("/:id", handler.UpdateProject)
			projectRoute.DELETE("/:id", handler.DeleteProject)
			projectRoute.POST("/:id/like", handler.ToggleLike)
			projectRoute.POST("/:id/images", handler.AddProjectImage)
			projectRoute.DELETE("/:id/images/:imageId", handler.DeleteProjectImage)
			projectRoute.POST("/:id/files", handler.AddProjectFile)
			projectRoute.DELETE("/:id/files/:fileId", handler.DeleteProjectFile)
			projectRoute.GET("/:id/files/:fileId/download", handler.DownloadProjectFile)
		}

		// Package mockups
		mockupRoute := apiRouter.Group("/mockups")
		mockupRoute.Use(middleware.UserAuth())
		{
			mockupRoute.GET("/", handler.ListMockups)
			mockupRoute.POST("/", handler.CreateMockup)
			mockupRoute.GET("/:id", handler.GetMockup)
			mockupRoute.PUT("/:id", handler.UpdateMockup)
			mockupRoute.DELETE("/:id", handler.DeleteMockup)
		}

		// Direct messages
		messageRoute := apiRouter.Group("/messages")
		messageRoute.Use(middleware.UserAuth())
		{
			messageRoute.GET("/:userId", handler.GetConversation)
			messageRoute.POST("/:userId", handler.SendMessage)
		}

		// Admin routes
		adminRoute := apiRouter.Group("/admin")
		adminRoute.Use(middleware.AdminAuth())
		{
			adminRoute.GET("/dashboard", handler.AdminDashboard)

			adminRoute.GET("/users", handler.AdminListUsers)
			adminRoute.POST("/users/:id/status", handler.AdminToggleUserStatus)
			adminRoute.POST("/users/status", handler.AdminBulkUserStatus)
			adminRoute.DELETE("/users/:id", handler.AdminDeleteUser)

			adminRoute.GET("/projects", handler.AdminListProjects)
			adminRoute.POST("/projects/publish", handler.AdminBulkPublish)
			adminRoute.POST("/projects/delete", handler.AdminBulkDeleteProjects)

			adminRoute.GET("/categories", handler.ListCategories)
			adminRoute.POST("/categories", handler.AdminCreateCategory)
			adminRoute.PUT("/categories/:id", handler.AdminUpdateCategory)
			adminRoute.DELETE("/categories/:id", handler.AdminDeleteCategory)

			adminRoute.GET("/storage", handler.AdminStorageOverview)
			adminRoute.POST("/storage/:id/quota", handler.AdminSetQuota)
			adminRoute.DELETE("/storage/:id/quota", handler.AdminResetQuota)
			adminRoute.POST("/storage/reset_all", handler.AdminResetAllQuotas)

			adminRoute.GET("/analytics", handler.AdminAnalytics)
			adminRoute.DELETE("/analytics/logs", handler.AdminPurgeLogs)
			adminRoute.GET("/locations", handler.AdminListLocations)
			adminRoute.DELETE("/locations", handler.AdminClearLocations)
		}

		// Option routes (Root admin only)
		optionRoute := apiRouter.Group("/option")
		optionRoute.Use(middleware.RootAuth())
		{
			optionRoute.GET("/", handler.GetOptions)
			optionRoute.PUT("/", handler.UpdateOption)
		}
	}
}
