package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/controllers"
	"github.com/evrim/opphub/internal/app/models"
	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	opportunityController *controllers.OpportunityController,
	preferenceController *controllers.PreferenceController,
	schoolController *controllers.SchoolController,
	userController *controllers.UserController,
	newsController *controllers.NewsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Health check (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewMessageResponse("ok"))
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Opportunity routes. Listing and detail are open to every
		// authenticated viewer; the service narrows what each role sees.
		opportunities := authenticated.Group("/opportunities")
		opportunities.Use(authMiddleware.RequireCapability(models.CapViewOpportunities))
		{
			opportunities.GET("", opportunityController.ListOpportunities)
			opportunities.GET("/:id", opportunityController.GetOpportunity)

			// Registration. Any viewer may claim a visible space.
			opportunities.POST("/:id/interest", opportunityController.RegisterInterest)
			opportunities.DELETE("/:id/interest", opportunityController.UnregisterInterest)

			// Creation and mutation. The service applies the ownership and
			// school rules on top of the capability gate.
			opportunitiesCreate := opportunities.Group("")
			opportunitiesCreate.Use(authMiddleware.RequireCapability(models.CapCreateOpportunities))
			{
				opportunitiesCreate.POST("", opportunityController.CreateOpportunity)
				opportunitiesCreate.PUT("/:id", opportunityController.UpdateOpportunity)
				opportunitiesCreate.DELETE("/:id", opportunityController.DeleteOpportunity)
			}

			// Attendee listing for teachers and above.
			opportunitiesAttendees := opportunities.Group("")
			opportunitiesAttendees.Use(authMiddleware.RequireCapability(models.CapViewAttendees))
			{
				opportunitiesAttendees.GET("/:id/attendees", opportunityController.ListAttendees)
			}

			// Document attachments.
			opportunitiesDocuments := opportunities.Group("")
			opportunitiesDocuments.Use(authMiddleware.RequireCapability(models.CapUploadDocuments))
			{
				opportunitiesDocuments.POST("/:id/documents", opportunityController.UploadDocument)
				opportunitiesDocuments.DELETE("/:id/documents/:fileId", opportunityController.DeleteDocument)
			}
		}

		// Preference routes. Students manage their own filters.
		preferences := authenticated.Group("/preferences")
		preferences.Use(authMiddleware.RequireCapability(models.CapManagePreferences))
		{
			preferences.GET("", preferenceController.GetPreferences)
			preferences.PUT("", preferenceController.UpsertPreferences)
		}

		// School routes. Reads are open to authenticated users; writes need
		// the management capability.
		schools := authenticated.Group("/schools")
		{
			schools.GET("", schoolController.ListSchools)
			schools.GET("/:id", schoolController.GetSchool)

			schoolsManage := schools.Group("")
			schoolsManage.Use(authMiddleware.RequireCapability(models.CapManageSchools))
			{
				schoolsManage.POST("", schoolController.CreateSchool)
				schoolsManage.PUT("/:id", schoolController.UpdateSchool)
				schoolsManage.DELETE("/:id", schoolController.DeleteSchool)
			}
		}

		// User administration.
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RequireCapability(models.CapManageUsers))
		{
			users.GET("", userController.ListUsers)
			users.GET("/:id", userController.GetUser)
			users.POST("", userController.CreateUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}

		// News board. Reads are open; writes need the news capability,
		// enforced in the service so the school scoping sits next to it.
		news := authenticated.Group("/news")
		{
			news.GET("", newsController.ListNews)
			news.POST("", newsController.CreateNews)
			news.DELETE("/:id", newsController.DeleteNews)
		}
	}
}
