package main

import (
	"log"

	"academykit-backend/internal/config"
	"academykit-backend/internal/database"
	"academykit-backend/internal/handlers"
	"academykit-backend/internal/middleware"
	"academykit-backend/internal/models"
	"academykit-backend/internal/services"
	"academykit-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           AcademyKit API
// @version         1.0
// @description     Learning management backend: courses, question sets, exam attempts and certificates
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	courseService := services.NewCourseService(db)
	setService := services.NewQuestionSetService(db)
	scoringService := services.NewScoringService()
	examService := services.NewExamService(db, scoringService)
	aiService := services.NewAIGenerateService(cfg.AIAPIKey, cfg.AIAPIURL, cfg.AIModel)

	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService)
	groupHandler := handlers.NewGroupHandler(courseService)
	setHandler := handlers.NewQuestionSetHandler(setService)
	examHandler := handlers.NewExamHandler(examService, hub)
	aiHandler := handlers.NewAIGenerateHandler(courseService, setService, aiService)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/exams/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		courses := api.Group("/courses")
		courses.Use(middleware.JWTAuth(authService))
		{
			courses.GET("", courseHandler.ListCourses)
			courses.GET("/:ref", courseHandler.GetCourse)

			trainer := courses.Group("")
			trainer.Use(middleware.RequireRole(models.RoleTrainer))
			{
				trainer.POST("", courseHandler.CreateCourse)
				trainer.PUT("/:ref", courseHandler.UpdateCourse)
				trainer.DELETE("/:ref", courseHandler.DeleteCourse)
				trainer.POST("/:ref/tags", courseHandler.TagCourse)
				trainer.POST("/:ref/question-sets", setHandler.CreateQuestionSet)
				trainer.GET("/:ref/question-sets", setHandler.ListQuestionSets)
			}
		}

		groups := api.Group("/groups")
		groups.Use(middleware.JWTAuth(authService))
		{
			groups.GET("/:ref", groupHandler.GetGroup)
			groups.GET("/:ref/members", groupHandler.ListMembers)
			groups.POST("/:ref/join", groupHandler.JoinGroup)

			trainer := groups.Group("")
			trainer.Use(middleware.RequireRole(models.RoleTrainer))
			{
				trainer.POST("", groupHandler.CreateGroup)
				trainer.POST("/:ref/close", groupHandler.CloseGroup)
			}
		}

		sets := api.Group("/question-sets")
		sets.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleTrainer))
		{
			sets.GET("/:ref", setHandler.GetQuestionSet)
			sets.PUT("/:ref", setHandler.UpdateQuestionSet)
			sets.POST("/:ref/questions", setHandler.AddQuestion)
			sets.DELETE("/:ref/questions/:qid", setHandler.RemoveQuestion)
			sets.GET("/:ref/export", setHandler.ExportQuestionSet)
			sets.POST("/:ref/import", setHandler.ImportQuestionSet)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleTrainer))
		{
			questions.PUT("/:id", setHandler.UpdateQuestion)
		}

		pools := api.Group("/pools")
		pools.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleTrainer))
		{
			pools.GET("/ai-status", aiHandler.CheckAI)
			pools.POST("", courseHandler.CreatePool)
			pools.GET("/:id", courseHandler.GetPool)
			pools.POST("/:id/generate", aiHandler.Generate)
		}

		exams := api.Group("/exams")
		exams.Use(middleware.JWTAuth(authService))
		{
			exams.POST("/:id/start", examHandler.StartAttempt)
			exams.GET("/:id/results", examHandler.Results)
			exams.POST("/submissions/:id", examHandler.Submit)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
