package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Compiti/config"
	"github.com/lshigami/Compiti/database"
	"github.com/lshigami/Compiti/internal/controller"
	authctrl "github.com/lshigami/Compiti/internal/controller/auth"
	studentctrl "github.com/lshigami/Compiti/internal/controller/student"
	teacherctrl "github.com/lshigami/Compiti/internal/controller/teacher"
	"github.com/lshigami/Compiti/internal/logger"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/lshigami/Compiti/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Compiti - Group Assignment API
// @version 1.0
// @description Classroom assignment tracking: teachers create open-ended questions for small student groups, students submit one collaborative answer, teachers grade and close.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewAssignmentRepository,
			repository.NewGroupMemberRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			service.NewUserService,
			service.NewEligibilityService,
			service.NewStatsService,
			service.NewAssignmentService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			controller.NewAssignmentController,
			teacherctrl.NewTeacherController,
			studentctrl.NewStudentController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedUsers),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Zerolog-backed request logging instead of Gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	authCtrl *authctrl.AuthController,
	assignmentCtrl *controller.AssignmentController,
	teacherCtrl *teacherctrl.TeacherController,
	studentCtrl *studentctrl.StudentController,
) {
	apiV1 := router.Group("/api/v1")

	// Sessions
	apiV1.POST("/sessions", authCtrl.Login)
	sessions := apiV1.Group("/sessions", controller.Authenticated(authSvc))
	{
		sessions.GET("/current", authCtrl.CurrentSession)
		sessions.DELETE("/current", authCtrl.Logout)
	}

	// Shared reads (both roles, per-operation ownership/membership checks)
	shared := apiV1.Group("", controller.Authenticated(authSvc))
	{
		shared.GET("/assignments", assignmentCtrl.ListAssignments)
		shared.GET("/assignments/:id", assignmentCtrl.GetAssignment)
	}

	// Teacher routes
	teacherGroup := apiV1.Group("", controller.Authenticated(authSvc), controller.RequireTeacher())
	{
		teacherGroup.POST("/assignments", teacherCtrl.CreateAssignment)
		teacherGroup.POST("/assignments/:id/group", teacherCtrl.AssignGroup)
		teacherGroup.PUT("/assignments/:id/evaluate", teacherCtrl.Evaluate)
		teacherGroup.GET("/teacher/class-status", teacherCtrl.ClassStatus)
		teacherGroup.POST("/students/eligible", teacherCtrl.EligibleStudents)
		teacherGroup.GET("/students", teacherCtrl.ListStudents)
	}

	// Student routes
	studentGroup := apiV1.Group("", controller.Authenticated(authSvc), controller.RequireStudent())
	{
		studentGroup.PUT("/assignments/:id/answer", studentCtrl.SubmitAnswer)
		studentGroup.GET("/student/average", studentCtrl.MyAverage)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Compiti API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Assignment{},
		&model.GroupMember{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedUsers provisions the demo accounts on an empty database. Users are
// otherwise read-only to this application.
func SeedUsers(userRepo repository.UserRepository) error {
	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name     string
		role     string
		password string
	}{
		{"Anna Verdi", model.RoleTeacher, "password"},
		{"Marco Bruno", model.RoleTeacher, "password"},
		{"Giulia Bianchi", model.RoleStudent, "password"},
		{"Luca Ferrari", model.RoleStudent, "password"},
		{"Mario Rossi", model.RoleStudent, "password"},
		{"Paola Russo", model.RoleStudent, "password"},
		{"Sara Conti", model.RoleStudent, "password"},
	}

	users := make([]model.User, 0, len(defaults))
	for _, d := range defaults {
		hash, err := service.HashPassword(d.password)
		if err != nil {
			return err
		}
		users = append(users, model.User{Name: d.name, Role: d.role, PasswordHash: hash})
	}

	if err := userRepo.CreateAll(users); err != nil {
		log.Error().Err(err).Msg("Failed to seed users")
		return err
	}
	log.Info().Int("count", len(users)).Msg("Seeded default users")
	return nil
}
