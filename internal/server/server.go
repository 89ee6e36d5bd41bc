package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdash/internal/auth"
	"taskdash/internal/backend"
	"taskdash/internal/board"
	"taskdash/internal/config"
	"taskdash/internal/handler"
	"taskdash/internal/middleware"
	"taskdash/internal/model"
	"taskdash/internal/repository"
	"taskdash/internal/session"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Config   *config.Config
	Sessions *session.Manager
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Backend  *backend.Client
	Sessions *session.Manager
	Issuer   *auth.Issuer
	Logger   *slog.Logger
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(&model.Session{}); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate sessions: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to create backend client: %w", err)
	}

	sessions := session.NewManager(session.ManagerConfig{
		Repo:         repository.NewSessionRepository(db),
		Backend:      client,
		TTL:          cfg.JWTExpiry(),
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	restored, err := sessions.Hydrate(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to restore sessions: %v\n", err)
	} else {
		log.Printf("✅ Restored %d sessions\n", restored)
	}

	r := NewRouter(Deps{
		Backend:  client,
		Sessions: sessions,
		Issuer:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry()),
		Logger:   logger,
	})

	return &Server{
		Engine:   r,
		DB:       db,
		Config:   cfg,
		Sessions: sessions,
	}, nil
}

// NewRouter registers every route of the dashboard API.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(d.Sessions, d.Issuer)
	boardHandler := handler.NewBoardHandler(board.NewController(d.Backend, d.Logger))
	taskHandler := handler.NewTaskHandler(d.Backend)
	attachmentHandler := handler.NewAttachmentHandler(d.Backend)
	remarkHandler := handler.NewRemarkHandler(d.Backend)
	notificationHandler := handler.NewNotificationHandler(d.Backend)
	directoryHandler := handler.NewDirectoryHandler(d.Backend)
	userHandler := handler.NewUserHandler(d.Backend)

	// Public routes
	r.POST("/login", authHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(d.Issuer, d.Sessions))
	{
		// Session routes
		authorized.POST("/logout", authHandler.Logout)
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/me/role", authHandler.SwitchRole)

		// Board routes
		authorized.GET("/board", boardHandler.Get)
		authorized.POST("/board/refresh", boardHandler.Refresh)
		authorized.POST("/board/move", boardHandler.Move)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)

		// Attachment routes
		authorized.GET("/tasks/:id/attachments", attachmentHandler.List)
		authorized.POST("/tasks/:id/attachments", attachmentHandler.Upload)
		authorized.DELETE("/attachments/:id", attachmentHandler.Delete)

		// Remark routes
		authorized.GET("/tasks/:id/remarks", remarkHandler.List)
		authorized.POST("/tasks/:id/remarks", remarkHandler.Create)
		authorized.PUT("/tasks/:id/remarks/:remarkId", remarkHandler.Update)
		authorized.DELETE("/tasks/:id/remarks/:remarkId", remarkHandler.Delete)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.Feed)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.GET("/notices", notificationHandler.Notices)
		authorized.DELETE("/notices/:id", notificationHandler.DismissNotice)

		// Directory and reports
		employees := authorized.Group("/employees")
		employees.Use(middleware.RoleMiddleware(model.RoleAdmin, model.RoleManager))
		{
			employees.GET("", directoryHandler.Employees)
			employees.GET("/:id", directoryHandler.Employee)
			employees.POST("", directoryHandler.CreateEmployee)
			employees.PUT("/:id", directoryHandler.UpdateEmployee)
			employees.DELETE("/:id", directoryHandler.DeleteEmployee)
		}
		authorized.GET("/reports/tasks", directoryHandler.TaskReport)

		// User management
		users := authorized.Group("/users")
		users.Use(middleware.RoleMiddleware(model.RoleAdmin))
		{
			users.GET("", userHandler.List)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	// Stop pollers; sessions stay stored for the next start
	s.Sessions.Shutdown()

	log.Println("✅ Server exited properly")
}
