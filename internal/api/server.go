package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NewTime-Creator/radio-app/internal/api/handlers"
	"github.com/NewTime-Creator/radio-app/internal/api/middleware"
	"github.com/NewTime-Creator/radio-app/internal/broadcast"
	"github.com/NewTime-Creator/radio-app/internal/config"
	database "github.com/NewTime-Creator/radio-app/internal/db"
	"github.com/NewTime-Creator/radio-app/internal/models"
	"github.com/NewTime-Creator/radio-app/internal/storage"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
	engine  handlers.Engine
	hub     *broadcast.Hub
	router  *gin.Engine
}

func New(cfg *config.Config, db *database.Client, store *storage.Client, engine handlers.Engine, hub *broadcast.Hub) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:     cfg,
		db:      db,
		storage: store,
		engine:  engine,
		hub:     hub,
		router:  gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	state := handlers.NewStateHandler(s.engine, s.hub)
	songs := handlers.NewSongHandler(s.db.DB, s.engine)
	ads := handlers.NewAdHandler(s.db.DB, s.engine)
	schedule := handlers.NewScheduleHandler(s.db.DB, s.engine)
	upload := handlers.NewUploadHandler(s.db.DB, s.storage, s.engine, s.cfg)
	auth := handlers.NewAuthHandler(s.db.DB)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "radio-app"})
	})
	s.router.GET("/_metrics", gin.WrapH(promhttp.Handler()))

	// Listener websocket: state pushes out, admin commands in.
	s.router.GET("/ws", func(c *gin.Context) {
		s.hub.Handle(c.Writer, c.Request)
	})

	api := s.router.Group("/api")
	{
		api.POST("/auth/login", auth.Login)

		// Public read surface for the player UI
		api.GET("/radio/state", state.GetState)
		api.GET("/songs", songs.GetSongs)
		api.GET("/ads", ads.GetAds)
		api.GET("/ad-schedule", schedule.GetSchedule)

		admin := api.Group("/")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/auth/register", auth.Register)

			admin.POST("/skip", state.Skip)
			admin.POST("/play-ad/:id", ads.PlayAd)

			admin.POST("/songs", songs.CreateSong)
			admin.DELETE("/songs/:id", songs.DeleteSong)
			admin.POST("/ads", ads.CreateAd)
			admin.DELETE("/ads/:id", ads.DeleteAd)
			admin.POST("/ad-schedule", schedule.CreateSchedule)
			admin.DELETE("/ad-schedule/:id", schedule.DeleteSchedule)

			admin.POST("/upload/song", upload.UploadSong)
			admin.POST("/upload/ad", upload.UploadAd)
		}
	}

	// Serve local media when the local storage backend is active.
	if s.cfg.Storage.Provider == "local" {
		s.router.Static("/media", s.cfg.Storage.Local.Root)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
