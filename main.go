package main

import (
	"context"
	"os"
	"strings"
	"time"

	"portfolio/auth"
	"portfolio/config"
	"portfolio/db"
	"portfolio/handlers"
	"portfolio/logging"
	"portfolio/media"
	"portfolio/metrics"
	"portfolio/models"
	"portfolio/processing"
	"portfolio/storage"
	"portfolio/utils"
	"portfolio/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "portfolio"
	sessionExpirationTime = 7 * 86400 // 1 week
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db.Init(cfg.Database, cfg.Server.DebugMode)
	if err = models.Migrate(db.Instance); err != nil {
		logging.Error().Err(err).Msg("auto-migrate")
		os.Exit(1)
	}
	store := models.NewStore(db.Instance)
	if cfg.Admin.Email != "" {
		admin, created, err := store.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logging.Error().Err(err).Msg("admin bootstrap")
			os.Exit(1)
		}
		if created {
			logging.Info().Str("email", admin.Email).Msg("admin account created")
		}
	}

	fileStorage, err := storage.New(cfg.Storage)
	if err != nil {
		logging.Error().Err(err).Str("type", cfg.Storage.Type).Msg("storage")
		os.Exit(1)
	}
	converter, err := processing.NewConverter(cfg.Image)
	if err != nil {
		logging.Error().Err(err).Msg("image converter")
		os.Exit(1)
	}
	if cfg.Image.Format == config.ImageFormatWebP {
		processing.InitVips()
		defer processing.ShutdownVips()
	}
	mediaService := media.NewService(store, fileStorage, converter)
	metrics.StorageFreeBytes.Set(float64(fileStorage.GetFreeSpace()))

	if !cfg.Server.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger)
	_ = router.SetTrustedProxies([]string{})
	if cfg.Server.DebugMode {
		router.Use(utils.ErrorLogMiddleware)
	}
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware("/metrics"))
		router.GET("/metrics", metrics.Handler())
	}
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDHeader},
		MaxAge:        30 * 24 * time.Hour,
	}
	if containsWildcard(cfg.Server.CORSOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(cfg.Server.SessionSecret))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	mediaPrefix := "/" + strings.Trim(cfg.Upload.Directory, "/")
	if !cfg.Server.DebugMode {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{mediaPrefix + "/", "/metrics"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Admin area
	h := &handlers.Handlers{
		Store:  store,
		Media:  mediaService,
		Upload: cfg.Upload,
	}
	h.RegisterLogin(router)
	h.Register(&auth.Router{Base: router, Store: store})

	// Public pages
	site := &web.Site{
		Store:    store,
		Storage:  fileStorage,
		MediaDir: cfg.Upload.Directory,
	}
	site.Register(router)

	if cfg.Server.TLSDomains != "" {
		err = autotls.Run(router, strings.Split(cfg.Server.TLSDomains, ",")...)
	} else {
		logging.Info().Str("address", cfg.Server.BindAddress).Msg("server listening")
		err = router.Run(cfg.Server.BindAddress)
	}
	logging.Error().Err(err).Msg("server stopped")
}

func containsWildcard(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
