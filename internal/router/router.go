package router

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Roshan1923/BillBrain/internal/config"
	"github.com/Roshan1923/BillBrain/internal/extauth"
	"github.com/Roshan1923/BillBrain/internal/handler"
	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/ocr"
	"github.com/Roshan1923/BillBrain/internal/report"
	"github.com/Roshan1923/BillBrain/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires every component to the
// shared storage handle.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()

	logger := newLogger(cfg.Log.Level)
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	sessions := session.New(db, cfg.Session.TTLDays)
	engine := report.NewEngine(db)
	resolver := report.NewResolver(db)
	assembler := report.NewAssembler(engine, resolver, cfg.App.ExportLimit)

	var exchanger extauth.Exchanger
	if c := extauth.NewClient(cfg.ExtAuth); c != nil {
		exchanger = c
	}
	var extractor ocr.Extractor
	if c := ocr.NewClient(cfg.OCR); c != nil {
		extractor = c
	}

	api := r.Group("/api")

	// auth endpoints; logout stays outside the guard so it always succeeds
	authHandler := handler.NewAuthHandler(db, sessions, exchanger, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/google-session", authHandler.GoogleSession)
	api.POST("/auth/logout", authHandler.Logout)

	// everything else requires a valid session
	protected := api.Group("")
	protected.Use(middleware.Auth(sessions, db))

	protected.GET("/auth/me", handler.GetMe)
	protected.PUT("/settings", handler.UpdateSettings(db))

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	receiptHandler := handler.NewReceiptHandler(db, engine, cfg.App.PageSize)
	protected.GET("/receipts", receiptHandler.List)
	protected.POST("/receipts", receiptHandler.Create)
	protected.GET("/receipts/:id", receiptHandler.Get)
	protected.PUT("/receipts/:id", receiptHandler.Update)
	protected.DELETE("/receipts/:id", receiptHandler.Delete)

	ocrHandler := handler.NewOCRHandler(extractor)
	protected.POST("/ocr/scan", ocrHandler.Scan)

	dashboardHandler := handler.NewDashboardHandler(assembler)
	protected.GET("/dashboard/summary", dashboardHandler.Summary)

	reportHandler := handler.NewReportHandler(assembler)
	protected.GET("/reports/tax-summary", reportHandler.TaxSummary)
	protected.GET("/reports/export-csv", reportHandler.ExportCSV)
	protected.GET("/reports/export-xlsx", reportHandler.ExportXLSX)

	return r
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
