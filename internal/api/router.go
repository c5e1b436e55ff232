// Package api wires the HTTP handlers into a gin router.
package api

import (
	"net/http"

	"robo-advisor/internal/api/handlers"
	"robo-advisor/internal/api/middleware"
	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the router serves.
type Deps struct {
	Catalog     *catalog.Catalog
	Simulator   *backtest.Simulator
	Simulation  config.SimulationConfig
	Store       *handlers.ResultStore
	CORSOrigins []string
	Log         *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(d.Catalog, d.Log)
	portfolioHandler := handlers.NewPortfolioHandler(d.Catalog, d.Log)
	simulationHandler := handlers.NewSimulationHandler(d.Simulator, d.Catalog, d.Simulation, d.Store, d.Log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/questionnaire", profileHandler.GetQuestionnaire)
		api.POST("/profile", profileHandler.CreateProfile)

		api.GET("/portfolios", portfolioHandler.ListPortfolios)
		api.GET("/portfolios/:bucket", portfolioHandler.GetPortfolio)
		api.GET("/portfolios/:bucket/export", portfolioHandler.ExportPortfolio)

		api.GET("/etfs", portfolioHandler.ListETFs)
		api.GET("/etfs/:ticker", portfolioHandler.GetETF)

		api.POST("/simulations", simulationHandler.RunSimulation)
		api.POST("/simulations/compare", simulationHandler.CompareSimulations)
		api.GET("/simulations/:id/series", simulationHandler.GetSeries)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
