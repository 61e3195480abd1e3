package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"brewgraph/internal/beer"
	"brewgraph/internal/catalog"
	"brewgraph/internal/graph"
	"brewgraph/pkg/config"
	apperrors "brewgraph/pkg/errors"
	"brewgraph/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV"), "server"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity",
			zap.Error(apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)))
	}

	repo := graph.NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure graph schema", zap.Error(err))
	}

	catalogStore, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer catalogStore.Close()

	svc := beer.NewService(repo)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Search the beer catalog
		api.GET("/beers/search", func(c *gin.Context) {
			results, err := catalogStore.Search(c.Query("q"), cfg.SearchLimit)
			if err != nil {
				log.Error("Catalog search failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"beers": results})
		})

		// Record a rating
		api.POST("/ratings", func(c *gin.Context) {
			var req struct {
				UserID     int64  `json:"user_id" binding:"required"`
				Username   string `json:"username"`
				FirstName  string `json:"first_name"`
				LastName   string `json:"last_name"`
				TargetID   string `json:"target_id" binding:"required"`
				TargetType string `json:"target_type" binding:"required,oneof=beer brewery style"`
				Rank       int    `json:"rank" binding:"required,min=1,max=5"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			profile := graph.User{
				ID:        req.UserID,
				Username:  req.Username,
				FirstName: req.FirstName,
				LastName:  req.LastName,
			}
			err := svc.RecordRating(c.Request.Context(), profile, req.TargetID, beer.TargetType(req.TargetType), req.Rank, time.Now())
			if err != nil {
				respondError(c, log, err, "record rating")
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
		})

		// Get a user's rating of a beer
		api.GET("/users/:id/ratings/:beerId", func(c *gin.Context) {
			userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed user id"})
				return
			}

			liked, err := svc.GetRating(c.Request.Context(), userID, c.Param("beerId"))
			if err != nil {
				respondError(c, log, err, "get rating")
				return
			}
			if liked == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "no rating"})
				return
			}
			c.JSON(http.StatusOK, liked)
		})

		// Recommendations for a user; an empty list is a valid answer
		api.GET("/users/:id/recommendations", func(c *gin.Context) {
			userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed user id"})
				return
			}

			suggestions, err := svc.Recommend(c.Request.Context(), userID)
			if err != nil {
				respondError(c, log, err, "recommend")
				return
			}
			c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
		})

		// Toplists
		api.GET("/top/:entity", func(c *gin.Context) {
			scope := graph.ScopeGlobal
			var userID int64
			if raw := c.Query("user_id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "malformed user id"})
					return
				}
				scope = graph.ScopeUser
				userID = id
			}

			var (
				entities []graph.TopEntity
				err      error
			)
			switch c.Param("entity") {
			case "breweries":
				entities, err = svc.ListTopBreweries(c.Request.Context(), scope, userID)
			case "styles":
				entities, err = svc.ListTopStyles(c.Request.Context(), scope, userID)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "entity must be breweries or styles"})
				return
			}
			if err != nil {
				respondError(c, log, err, "toplist")
				return
			}
			c.JSON(http.StatusOK, gin.H{"entities": entities})
		})

		// Comments (about a beer, or a reply to another comment)
		api.POST("/comments", func(c *gin.Context) {
			var req struct {
				UserID          int64  `json:"user_id" binding:"required"`
				Username        string `json:"username"`
				BeerID          string `json:"beer_id"`
				ParentCommentID string `json:"parent_comment_id"`
				Text            string `json:"text" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if (req.BeerID == "") == (req.ParentCommentID == "") {
				c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of beer_id or parent_comment_id is required"})
				return
			}

			profile := graph.User{ID: req.UserID, Username: req.Username}
			var (
				commentID string
				err       error
			)
			if req.BeerID != "" {
				commentID, err = svc.CommentOnBeer(c.Request.Context(), profile, req.BeerID, "", req.Text, time.Now())
			} else {
				commentID, err = svc.ReplyToComment(c.Request.Context(), profile, req.ParentCommentID, "", req.Text, time.Now())
			}
			if err != nil {
				respondError(c, log, err, "record comment")
				return
			}
			c.JSON(http.StatusCreated, gin.H{"comment_id": commentID})
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// respondError maps core failures to HTTP statuses: missing entities are 404,
// contract violations are 400, everything else is a 500.
func respondError(c *gin.Context, log *zap.Logger, err error, operation string) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
