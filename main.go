package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"collegerag/config"
	"collegerag/controller"
	"collegerag/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := services.InitPDFLicense(cfg.UnidocLicenseKey); err != nil {
		slog.Warn("UniPDF license not set, PDF uploads will fail", "error", err)
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
	}

	// Chroma client and collection bootstrap.
	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		slog.Error("failed to create chroma client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			slog.Warn("failed to close chroma client", "error", err)
		}
	}()

	collection, err := getOrCreateCollection(chromaClient, cfg.CollectionName)
	if err != nil {
		slog.Error("failed to get or create collection", "error", err)
		os.Exit(1)
	}
	store := services.NewChromaStore(collection)

	embedder := services.NewOllamaEmbedder(httpClient, cfg.OllamaBaseURL, cfg.EmbeddingModel)

	provider, err := buildProvider(cfg, httpClient)
	if err != nil {
		slog.Error("failed to initialize LLM provider", "error", err)
		os.Exit(1)
	}
	slog.Info("LLM provider initialized", "provider", provider.Name(), "model", provider.Model())

	documents, err := services.NewDocumentStore(cfg.DocumentsPath)
	if err != nil {
		slog.Error("failed to initialize document store", "error", err)
		os.Exit(1)
	}

	ragService := services.NewRAGService(store, embedder, provider,
		cfg.CollectionName, cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopKResults)
	authService := services.NewAuthService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	ragController := controller.NewRAGController(ragService, documents)
	authController := controller.NewAuthController(authService)

	// Background sync of the documents directory.
	indexCtx, cancelIndexing := context.WithCancel(context.Background())
	defer cancelIndexing()
	indexer := services.NewFileIndexingService(store, ragService)
	go indexer.ScanAndIndexDirectory(indexCtx, documents.Dir)
	if cfg.WatchDocuments {
		go indexer.WatchDirectory(indexCtx, documents.Dir)
	}

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", ragController.Health)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/health", ragController.Health)
		apiV1.GET("/stats", ragController.GetStats)
		apiV1.POST("/query", ragController.AskQuestion)
		apiV1.POST("/documents/upload", ragController.UploadDocument)
		apiV1.GET("/documents", ragController.ListDocuments)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/me", authController.AuthRequired(), authController.Me)
		}
	}

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		slog.Info("server running", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancelIndexing()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}

// buildProvider selects the answer generator from config.
func buildProvider(cfg *config.Config, httpClient *http.Client) (services.LLMProvider, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		return services.NewOpenRouterProvider(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.OpenRouterModel, cfg.Temperature), nil
	case config.ProviderGemini:
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		return services.NewGeminiProvider(client, cfg.GeminiModel, cfg.Temperature), nil
	default:
		return services.NewOllamaProvider(httpClient, cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Temperature), nil
	}
}

// getOrCreateCollection implements collection management using the v2 API.
func getOrCreateCollection(client chromago.Client, collectionName string) (chromago.Collection, error) {
	ctx := context.Background()

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "College technical documents"),
				chromago.NewStringAttribute("created_by", "rag_service"),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("chroma collection ready", "collection", collectionName)
	return collection, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
