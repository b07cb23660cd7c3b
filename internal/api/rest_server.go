package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/logging"
	"github.com/annel0/voxel-content/internal/middleware"
	"github.com/annel0/voxel-content/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer отдаёт HTTP API реестра контента и мира
type RestServer struct {
	router   *gin.Engine
	registry *content.Registry
	world    *world.Map
	addr     string
	server   *http.Server
	logger   *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr     string               // адрес для запуска сервера
	Registry *content.Registry    // реестр; nil — глобальный
	World    *world.Map           // мир; nil — эндпоинты /api/world отвечают 503
	Metrics  *prometheus.Registry // HTTP-метрики и /metrics; nil — глобальный регистр
}

// GenericResponse — общий формат ответа
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.Registry == nil {
		config.Registry = content.Default()
	}
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if config.Metrics != nil {
		registerer, gatherer = config.Metrics, config.Metrics
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("content_api"))
	router.Use(middleware.NewRequestLogger().Handler())
	router.Use(middleware.NewPrometheusMiddleware("content_api", registerer).Handler())

	rs := &RestServer{
		router:   router,
		registry: config.Registry,
		world:    config.World,
		addr:     config.Addr,
		logger:   logging.GetComponentLogger("api"),
	}
	rs.setupRoutes(gatherer)
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes(gatherer prometheus.Gatherer) {
	rs.router.GET("/health", rs.handleHealth)
	rs.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := rs.router.Group("/api")
	{
		api.GET("/tags", rs.handleTags)
		api.GET("/tags/:tag", rs.handleTag)
		api.GET("/content", rs.handleContentList)
		api.GET("/content/:id", rs.handleContent)
		api.POST("/content/:id/:role/roundtrip", rs.handleRoundTrip)
	}

	w := api.Group("/world")
	w.Use(rs.requireWorld())
	{
		w.GET("/stats", rs.handleWorldStats)
		w.GET("/blocks/:x/:y/:z", rs.handleGetBlock)
		w.POST("/events", rs.handlePostEvent)
		w.POST("/step", rs.handleStep)
		w.POST("/save", rs.handleSave)
	}
}

// Handler возвращает http.Handler сервера (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler { return rs.router }

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Run запускает сервер и останавливает его при отмене ctx
func (rs *RestServer) Run(ctx context.Context) error {
	rs.server = &http.Server{
		Addr:              rs.addr,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rs.logger.Info("REST API запущен на %s", rs.addr)
		errCh <- rs.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		rs.logger.Info("REST API остановлен")
		return nil
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, GenericResponse{Success: false, Message: msg})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: data})
}
