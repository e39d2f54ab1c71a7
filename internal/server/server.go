package server

import (
	"context"
	"net/http"
	"time"

	"pgms/internal/admin"
	"pgms/internal/auth"
	"pgms/internal/config"
	"pgms/internal/email"
	"pgms/internal/gateway"
	"pgms/internal/property"
	"pgms/internal/reports"
	"pgms/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

// Handlers are the HTTP surfaces mounted by NewRouter.
type Handlers struct {
	Admin        *admin.Handler
	Subscription *subscription.Handler
	Property     *property.Handler
	Reports      *reports.Handler
	TestEmail    gin.HandlerFunc
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, gw gateway.Gateway) *Server {
	subscriptionRepo := subscription.NewRepository(db)
	subscriptionService := subscription.NewService(subscriptionRepo, subscriptionRepo, subscriptionRepo, gw, emailService)
	propertyService := property.NewService(property.NewRepository(db))

	handlers := Handlers{
		Admin:        admin.NewHandler(admin.NewService(admin.NewRepository(db), subscriptionRepo, cfg.JWTSecret)),
		Subscription: subscription.NewHandler(subscriptionService),
		Property:     property.NewHandler(propertyService),
		Reports:      reports.NewHandler(reports.NewService(propertyService)),
		TestEmail:    TestEmail(emailService),
	}

	router := NewRouter(cfg, handlers, subscriptionService)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

// NewRouter mounts every route. Auth, profile and subscription routes stay
// reachable while the subscription gate is closed; property and report
// routes answer 402 until the admin has an active plan.
func NewRouter(cfg *config.Config, h Handlers, gate auth.StateLoader) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	apiRoutes := router.Group("/api")
	apiRoutes.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	public := apiRoutes.Group("/auth")
	{
		public.POST("/register", h.Admin.Register)
		public.POST("/login", h.Admin.Login)
		public.POST("/refresh", h.Admin.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := apiRoutes.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/profile", h.Admin.Profile)
		if h.TestEmail != nil {
			protected.GET("/test-email", h.TestEmail)
		}

		sub := protected.Group("/subscription")
		sub.GET("/plans", h.Subscription.ListPlans)
		sub.GET("/status", h.Subscription.Status)
		sub.POST("/confirm", h.Subscription.Confirm)
		sub.POST("/verify", h.Subscription.Verify)
		sub.GET("/orders", h.Subscription.Orders)
	}

	gated := apiRoutes.Group("/")
	gated.Use(authMiddleware, auth.RequireActiveSubscription(gate, nil))
	{
		gated.GET("/rooms", h.Property.ListRooms)
		gated.POST("/rooms", h.Property.CreateRoom)
		gated.GET("/rooms/:roomNumber", h.Property.GetRoom)
		gated.PUT("/rooms/:roomNumber", h.Property.UpdateRoom)

		gated.GET("/tenants", h.Property.ListTenants)
		gated.POST("/tenants", h.Property.CreateTenant)
		gated.GET("/tenants/:tenantID", h.Property.GetTenant)
		gated.PUT("/tenants/:tenantID", h.Property.UpdateTenant)

		gated.GET("/payments", h.Property.ListPayments)
		gated.POST("/payments", h.Property.RecordPayment)
		gated.GET("/payments/:paymentID", h.Property.GetPayment)
		gated.PUT("/payments/:paymentID", h.Property.ReplacePayment)

		rep := gated.Group("/reports")
		rep.GET("/dues", h.Reports.Dues)
		rep.GET("/dues.xlsx", h.Reports.DuesExport)
		rep.GET("/revenue", h.Reports.Revenue)
		rep.GET("/rooms/:roomNumber/revenue", h.Reports.RoomRevenue)
		rep.GET("/occupancy", h.Reports.Occupancy)
	}

	return router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
