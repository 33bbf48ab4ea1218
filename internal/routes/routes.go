package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/catalog"
	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/llmchat"
	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-ziptrip/internal/app/middleware"
	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/cache"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/config"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/llmgateway"
)

type AppHandlers struct {
	Itinerary *itinerary.Handler
	Chat      *llmchat.Handler
	Wizard    *wizard.Handler
	Catalog   *catalog.Handler

	// LLMLogger is drained on shutdown so queued interaction writes land.
	LLMLogger *llmchat.LLMLogger
}

// Dependencies are the process level resources handlers are built from.
// DBPool is nil when Postgres is not configured.
type Dependencies struct {
	Config      *config.Config
	LLM         llmgateway.Client
	DBPool      *pgxpool.Pool
	WizardStore wizard.Store
	Logger      *zap.Logger
}

// NewAppHandlers wires services and repositories into handlers.
func NewAppHandlers(deps Dependencies) *AppHandlers {
	log := deps.Logger
	cfg := deps.Config

	var interactions llmchat.InteractionRepository
	itineraryOpts := []itinerary.Option{
		itinerary.WithCache(cache.NewUnifiedCache[models.Itinerary](cfg.LLM.CacheTTL, cfg.LLM.CleanupInterval, "itineraries", log)),
		itinerary.WithStrictExtraction(cfg.LLM.StrictJSON),
	}
	if deps.DBPool != nil {
		interactions = llmchat.NewInteractionRepositoryImpl(deps.DBPool, log)
		itineraryOpts = append(itineraryOpts, itinerary.WithRepository(itinerary.NewRepositoryImpl(deps.DBPool, log)))
	}

	llmLogger := llmchat.NewLLMLogger(log, interactions, cfg.LLM.RedactPrompts)
	itineraryOpts = append(itineraryOpts, itinerary.WithInteractionLogger(llmLogger))

	itineraryService := itinerary.NewServiceImpl(deps.LLM, cfg.LLM.Model, log, itineraryOpts...)
	chatService := llmchat.NewServiceImpl(deps.LLM, cfg.LLM.Model, llmLogger, log)
	sessions := wizard.NewSessions(cfg.Wizard.Key, deps.WizardStore, itineraryService, log)

	return &AppHandlers{
		Itinerary: itinerary.NewHandler(itineraryService, log),
		Chat:      llmchat.NewHandler(chatService, log),
		Wizard:    wizard.NewHandler(sessions, log),
		Catalog:   catalog.NewHandler(catalog.NewStaticService(), log),
		LLMLogger: llmLogger,
	}
}

// Setup registers every route. chatGuards run in front of every model
// backed endpoint, including a wizard step advance that triggers generation.
func Setup(r *gin.Engine, h *AppHandlers, chatGuards ...gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	llm := r.Group("/", chatGuards...)
	{
		llm.POST("/generate-itinerary", h.Itinerary.GenerateItinerary)
		llm.POST("/chat-assistant", h.Chat.ChatAssistant)
	}

	itineraries := r.Group("/itineraries")
	{
		itineraries.GET("", h.Itinerary.ListItineraries)
		itineraries.GET("/:id", h.Itinerary.GetItinerary)
	}

	wiz := r.Group("/wizard")
	{
		wiz.GET("/options", h.Wizard.GetOptions)
		wiz.POST("/sessions", h.Wizard.CreateSession)

		session := wiz.Group("/sessions/:id")
		session.GET("", h.Wizard.GetSession)
		session.PATCH("", h.Wizard.UpdateSession)
		session.DELETE("", h.Wizard.DeleteSession)
		session.POST("/next", guardWhen(h.Wizard.GeneratesOnNext, chatGuards...), h.Wizard.Next)
		session.POST("/back", h.Wizard.Back)
		session.POST("/goto/:step", h.Wizard.GoTo)
		session.POST("/reset", h.Wizard.Reset)
		session.POST("/toggle/:set/:tag", h.Wizard.Toggle)
		session.POST("/generate", guardWhen(always, chatGuards...), h.Wizard.Generate)
	}

	r.GET("/flights", h.Catalog.ListFlights)
	r.GET("/hotels", h.Catalog.ListHotels)
}

func always(*gin.Context) bool { return true }

// guardWhen runs guards inline when cond holds. The guards must not call
// c.Next themselves.
func guardWhen(cond func(*gin.Context) bool, guards ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cond(c) {
			return
		}
		for _, guard := range guards {
			guard(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

// ChatGuards builds the auth and rate limit chain for model backed routes.
func ChatGuards(cfg config.AuthConfig, limiter *middleware.RateLimiter, log *zap.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(middleware.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Optional:  cfg.Optional,
			Logger:    log,
		}),
		limiter.Middleware(),
	}
}
