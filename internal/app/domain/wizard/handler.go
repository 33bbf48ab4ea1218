package wizard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

// SessionView is the JSON shape of a wizard session.
type SessionView struct {
	ID           uuid.UUID         `json:"id"`
	Step         int               `json:"step"`
	StepID       string            `json:"stepId"`
	WizardData   models.WizardData `json:"wizardData"`
	Itinerary    *models.Itinerary `json:"itinerary"`
	IsGenerating bool              `json:"isGenerating"`
	Error        *string           `json:"error"`
}

func newSessionView(id uuid.UUID, s models.WizardState) SessionView {
	view := SessionView{
		ID:           id,
		Step:         s.Step,
		StepID:       StepID(s.Step),
		WizardData:   s.WizardData,
		Itinerary:    s.Itinerary,
		IsGenerating: s.IsGenerating,
		Error:        s.Error,
	}
	if view.Itinerary != nil {
		it := view.Itinerary.WithDefaults()
		view.Itinerary = &it
	}
	return view
}

type Handler struct {
	sessions *Sessions
	log      *zap.Logger
}

func NewHandler(sessions *Sessions, log *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		log:      log,
	}
}

// GetOptions handles GET /wizard/options.
func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, Options())
}

// CreateSession handles POST /wizard/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	id, m, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to create wizard session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create wizard session"})
		return
	}
	c.JSON(http.StatusCreated, newSessionView(id, m.State()))
}

// GetSession handles GET /wizard/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, m.State()))
}

// DeleteSession handles DELETE /wizard/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, id, models.WizardState{}, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateSession handles PATCH /wizard/sessions/:id.
func (h *Handler) UpdateSession(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	var patch models.WizardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wizard data"})
		return
	}
	state, err := m.Update(c.Request.Context(), patch)
	h.respond(c, id, state, err)
}

// Next handles POST /wizard/sessions/:id/next.
func (h *Handler) Next(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	state, err := m.Next(c.Request.Context())
	h.respond(c, id, state, err)
}

// GeneratesOnNext reports whether POST /next on the addressed session would
// start a generation. Unknown or malformed sessions report false and are
// rejected by the handler itself.
func (h *Handler) GeneratesOnNext(c *gin.Context) bool {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return false
	}
	m, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		return false
	}
	return m.State().Step >= StepCount-1
}

// Back handles POST /wizard/sessions/:id/back.
func (h *Handler) Back(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	state, err := m.Back(c.Request.Context())
	h.respond(c, id, state, err)
}

// GoTo handles POST /wizard/sessions/:id/goto/:step.
func (h *Handler) GoTo(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step"})
		return
	}
	state, err := m.GoTo(c.Request.Context(), step)
	h.respond(c, id, state, err)
}

// Reset handles POST /wizard/sessions/:id/reset.
func (h *Handler) Reset(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	state, err := m.Reset(c.Request.Context())
	h.respond(c, id, state, err)
}

// Generate handles POST /wizard/sessions/:id/generate.
func (h *Handler) Generate(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	state, err := m.Generate(c.Request.Context())
	h.respond(c, id, state, err)
}

// Toggle handles POST /wizard/sessions/:id/toggle/:set/:tag.
func (h *Handler) Toggle(c *gin.Context) {
	id, m, ok := h.machine(c)
	if !ok {
		return
	}
	var (
		state models.WizardState
		err   error
	)
	switch c.Param("set") {
	case "preferences":
		state, err = m.TogglePreference(c.Request.Context(), c.Param("tag"))
	case "places":
		state, err = m.TogglePlace(c.Request.Context(), c.Param("tag"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tag set, expected preferences or places"})
		return
	}
	h.respond(c, id, state, err)
}

func (h *Handler) machine(c *gin.Context) (uuid.UUID, *Machine, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, nil, false
	}
	m, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, id, models.WizardState{}, err)
		return uuid.Nil, nil, false
	}
	return id, m, true
}

func (h *Handler) respond(c *gin.Context, id uuid.UUID, state models.WizardState, err error) {
	if err != nil {
		h.respondError(c, id, state, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, state))
}

func (h *Handler) respondError(c *gin.Context, id uuid.UUID, state models.WizardState, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "wizard session not found"})
	case errors.Is(err, models.ErrMissingRequiredField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in destination and dates", "session": newSessionView(id, state)})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date", "session": newSessionView(id, state)})
	case errors.Is(err, models.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": newSessionView(id, state)})
	case state.Error != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": *state.Error, "session": newSessionView(id, state)})
	default:
		h.log.Error("Wizard session operation failed", zap.String("session_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wizard session operation failed"})
	}
}
