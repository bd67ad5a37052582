package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/agentdeck/agentdeck/internal/agents"
	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/internal/store"
	"github.com/agentdeck/agentdeck/pkg/logger"
	"github.com/agentdeck/agentdeck/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PDFStore uploads a content's PDF and returns the URL clients download it from.
type PDFStore interface {
	UploadPDF(ctx context.Context, agentID, contentID string, r io.Reader, size int64) (string, error)
}

// AgentHandler serves the agent and content API for the authenticated owner.
type AgentHandler struct {
	agents   *agents.Repository
	contents *contents.Repository
	pdfs     PDFStore
	log      zerolog.Logger
}

// NewAgentHandler wires the repositories. pdfs may be nil when object storage
// is not configured; uploads then answer 503.
func NewAgentHandler(a *agents.Repository, c *contents.Repository, pdfs PDFStore) *AgentHandler {
	return &AgentHandler{agents: a, contents: c, pdfs: pdfs, log: logger.With("api")}
}

// Register mounts the routes on an authenticated group.
func (h *AgentHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/agents", h.ListAgents)
	rg.POST("/agents", h.CreateAgent)
	rg.GET("/agents/:id", h.GetAgent)
	rg.PUT("/agents/:id", h.UpdateAgent)
	rg.DELETE("/agents/:id", h.DeleteAgent)

	rg.GET("/agents/:id/contents", h.ListContents)
	rg.POST("/agents/:id/contents", h.CreateContent)
	rg.GET("/contents/:id", h.GetContent)
	rg.PUT("/contents/:id", h.UpdateContent)
	rg.DELETE("/contents/:id", h.DeleteContent)
	rg.POST("/contents/:id/pdf", h.UploadPDF)

	rg.GET("/codes/:code", h.LookupCode)
}

type agentRequest struct {
	AgentName string `json:"agentName"`
	Prompt    string `json:"prompt"`
}

func (r *agentRequest) validate() error {
	r.AgentName = strings.TrimSpace(r.AgentName)
	if r.AgentName == "" {
		return errors.New("agentName is required")
	}
	return nil
}

// ListAgents returns the caller's agents.
func (h *AgentHandler) ListAgents(c *gin.Context) {
	list, err := h.agents.ListByOwner(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateAgent accepts { agentName, prompt } and returns { id }.
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.agents.Create(c.Request.Context(), middleware.OwnerID(c), req.AgentName, req.Prompt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	a, ok := h.ownedAgent(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

// UpdateAgent replaces name and prompt; owner and creation time are kept.
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, ok := h.ownedAgent(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.agents.Update(c.Request.Context(), a.ID, req.AgentName, req.Prompt); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": a.ID})
}

// DeleteAgent removes the agent and all of its content. When some content
// cannot be deleted the agent is kept and the response reports the progress.
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	a, ok := h.ownedAgent(c, c.Param("id"))
	if !ok {
		return
	}
	if _, err := h.agents.Delete(c.Request.Context(), a.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedAgent loads the agent and checks it belongs to the caller. It writes
// the error response itself and reports false when the request should stop.
func (h *AgentHandler) ownedAgent(c *gin.Context, id string) (*agents.Agent, bool) {
	a, err := h.agents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return nil, false
	}
	if a.OwnerID != middleware.OwnerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return a, true
}

func (h *AgentHandler) respondError(c *gin.Context, err error) {
	var cerr *agents.CascadeError
	if errors.As(err, &cerr) {
		h.log.Error().Err(err).Str("agentId", cerr.Result.AgentID).Msg("cascade delete incomplete")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "agent deletion incomplete; retry to finish",
			"cascade": gin.H{
				"matched": cerr.Result.Matched,
				"deleted": cerr.Result.Deleted,
				"failed":  cerr.Result.FailedIDs(),
			},
		})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("store failure")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}
