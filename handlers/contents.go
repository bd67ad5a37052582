package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// maxPDFBytes caps an upload request body.
var maxPDFBytes int64 = 32 << 20

// createContentRequest leaves omitted optional fields empty.
type createContentRequest struct {
	ContentName string `json:"contentName"`
	SubPrompt   string `json:"subPrompt"`
	PDFURL      string `json:"pdfUrl"`
}

// updateContentRequest keeps nil for omitted fields; the repository stores
// them as "".
type updateContentRequest struct {
	ContentName string  `json:"contentName"`
	SubPrompt   *string `json:"subPrompt"`
	PDFURL      *string `json:"pdfUrl"`
}

func (h *AgentHandler) ListContents(c *gin.Context) {
	a, ok := h.ownedAgent(c, c.Param("id"))
	if !ok {
		return
	}
	list, err := h.contents.ListByAgent(c.Request.Context(), a.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateContent adds a content to the agent and returns { id, contentCode }.
func (h *AgentHandler) CreateContent(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ContentName = strings.TrimSpace(req.ContentName)
	if req.ContentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contentName is required"})
		return
	}
	a, ok := h.ownedAgent(c, c.Param("id"))
	if !ok {
		return
	}
	id, code, err := h.contents.Create(c.Request.Context(), a.ID, req.ContentName, req.SubPrompt, req.PDFURL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "contentCode": code})
}

func (h *AgentHandler) GetContent(c *gin.Context) {
	ct, ok := h.ownedContent(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ct)
}

// UpdateContent overwrites name, sub-prompt and PDF link; omitted optional
// fields are cleared.
func (h *AgentHandler) UpdateContent(c *gin.Context) {
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ContentName = strings.TrimSpace(req.ContentName)
	if req.ContentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contentName is required"})
		return
	}
	ct, ok := h.ownedContent(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.contents.Update(c.Request.Context(), ct.ID, req.ContentName, req.SubPrompt, req.PDFURL); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": ct.ID})
}

func (h *AgentHandler) DeleteContent(c *gin.Context) {
	ct, ok := h.ownedContent(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.contents.Delete(c.Request.Context(), ct.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPDF stores the multipart "file" part and points the content at it.
func (h *AgentHandler) UploadPDF(c *gin.Context) {
	if h.pdfs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pdf storage not configured"})
		return
	}
	ct, ok := h.ownedContent(c, c.Param("id"))
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPDFBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "pdf exceeds the upload limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' required"})
		return
	}
	mt, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if mt != "application/pdf" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only application/pdf is accepted"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	url, err := h.pdfs.UploadPDF(ctx, ct.AgentID, ct.ID, f, fh.Size)
	if err != nil {
		h.log.Error().Err(err).Str("contentId", ct.ID).Msg("pdf upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "pdf upload failed"})
		return
	}
	if err := h.contents.SetPDF(ctx, ct.ID, url); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pdfUrl": url})
}

// LookupCode returns the caller's contents carrying the given code. Codes are
// not unique, so several matches are possible.
func (h *AgentHandler) LookupCode(c *gin.Context) {
	code := c.Param("code")
	if !contents.ValidCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be 6 digits"})
		return
	}
	ctx := c.Request.Context()
	matches, err := h.contents.ListByCode(ctx, code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	owner := middleware.OwnerID(c)
	owned := map[string]bool{}
	out := make([]contents.Content, 0, len(matches))
	for _, m := range matches {
		mine, seen := owned[m.AgentID]
		if !seen {
			a, err := h.agents.GetByID(ctx, m.AgentID)
			if err != nil {
				h.respondError(c, err)
				return
			}
			mine = a != nil && a.OwnerID == owner
			owned[m.AgentID] = mine
		}
		if mine {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, out)
}

// ownedContent loads a content and checks its agent belongs to the caller.
func (h *AgentHandler) ownedContent(c *gin.Context, id string) (*contents.Content, bool) {
	ct, err := h.contents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if ct == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return nil, false
	}
	a, err := h.agents.GetByID(c.Request.Context(), ct.AgentID)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if a == nil || a.OwnerID != middleware.OwnerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return ct, true
}
