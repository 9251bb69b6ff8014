package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/requestdata"
	"github.com/issam-seghir/shark-chat-backend/internal/services"
)

type MessageHandler struct {
	svc services.MessageService
}

func NewMessageHandler(svc services.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type sendMessageRequest struct {
	Content    string                  `json:"content"`
	Attachment *types.UploadAttachment `json:"attachment,omitempty"`
	ReplyID    *int                    `json:"reply_id,omitempty"`
	Nonce      *int64                  `json:"nonce,omitempty"`
}

// POST /api/channels/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	msg, err := h.svc.Create(dbctx.Context{Ctx: c.Request.Context()}, services.CreateMessageInput{
		ChannelID:  c.Param("id"),
		AuthorID:   rd.UserID,
		Content:    req.Content,
		Attachment: req.Attachment,
		ReplyID:    req.ReplyID,
		Nonce:      req.Nonce,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": msg})
}

// GET /api/channels/:id/messages?count=&after=&before=
func (h *MessageHandler) List(c *gin.Context) {
	count := 50
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		count = n
	}
	after, ok := cursorQuery(c, "after")
	if !ok {
		return
	}
	before, ok := cursorQuery(c, "before")
	if !ok {
		return
	}

	msgs, err := h.svc.List(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), count, after, before)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": msgs})
}

type updateMessageRequest struct {
	Content string `json:"content"`
}

// PATCH /api/messages/:id
func (h *MessageHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.svc.Update(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID, req.Content); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.svc.Delete(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

func cursorQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return nil, false
	}
	return &n, true
}
