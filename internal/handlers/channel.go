package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/requestdata"
	"github.com/issam-seghir/shark-chat-backend/internal/services"
)

type ChannelHandler struct {
	svc services.ChannelService
}

func NewChannelHandler(svc services.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// GET /api/dm/:user
func (h *ChannelHandler) ResolveDM(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	ch, err := h.svc.DMChannel(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID, c.Param("user"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"channel": ch})
}

// POST /api/channels/:id/typing
func (h *ChannelHandler) Typing(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.svc.Typing(dbctx.Context{Ctx: c.Request.Context()}, c.Param("id"), rd.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}
