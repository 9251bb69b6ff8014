package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/requestdata"
	"github.com/issam-seghir/shark-chat-backend/internal/services"
)

type GroupHandler struct {
	svc services.GroupService
}

func NewGroupHandler(svc services.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type createGroupRequest struct {
	Name       string `json:"name" binding:"required"`
	UniqueName string `json:"unique_name" binding:"required"`
	Public     bool   `json:"public"`
}

// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.svc.Create(dbctx.Context{Ctx: c.Request.Context()}, services.CreateGroupInput{
		Name:       req.Name,
		UniqueName: req.UniqueName,
		OwnerID:    rd.UserID,
		Public:     req.Public,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"group": g})
}

// GET /api/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	g, err := h.svc.Get(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"group": g})
}

type updateGroupRequest struct {
	Name     *string `json:"name"`
	IconHash *int    `json:"icon_hash"`
	Public   *bool   `json:"public"`
}

// PATCH /api/groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := groupID(c)
	if !ok {
		return
	}
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.svc.Update(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID, services.UpdateGroupInput{
		Name:     req.Name,
		IconHash: req.IconHash,
		Public:   req.Public,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"group": g})
}

// DELETE /api/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := groupID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

// POST /api/groups/:id/join
func (h *GroupHandler) Join(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := groupID(c)
	if !ok {
		return
	}
	if err := h.svc.Join(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

// POST /api/groups/:id/kick/:user
func (h *GroupHandler) Kick(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := groupID(c)
	if !ok {
		return
	}
	if err := h.svc.Kick(dbctx.Context{Ctx: c.Request.Context()}, id, rd.UserID, c.Param("user")); err != nil {
		respondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

func groupID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return 0, false
	}
	return id, true
}
