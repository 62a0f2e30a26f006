package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	chatRepo "concierge/database/repository/chat"
	"concierge/models"
	"concierge/services/chatbot"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler exposes the conversational engine over HTTP.
type ChatHandler struct {
	Engine   chatbot.ChatEngine
	Sessions *chatbot.SessionManager
	Repo     chatRepo.Repository
}

// NewChatHandler wires a handler around the engine and its session table.
func NewChatHandler(engine chatbot.ChatEngine, sessions *chatbot.SessionManager, repo chatRepo.Repository) *ChatHandler {
	return &ChatHandler{Engine: engine, Sessions: sessions, Repo: repo}
}

// ChatMessageRequest is one inbound user turn. A missing session id starts a
// new conversation.
type ChatMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// HandleMessage processes one chat turn.
func (h *ChatHandler) HandleMessage(c *gin.Context) {
	logger := utils.GetLogger()

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	resp, err := h.Engine.HandleMessage(c.Request.Context(), req.SessionID, req.Message, time.Now().UTC())
	if err != nil {
		if errors.Is(err, chatbot.ErrSessionExpired) {
			c.JSON(http.StatusGone, gin.H{
				"error":     "session expired",
				"sessionId": req.SessionID,
				"message":   "This session has expired. Send a message without a session id to start over.",
			})
			return
		}
		logger.Error("chat turn failed", zap.String("sessionID", req.SessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession returns the session snapshot including conversation history.
func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	snap, err := h.Engine.GetSessionSnapshot(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, chatbot.ErrSessionExpired) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ListSessions lists sessions. Without a status query it reports the live
// active set; with one it queries the durable store.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	status := c.Query("status")
	if status == "" || h.Repo == nil {
		c.JSON(http.StatusOK, gin.H{"sessions": h.Engine.ActiveSessions()})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	sessions, err := h.Repo.ListSessions(c.Request.Context(), models.SessionStatus(status), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list sessions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ResetSession restarts the conversation, keeping the message history.
func (h *ChatHandler) ResetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Engine.ResetSession(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to reset session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "status": "reset"})
}

// DeleteSession removes a session and its stored history.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Sessions.Delete(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "status": "deleted"})
}
