package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/gin-gonic/gin"
)

type TranscriptHandler struct {
	transcript *usecase.Transcript
}

func NewTranscriptHandler(transcript *usecase.Transcript) *TranscriptHandler {
	return &TranscriptHandler{transcript: transcript}
}

type saveMessageReq struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *TranscriptHandler) SaveMessage(c *gin.Context) {
	var req saveMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.transcript.Save(ctx, c.Param("id"), req.Role, req.Content); err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

type messageResp struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *TranscriptHandler) History(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	msgs, err := h.transcript.History(ctx, c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResp{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"history": resp})
}
