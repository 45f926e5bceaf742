package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/models"
	"gorm.io/gorm"
)

type MessageHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewMessageHandler(db *gorm.DB, cfg *config.Config) *MessageHandler {
	return &MessageHandler{db: db, config: cfg}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Subject    string `json:"subject"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage delivers a message from the authenticated user.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var receiver models.User
	if err := h.db.First(&receiver, req.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		return
	}

	message := models.Message{
		SenderID:   userID.(uint),
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
	}
	if err := h.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages returns messages the caller sent or received.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var messages []models.Message
	if err := h.db.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetMessage returns one message and marks it read when the caller is
// the receiver.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	var message models.Message
	if err := h.db.Preload("Sender").Preload("Receiver").First(&message, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	userID, _ := c.Get("userID")
	uid := userID.(uint)
	if message.SenderID != uid && message.ReceiverID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this message"})
		return
	}

	if message.ReceiverID == uid && !message.Read {
		message.Read = true
		h.db.Model(&message).Update("read", true)
	}

	c.JSON(http.StatusOK, message)
}

// DeleteMessage removes a message. Sender or receiver only.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	var message models.Message
	if err := h.db.First(&message, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	userID, _ := c.Get("userID")
	uid := userID.(uint)
	if message.SenderID != uid && message.ReceiverID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this message"})
		return
	}

	if err := h.db.Delete(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
