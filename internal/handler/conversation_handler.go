package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/middleware"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/database"
	"github.com/ritikk978/next-nest/pkg/logger"
)

// CreateConversationRequest defines the structure for starting a thread
type CreateConversationRequest struct {
	Title          string                 `json:"title"`
	Type           model.ConversationType `json:"type"`
	ParticipantIDs []uint                 `json:"participant_ids"`
	Message        string                 `json:"message"`
}

// CreateConversation starts a message thread between the caller and a
// set of participants
func CreateConversation(c echo.Context) error {
	log := logger.FromEcho(c)
	callerID, _ := middleware.CallerID(c)

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}

	if req.Type == "" {
		req.Type = model.ConversationDirect
	}
	if req.Type == model.ConversationDirect && len(req.ParticipantIDs) != 1 {
		return httperr.Validation(map[string]string{"participant_ids": "A direct conversation needs exactly one other participant"})
	}
	if len(req.ParticipantIDs) == 0 {
		return httperr.Validation(map[string]string{"participant_ids": "At least one participant is required"})
	}

	memberIDs := append([]uint{callerID}, req.ParticipantIDs...)
	var count int64
	database.GetDB().Model(&model.User{}).Where("id IN ? AND enabled = ?", memberIDs, true).Count(&count)
	if count != int64(len(memberIDs)) {
		return httperr.BadRequest("One or more participants do not exist")
	}

	conversation := model.Conversation{
		Title:         req.Title,
		Type:          req.Type,
		LastMessageAt: time.Now(),
		IsActive:      true,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		for _, id := range memberIDs {
			p := model.ConversationParticipant{ConversationID: conversation.ID, UserID: id}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		if req.Message != "" {
			msg := model.Message{
				ConversationID: conversation.ID,
				SenderID:       callerID,
				Body:           req.Message,
			}
			return tx.Create(&msg).Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create conversation", zap.Error(err))
		return httperr.Internal("Failed to create conversation")
	}

	log.Info("Conversation created",
		zap.Uint("conversation_id", conversation.ID),
		zap.Int("participants", len(memberIDs)))
	return c.JSON(http.StatusCreated, conversation)
}

// loadParticipantConversation resolves a thread the caller belongs to
func loadParticipantConversation(c echo.Context) (*model.Conversation, error) {
	var conversation model.Conversation
	result := database.GetDB().Preload("Participants").Preload("Participants.User").
		First(&conversation, c.Param("id"))
	if result.Error != nil {
		return nil, httperr.NotFound("Conversation not found")
	}

	callerID, _ := middleware.CallerID(c)
	role, _ := middleware.CallerRole(c)
	if role == model.RoleAdmin {
		return &conversation, nil
	}
	for _, p := range conversation.Participants {
		if p.UserID == callerID {
			return &conversation, nil
		}
	}
	return nil, httperr.Forbidden("You are not part of this conversation")
}

// MyConversations returns the caller's inbox ordered by last activity
func MyConversations(c echo.Context) error {
	callerID, _ := middleware.CallerID(c)

	var conversations []model.Conversation
	result := database.GetDB().
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND conversations.is_active = ?", callerID, true).
		Order("conversations.last_message_at DESC").
		Preload("Participants.User").
		Find(&conversations)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve conversations")
	}
	return c.JSON(http.StatusOK, conversations)
}

// GetConversation returns one thread with its participants
func GetConversation(c echo.Context) error {
	conversation, err := loadParticipantConversation(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conversation)
}

// ListMessages returns a page of a thread's messages, oldest first
func ListMessages(c echo.Context) error {
	conversation, err := loadParticipantConversation(c)
	if err != nil {
		return err
	}

	page, size := pagination(c.QueryParam("page"), c.QueryParam("size"))

	var messages []model.Message
	result := database.GetDB().Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Offset((page - 1) * size).Limit(size).
		Find(&messages)
	if result.Error != nil {
		return httperr.Internal("Failed to retrieve messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage appends a message to a thread and bumps its activity
// timestamp
func SendMessage(c echo.Context) error {
	log := logger.FromEcho(c)

	conversation, err := loadParticipantConversation(c)
	if err != nil {
		return err
	}
	if !conversation.IsActive {
		return httperr.BadRequest("This conversation is closed")
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest("Invalid request data")
	}
	if req.Body == "" {
		return httperr.Validation(map[string]string{"body": "Message body is required"})
	}

	callerID, _ := middleware.CallerID(c)
	message := model.Message{
		ConversationID: conversation.ID,
		SenderID:       callerID,
		Body:           req.Body,
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(conversation).Update("last_message_at", time.Now()).Error
	})
	if err != nil {
		log.Error("Failed to send message", zap.Uint("conversation_id", conversation.ID), zap.Error(err))
		return httperr.Internal("Failed to send message")
	}

	return c.JSON(http.StatusCreated, message)
}

// CloseConversation deactivates a thread. Messages stay readable.
func CloseConversation(c echo.Context) error {
	log := logger.FromEcho(c)

	conversation, err := loadParticipantConversation(c)
	if err != nil {
		return err
	}

	if result := database.GetDB().Model(conversation).Update("is_active", false); result.Error != nil {
		log.Error("Failed to close conversation", zap.Uint("conversation_id", conversation.ID), zap.Error(result.Error))
		return httperr.Internal("Failed to close conversation")
	}

	log.Info("Conversation closed", zap.Uint("conversation_id", conversation.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Conversation closed"})
}
