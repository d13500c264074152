package model

import (
	"time"
)

// ConversationType distinguishes one-to-one chats from group threads
type ConversationType string

const (
	ConversationDirect ConversationType = "DIRECT"
	ConversationGroup  ConversationType = "GROUP"
)

// Conversation is a message thread between a set of users. LastMessageAt
// drives inbox ordering.
type Conversation struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	Title         string           `json:"title" gorm:"type:varchar(255);not null"`
	Type          ConversationType `json:"type" gorm:"type:varchar(20);not null"`
	LastMessageAt time.Time        `json:"last_message_at" gorm:"index;not null"`
	IsActive      bool             `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Participants []ConversationParticipant `json:"participants,omitempty"`
}

// ConversationParticipant is one member of a conversation
type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index:idx_conversation_user,unique;not null"`
	UserID         uint      `json:"user_id" gorm:"index:idx_conversation_user,unique;index;not null"`
	User           *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message is one entry in a conversation, ordered by CreatedAt
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null"`
	Sender         *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}
