package mapper

import (
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/model"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToModel(e *entity.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		Role:          e.Role,
		Chat:          e.Chat,
		CitedFile:     e.CitedFile,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToEntity(mo *model.ChatMessage) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:            mo.Id,
		ChatSessionId: mo.ChatSessionId,
		Role:          mo.Role,
		Chat:          mo.Chat,
		CitedFile:     mo.CitedFile,
		CreatedAt:     mo.CreatedAt,
	}
}
