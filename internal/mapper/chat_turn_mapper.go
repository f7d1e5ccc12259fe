package mapper

import (
	"encoding/json"

	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}

	var details map[string]interface{}
	if len(t.Details) > 0 {
		// Corrupt details should not break history reads.
		_ = json.Unmarshal(t.Details, &details)
	}

	return &entity.ChatTurn{
		Id:          t.Id,
		UserId:      t.UserId,
		Type:        t.Type,
		UserMessage: t.UserMessage,
		BotResponse: t.BotResponse,
		Details:     details,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}

	var details datatypes.JSON
	if t.Details != nil {
		if raw, err := json.Marshal(t.Details); err == nil {
			details = raw
		}
	}

	return &model.ChatTurn{
		Id:          t.Id,
		UserId:      t.UserId,
		Type:        t.Type,
		UserMessage: t.UserMessage,
		BotResponse: t.BotResponse,
		Details:     details,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
