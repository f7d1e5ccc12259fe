package mapper

import (
	"time"

	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/model"
)

type SupportTicketMapper struct{}

func NewSupportTicketMapper() *SupportTicketMapper {
	return &SupportTicketMapper{}
}

func (m *SupportTicketMapper) ToEntity(t *model.SupportTicket) *entity.SupportTicket {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.SupportTicket{
		Id:          t.Id,
		Code:        t.Code,
		UserId:      t.UserId,
		Department:  t.Department,
		Description: t.Description,
		Urgency:     t.Urgency,
		Category:    t.Category,
		Read:        t.Read,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *SupportTicketMapper) ToModel(t *entity.SupportTicket) *model.SupportTicket {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.SupportTicket{
		Id:          t.Id,
		Code:        t.Code,
		UserId:      t.UserId,
		Department:  t.Department,
		Description: t.Description,
		Urgency:     t.Urgency,
		Category:    t.Category,
		Read:        t.Read,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *SupportTicketMapper) ToEntities(tickets []*model.SupportTicket) []*entity.SupportTicket {
	entities := make([]*entity.SupportTicket, len(tickets))
	for i, t := range tickets {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
