package implementation

import (
	"context"
	"errors"

	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/mapper"
	"kurum-asistan-be/internal/model"
	"kurum-asistan-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SupportTicketMapper
}

func NewTicketRepository(db *gorm.DB) contract.TicketRepository {
	return &TicketRepositoryImpl{
		db:     db,
		mapper: mapper.NewSupportTicketMapper(),
	}
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *entity.SupportTicket) error {
	m := r.mapper.ToModel(ticket)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ticket = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketRepositoryImpl) FindAllByUser(ctx context.Context, userId string) ([]*entity.SupportTicket, error) {
	var models []*model.SupportTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TicketRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.SupportTicket, error) {
	var m model.SupportTicket
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TicketRepositoryImpl) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.SupportTicket{}).
		Where("id = ?", id).
		Update("read", true).Error
}
