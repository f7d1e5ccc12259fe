package implementation

import (
	"context"

	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/mapper"
	"kurum-asistan-be/internal/model"
	"kurum-asistan-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ChatTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTurnMapper
}

func NewChatTurnRepository(db *gorm.DB) contract.ChatTurnRepository {
	return &ChatTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTurnMapper(),
	}
}

func (r *ChatTurnRepositoryImpl) Create(ctx context.Context, turn *entity.ChatTurn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTurnRepositoryImpl) FindLastNByUser(ctx context.Context, userId string, n int) ([]*entity.ChatTurn, error) {
	var models []*model.ChatTurn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(n).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Return oldest first so callers can replay the conversation in order.
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.ToEntities(models), nil
}
