package contract

import (
	"context"

	"kurum-asistan-be/internal/entity"
)

type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindLastNByUser(ctx context.Context, userId string, n int) ([]*entity.ChatTurn, error)
}
