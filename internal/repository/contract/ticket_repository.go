package contract

import (
	"context"

	"kurum-asistan-be/internal/entity"

	"github.com/google/uuid"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.SupportTicket) error
	FindAllByUser(ctx context.Context, userId string) ([]*entity.SupportTicket, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.SupportTicket, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
