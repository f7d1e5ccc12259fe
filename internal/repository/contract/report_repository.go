package contract

import (
	"context"

	"kurum-asistan-be/internal/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindById(ctx context.Context, id int) (*entity.Report, error)
	FindAllByUser(ctx context.Context, userId string) ([]*entity.Report, error)
	MarkProcessed(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}
