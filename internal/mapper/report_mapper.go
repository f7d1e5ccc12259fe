package mapper

import (
	"time"

	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/model"
)

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		u := r.UpdatedAt
		updatedAt = &u
	}

	return &entity.Report{
		Id:        r.Id,
		UserId:    r.UserId,
		FileName:  r.FileName,
		FilePath:  r.FilePath,
		Processed: r.Processed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ReportMapper) ToModel(r *entity.Report) *model.Report {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Report{
		Id:        r.Id,
		UserId:    r.UserId,
		FileName:  r.FileName,
		FilePath:  r.FilePath,
		Processed: r.Processed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ReportMapper) ToEntities(reports []*model.Report) []*entity.Report {
	entities := make([]*entity.Report, len(reports))
	for i, r := range reports {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
