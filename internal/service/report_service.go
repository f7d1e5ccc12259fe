package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/pkg/logger"
	"kurum-asistan-be/internal/repository/contract"
	"kurum-asistan-be/pkg/chunker"
	"kurum-asistan-be/pkg/llm"
	"kurum-asistan-be/pkg/rag"
	"kurum-asistan-be/pkg/rag/prompt"
)

type IReportService interface {
	Upload(ctx context.Context, userId, fileName string, content io.Reader) (*dto.ReportResponse, error)
	Process(ctx context.Context, reportId int) error
	GetAll(ctx context.Context, userId string) ([]*dto.ReportResponse, error)
	Delete(ctx context.Context, userId string, reportId int) error
	Query(ctx context.Context, req *dto.QueryReportRequest) (*dto.QueryReportResponse, error)
}

type reportService struct {
	reportRepo contract.ReportRepository
	processor  *rag.Processor
	publisher  IPublisherService
	llmClient  llm.LLMProvider
	uploadDir  string
	topK       int
	logger     logger.ILogger
}

func NewReportService(
	reportRepo contract.ReportRepository,
	processor *rag.Processor,
	publisher IPublisherService,
	llmClient llm.LLMProvider,
	uploadDir string,
	topK int,
	logger logger.ILogger,
) IReportService {
	if topK <= 0 {
		topK = 5
	}
	return &reportService{
		reportRepo: reportRepo,
		processor:  processor,
		publisher:  publisher,
		llmClient:  llmClient,
		uploadDir:  uploadDir,
		topK:       topK,
		logger:     logger,
	}
}

// Upload persists the file under the upload directory, records the report
// row, and hands processing off to the consumer via the event bus.
func (s *reportService) Upload(ctx context.Context, userId, fileName string, content io.Reader) (*dto.ReportResponse, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	// filepath.Base strips any path components a client might smuggle in.
	safeName := filepath.Base(fileName)
	destPath := filepath.Join(s.uploadDir, safeName)

	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if _, err := io.Copy(dest, content); err != nil {
		dest.Close()
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if err := dest.Close(); err != nil {
		return nil, err
	}

	report := &entity.Report{
		UserId:   userId,
		FileName: safeName,
		FilePath: destPath,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.ProcessReportMessage{ReportId: report.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("report", "failed to publish process message", map[string]interface{}{
			"report_id": report.Id,
			"error":     err.Error(),
		})
		return nil, err
	}

	s.logger.Info("report", "report uploaded", map[string]interface{}{
		"report_id": report.Id,
		"file_name": safeName,
		"user_id":   userId,
	})

	return toReportResponse(report), nil
}

// Process reads the stored file, splits it into chunks and feeds them to
// the vector index. Unsupported formats are acknowledged without indexing.
func (s *reportService) Process(ctx context.Context, reportId int) error {
	report, err := s.reportRepo.FindById(ctx, reportId)
	if err != nil {
		return err
	}
	if report == nil {
		s.logger.Warn("report", "process requested for missing report", map[string]interface{}{
			"report_id": reportId,
		})
		return nil
	}

	text, err := extractText(report.FilePath)
	if err != nil {
		return err
	}
	if text == "" {
		s.logger.Warn("report", "unsupported or empty document, skipping indexing", map[string]interface{}{
			"report_id": reportId,
			"file_name": report.FileName,
		})
		return s.reportRepo.MarkProcessed(ctx, reportId)
	}

	chunks := chunker.Split(text)
	if len(chunks) == 0 {
		return s.reportRepo.MarkProcessed(ctx, reportId)
	}

	if err := s.processor.IngestReport(ctx, reportId, chunks); err != nil {
		return fmt.Errorf("failed to index report %d: %w", reportId, err)
	}

	if err := s.reportRepo.MarkProcessed(ctx, reportId); err != nil {
		return err
	}

	s.logger.Info("report", "report indexed", map[string]interface{}{
		"report_id": reportId,
		"chunks":    len(chunks),
	})
	return nil
}

func (s *reportService) GetAll(ctx context.Context, userId string) ([]*dto.ReportResponse, error) {
	reports, err := s.reportRepo.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = toReportResponse(r)
	}
	return responses, nil
}

// Delete removes the report from the vector index, the filesystem and the
// database. Index removal happens first so a failed delete never leaves
// orphaned vectors pointing at a missing report.
func (s *reportService) Delete(ctx context.Context, userId string, reportId int) error {
	report, err := s.reportRepo.FindById(ctx, reportId)
	if err != nil {
		return err
	}
	if report == nil || report.UserId != userId {
		return fmt.Errorf("report %d not found", reportId)
	}

	if err := s.processor.DeleteReport(ctx, reportId); err != nil {
		return fmt.Errorf("failed to remove report %d from index: %w", reportId, err)
	}

	if err := os.Remove(report.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("report", "failed to remove report file", map[string]interface{}{
			"report_id": reportId,
			"path":      report.FilePath,
			"error":     err.Error(),
		})
	}

	return s.reportRepo.Delete(ctx, reportId)
}

// Query searches the user's indexed reports directly over REST. One
// matching report yields a grounded answer; several yield a match list for
// the client to choose from.
func (s *reportService) Query(ctx context.Context, req *dto.QueryReportRequest) (*dto.QueryReportResponse, error) {
	userId := req.UserId
	if userId == "" {
		userId = "default"
	}

	reports, err := s.reportRepo.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	byId := make(map[int]*entity.Report)
	for _, r := range reports {
		if r.Processed {
			byId[r.Id] = r
		}
	}
	if len(byId) == 0 {
		return &dto.QueryReportResponse{}, nil
	}

	results, err := s.processor.Search(ctx, req.Query, s.topK)
	if err != nil {
		return nil, err
	}

	var passages []dto.PassageDTO
	var matches []dto.ReportMatchDTO
	seen := make(map[int]bool)
	for _, res := range results {
		r, ok := byId[res.ReportID]
		if !ok {
			continue
		}
		passages = append(passages, dto.PassageDTO{
			ReportId: res.ReportID,
			Text:     res.Text,
			Distance: res.Distance,
		})
		if !seen[res.ReportID] {
			seen[res.ReportID] = true
			matches = append(matches, dto.ReportMatchDTO{ReportId: r.Id, FileName: r.FileName})
		}
	}

	resp := &dto.QueryReportResponse{Passages: passages, Matches: matches}
	if len(matches) != 1 {
		return resp, nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	answer, err := s.llmClient.Generate(ctx, prompt.BuildGroundedPrompt(texts, req.Query))
	if err != nil {
		return nil, err
	}
	resp.Answer = strings.TrimSpace(answer)
	return resp, nil
}

// extractText returns the plain text of a document, or "" for formats the
// pipeline does not extract yet.
func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		// .pdf and .docx land here until a proper extractor is wired.
		return "", nil
	}
}

func toReportResponse(r *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		Id:        r.Id,
		FileName:  r.FileName,
		Processed: r.Processed,
		CreatedAt: r.CreatedAt,
	}
}
