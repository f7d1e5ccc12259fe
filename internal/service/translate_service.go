package service

import (
	"context"

	"kurum-asistan-be/internal/constant"
	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/pkg/logger"
	"kurum-asistan-be/pkg/translate"
)

type ITranslateService interface {
	Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error)
}

type translateService struct {
	client *translate.Client
	logger logger.ILogger
}

func NewTranslateService(client *translate.Client, sysLogger logger.ILogger) ITranslateService {
	return &translateService{
		client: client,
		logger: sysLogger,
	}
}

// Translate proxies to the upstream service. Upstream failures degrade to a
// fixed apology string; they never surface as an error to the caller.
func (s *translateService) Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error) {
	target := req.TargetLang
	if target == "" {
		target = "en"
	}

	translated, err := s.client.Translate(ctx, req.Text, target)
	if err != nil {
		s.logger.Warn("translate", "upstream translation failed", map[string]interface{}{
			"target_lang": target,
			"error":       err.Error(),
		})
		translated = constant.ReplyTranslateFailed
	}

	return &dto.TranslateResponse{
		Original:   req.Text,
		Translated: translated,
		TargetLang: target,
	}, nil
}
