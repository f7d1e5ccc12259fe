package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kurum-asistan-be/internal/constant"
	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/pkg/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslateEnv(t *testing.T, handler http.HandlerFunc) ITranslateService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := translate.NewClient()
	client.BaseURL = srv.URL

	return NewTranslateService(client, nopLogger{})
}

func TestTranslateSuccess(t *testing.T) {
	svc := newTranslateEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tr|en", r.URL.Query().Get("langpair"))
		fmt.Fprint(w, `{"responseData":{"translatedText":"Good morning"},"responseStatus":200}`)
	})

	res, err := svc.Translate(context.Background(), &dto.TranslateRequest{Text: "Günaydın"})
	require.NoError(t, err)
	assert.Equal(t, "Günaydın", res.Original)
	assert.Equal(t, "Good morning", res.Translated)
	assert.Equal(t, "en", res.TargetLang)
}

func TestTranslateUpstreamFailureDegradesToFixedString(t *testing.T) {
	svc := newTranslateEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, err := svc.Translate(context.Background(), &dto.TranslateRequest{Text: "Günaydın", TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, constant.ReplyTranslateFailed, res.Translated)
	assert.Equal(t, "de", res.TargetLang)
}
