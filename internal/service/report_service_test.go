package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func newReportEnv(t *testing.T, llmReplies ...string) (IReportService, *fakeReportRepo, *rag.Processor, *capturingPublisher, string) {
	t.Helper()

	processor, err := rag.NewProcessor(t.TempDir(), wordEmbedder{dim: 256}, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	repo := newFakeReportRepo()
	pub := &capturingPublisher{}
	uploadDir := t.TempDir()

	svc := NewReportService(repo, processor, pub, &fakeLLM{replies: llmReplies}, uploadDir, 5, nopLogger{})
	return svc, repo, processor, pub, uploadDir
}

func TestUploadSavesFileAndPublishes(t *testing.T) {
	svc, repo, _, pub, uploadDir := newReportEnv(t)

	res, err := svc.Upload(context.Background(), "u1", "satis.txt", strings.NewReader("toplam satış 120"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Id)
	assert.Equal(t, "satis.txt", res.FileName)
	assert.False(t, res.Processed)

	saved, err := os.ReadFile(filepath.Join(uploadDir, "satis.txt"))
	require.NoError(t, err)
	assert.Equal(t, "toplam satış 120", string(saved))

	require.Len(t, pub.payloads, 1)
	var msg dto.ProcessReportMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, 1, msg.ReportId)

	stored, err := repo.FindById(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.UserId)
}

func TestUploadStripsPathComponents(t *testing.T) {
	svc, _, _, _, uploadDir := newReportEnv(t)

	res, err := svc.Upload(context.Background(), "u1", "../../etc/rapor.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "rapor.txt", res.FileName)

	_, err = os.Stat(filepath.Join(uploadDir, "rapor.txt"))
	assert.NoError(t, err)
}

func TestProcessIndexesTextReport(t *testing.T) {
	svc, repo, processor, _, uploadDir := newReportEnv(t)

	path := filepath.Join(uploadDir, "rapor.txt")
	require.NoError(t, os.WriteFile(path, []byte("satışlar geçen çeyrek arttı\n\npersonel sayısı sabit kaldı"), 0o644))

	res, err := svc.Upload(context.Background(), "u1", "rapor.txt", strings.NewReader("satışlar geçen çeyrek arttı\n\npersonel sayısı sabit kaldı"))
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), res.Id))

	assert.Greater(t, processor.Count(), 0)

	stored, err := repo.FindById(context.Background(), res.Id)
	require.NoError(t, err)
	assert.True(t, stored.Processed)
}

func TestProcessSkipsUnsupportedFormat(t *testing.T) {
	svc, repo, processor, _, _ := newReportEnv(t)

	res, err := svc.Upload(context.Background(), "u1", "rapor.pdf", strings.NewReader("%PDF-1.4 binary"))
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), res.Id))

	// Marked processed so it stops being retried, but nothing was indexed.
	assert.Equal(t, 0, processor.Count())
	stored, err := repo.FindById(context.Background(), res.Id)
	require.NoError(t, err)
	assert.True(t, stored.Processed)
}

func TestProcessMissingReportIsNoop(t *testing.T) {
	svc, _, processor, _, _ := newReportEnv(t)

	require.NoError(t, svc.Process(context.Background(), 42))
	assert.Equal(t, 0, processor.Count())
}

func TestDeleteRemovesIndexFileAndRow(t *testing.T) {
	svc, repo, processor, _, uploadDir := newReportEnv(t)

	res, err := svc.Upload(context.Background(), "u1", "rapor.txt", strings.NewReader("satış verisi burada"))
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), res.Id))
	require.Greater(t, processor.Count(), 0)

	require.NoError(t, svc.Delete(context.Background(), "u1", res.Id))

	assert.Equal(t, 0, processor.Count())

	_, err = os.Stat(filepath.Join(uploadDir, "rapor.txt"))
	assert.True(t, os.IsNotExist(err))

	stored, err := repo.FindById(context.Background(), res.Id)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteRejectsOtherUsers(t *testing.T) {
	svc, _, _, _, _ := newReportEnv(t)

	res, err := svc.Upload(context.Background(), "u1", "rapor.txt", strings.NewReader("veri"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "u2", res.Id)
	assert.Error(t, err)
}

func TestQuerySingleReportReturnsGroundedAnswer(t *testing.T) {
	svc, _, _, _, _ := newReportEnv(t, "Toplam satış 120 milyon TL.")

	res, err := svc.Upload(context.Background(), "u1", "satis.txt", strings.NewReader("toplam satış 120 milyon TL olarak gerçekleşti"))
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), res.Id))

	out, err := svc.Query(context.Background(), &dto.QueryReportRequest{UserId: "u1", Query: "toplam satış"})
	require.NoError(t, err)
	assert.Equal(t, "Toplam satış 120 milyon TL.", out.Answer)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "satis.txt", out.Matches[0].FileName)
	assert.NotEmpty(t, out.Passages)
}

func TestQueryWithoutProcessedReports(t *testing.T) {
	svc, _, _, _, _ := newReportEnv(t)

	out, err := svc.Query(context.Background(), &dto.QueryReportRequest{UserId: "u1", Query: "satış"})
	require.NoError(t, err)
	assert.Empty(t, out.Answer)
	assert.Empty(t, out.Matches)
}
