package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"kurum-asistan-be/internal/constant"
	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/repository/memory"
	"kurum-asistan-be/pkg/events"
	"kurum-asistan-be/pkg/llm"
	"kurum-asistan-be/pkg/rag"
	"kurum-asistan-be/pkg/weather"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM replays scripted replies in order and counts calls.
type fakeLLM struct {
	replies []string
	calls   int
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	if len(f.replies) == 0 {
		return "", fmt.Errorf("no scripted reply left")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

type fakeTurnRepo struct {
	mu    sync.Mutex
	turns []*entity.ChatTurn
}

func (r *fakeTurnRepo) Create(_ context.Context, turn *entity.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	turn.Id = uuid.New()
	turn.CreatedAt = time.Now()
	clone := *turn
	r.turns = append(r.turns, &clone)
	return nil
}

func (r *fakeTurnRepo) FindLastNByUser(_ context.Context, userId string, n int) ([]*entity.ChatTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*entity.ChatTurn
	for _, t := range r.turns {
		if t.UserId == userId {
			mine = append(mine, t)
		}
	}
	if len(mine) > n {
		mine = mine[len(mine)-n:]
	}
	return mine, nil
}

type fakeTicketRepo struct {
	tickets []*entity.SupportTicket
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *entity.SupportTicket) error {
	ticket.Id = uuid.New()
	ticket.CreatedAt = time.Now()
	clone := *ticket
	r.tickets = append(r.tickets, &clone)
	return nil
}

func (r *fakeTicketRepo) FindAllByUser(_ context.Context, userId string) ([]*entity.SupportTicket, error) {
	var out []*entity.SupportTicket
	for i := len(r.tickets) - 1; i >= 0; i-- {
		if r.tickets[i].UserId == userId {
			out = append(out, r.tickets[i])
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) FindById(_ context.Context, id uuid.UUID) (*entity.SupportTicket, error) {
	for _, t := range r.tickets {
		if t.Id == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, t := range r.tickets {
		if t.Id == id {
			t.Read = true
		}
	}
	return nil
}

type fakeReportRepo struct {
	reports map[int]*entity.Report
	nextId  int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[int]*entity.Report), nextId: 1}
}

func (r *fakeReportRepo) Create(_ context.Context, report *entity.Report) error {
	report.Id = r.nextId
	r.nextId++
	report.CreatedAt = time.Now()
	clone := *report
	r.reports[report.Id] = &clone
	return nil
}

func (r *fakeReportRepo) FindById(_ context.Context, id int) (*entity.Report, error) {
	return r.reports[id], nil
}

func (r *fakeReportRepo) FindAllByUser(_ context.Context, userId string) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, rep := range r.reports {
		if rep.UserId == userId {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) MarkProcessed(_ context.Context, id int) error {
	if rep, ok := r.reports[id]; ok {
		rep.Processed = true
	}
	return nil
}

func (r *fakeReportRepo) Delete(_ context.Context, id int) error {
	delete(r.reports, id)
	return nil
}

type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// wordEmbedder mirrors the deterministic bag-of-words embedder used by the
// vector index tests.
type wordEmbedder struct{ dim int }

func (e wordEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(word))
			vec[int(h.Sum32())%e.dim]++
		}
		out[i] = vec
	}
	return out, nil
}

type testEnv struct {
	svc        *chatbotService
	llm        *fakeLLM
	turnRepo   *fakeTurnRepo
	ticketRepo *fakeTicketRepo
	reportRepo *fakeReportRepo
	processor  *rag.Processor
	publisher  *fakePublisher
}

func newTestEnv(t *testing.T, weatherURL string, llmReplies ...string) *testEnv {
	t.Helper()

	processor, err := rag.NewProcessor(t.TempDir(), wordEmbedder{dim: 256}, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	weatherClient := weather.NewClient("test-key")
	if weatherURL != "" {
		weatherClient.BaseURL = weatherURL
	}

	env := &testEnv{
		llm:        &fakeLLM{replies: llmReplies},
		turnRepo:   &fakeTurnRepo{},
		ticketRepo: &fakeTicketRepo{},
		reportRepo: newFakeReportRepo(),
		processor:  processor,
		publisher:  &fakePublisher{},
	}

	svc := NewChatbotService(
		memory.NewStateRepository(),
		env.turnRepo,
		env.ticketRepo,
		env.reportRepo,
		processor,
		env.llm,
		weatherClient,
		env.publisher,
		nopLogger{},
		5,
	)
	env.svc = svc.(*chatbotService)
	return env
}

func (e *testEnv) send(t *testing.T, message string) string {
	t.Helper()
	res, err := e.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		UserId:  "u1",
		Message: message,
	})
	require.NoError(t, err)
	return res.Response
}

func TestTicketSlotFlow(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "destek_talebi", "departman": null, "aciklama": null}`)

	res := env.send(t, "Destek talebi oluşturmak istiyorum")
	assert.Contains(t, res, "Hangi departman")

	res = env.send(t, "IT")
	assert.Equal(t, constant.ReplyAskDescription, res)

	res = env.send(t, "Bilgisayarım açılmıyor")
	assert.Contains(t, res, "Talep numaranız")
	assert.Contains(t, res, "IT departmanımız")

	require.Len(t, env.ticketRepo.tickets, 1)
	ticket := env.ticketRepo.tickets[0]
	assert.Equal(t, "IT", ticket.Department)
	assert.Equal(t, "Bilgisayarım açılmıyor", ticket.Description)
	// Omitted slots get the stock defaults.
	assert.Equal(t, "normal", ticket.Urgency)
	assert.Equal(t, "genel", ticket.Category)
	assert.Len(t, ticket.Code, 8)
	assert.Contains(t, res, ticket.Code)

	// Only the opening turn touches the model; slot turns never do.
	assert.Equal(t, 1, env.llm.calls)

	require.Len(t, env.publisher.published, 1)
	assert.Equal(t, "TICKET_CREATED", env.publisher.published[0].EventType())
}

func TestTicketSlotFlowCompleteCall(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "destek_talebi", "departman": "muhasebe", "aciklama": "Fatura sistemi hata veriyor", "aciliyet": "yüksek"}`)

	res := env.send(t, "Muhasebe için acil destek lazım, fatura sistemi hata veriyor")
	assert.Contains(t, res, "Talep numaranız")

	require.Len(t, env.ticketRepo.tickets, 1)
	ticket := env.ticketRepo.tickets[0]
	assert.Equal(t, "Muhasebe", ticket.Department)
	assert.Equal(t, "yüksek", ticket.Urgency)
}

func TestInvalidDepartmentKeepsSlotPending(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "destek_talebi"}`)

	env.send(t, "Destek talebi oluştur")

	res := env.send(t, "Pazarlama")
	assert.Contains(t, res, "Geçersiz departman")

	// Still waiting for a department, not a description.
	res = env.send(t, "insan kaynakları")
	assert.Equal(t, constant.ReplyAskDescription, res)
}

func TestKnowledgeBaseBypassSkipsModel(t *testing.T) {
	env := newTestEnv(t, "")

	res := env.send(t, "Mesai saatleri nedir?")
	assert.Equal(t, constant.KurumBilgiTabani["mesai"], res)
	assert.Equal(t, 0, env.llm.calls)
}

func TestKnowledgeBaseLongestKeyWins(t *testing.T) {
	env := newTestEnv(t, "")

	res := env.send(t, "Mesai ücreti nasıl hesaplanıyor?")
	assert.Equal(t, constant.KurumBilgiTabani["mesai ucreti"], res)
	assert.Equal(t, 0, env.llm.calls)
}

func TestKnowledgeBaseTravelPolicy(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "kurum_bilgisi", "soru": "seyahat politikası"}`)

	res := env.send(t, "İş gezisi masrafları nasıl karşılanıyor?")
	assert.Equal(t, constant.KurumBilgiTabani["seyahat"], res)
}

func TestKnowledgeToolNotFound(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "kurum_bilgisi", "soru": "otopark"}`)

	res := env.send(t, "Otopark var mı?")
	assert.Equal(t, constant.ReplyKnowledgeNotFound, res)
}

func TestWeatherTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ankara", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"cod":200,"weather":[{"description":"açık"}],"main":{"temp":25.5}}`)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv.URL, `{"tool": "hava_durumu", "sehir": "Ankara"}`)

	res := env.send(t, "Ankara'da hava nasıl?")
	assert.Contains(t, res, "açık")
	assert.Contains(t, res, "25.5")
}

func TestWeatherToolMissingCity(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "hava_durumu"}`)

	res := env.send(t, "Hava nasıl?")
	assert.Equal(t, constant.ReplyAskCity, res)
}

func TestChainedToolsJoinedWithBlankLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"cod":200,"weather":[{"description":"parçalı bulutlu"}],"main":{"temp":18.0}}`)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv.URL, `[{"tool": "hava_durumu", "sehir": "İzmir"}, {"tool": "kurum_bilgisi", "soru": "izin"}]`)

	res := env.send(t, "İzmir hava durumu ve izin süreci?")
	parts := strings.Split(res, "\n\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "parçalı bulutlu")
	assert.Equal(t, constant.KurumBilgiTabani["izin"], parts[1])
}

func TestUnknownToolName(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "bilet_al", "film": "Dune"}`)

	res := env.send(t, "Bana bilet al")
	assert.Equal(t, constant.ReplyUnrecognizedTool, res)
}

func TestRelativeDateFallback(t *testing.T) {
	env := newTestEnv(t, "", "Tarih sorularına yardımcı olamam.")
	env.svc.now = func() time.Time {
		return time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC) // a Friday
	}

	res := env.send(t, "Bugün günlerden ne?")
	assert.Equal(t, "Bugün 28 Ağustos 2026 Cuma.", res)

	env.llm.replies = []string{"Tarih sorularına yardımcı olamam."}
	res = env.send(t, "Yarın ayın kaçı?")
	assert.Equal(t, "Yarın 29 Ağustos 2026 Cumartesi.", res)
}

func TestFreeChatFallback(t *testing.T) {
	env := newTestEnv(t, "", "İyiyim, teşekkür ederim! Size nasıl yardımcı olabilirim?")

	res := env.send(t, "Nasılsın?")
	assert.Equal(t, "İyiyim, teşekkür ederim! Size nasıl yardımcı olabilirim?", res)
}

func TestDocumentQueryWithoutReportsFallsBackToKnowledgeBase(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "dokuman_sorgula", "sorgu": "yemekhane saatleri"}`)

	// The user message itself carries no knowledge-base keyword, so the
	// lookup must run on the extracted query.
	res := env.send(t, "Raporlarda öğle yemeği bilgisi var mı?")
	assert.Equal(t, constant.KurumBilgiTabani["yemekhane"], res)
	assert.Equal(t, 1, env.llm.calls)
}

func TestDocumentQueryWithoutReportsAndNoKnowledgeMatch(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "dokuman_sorgula", "sorgu": "satış rakamları"}`)

	res := env.send(t, "Satış rakamları ne durumda?")
	assert.Equal(t, constant.ReplyKnowledgeNotFound, res)
}

func TestDocumentQuerySingleMatchGroundedAnswer(t *testing.T) {
	env := newTestEnv(t, "",
		`{"tool": "dokuman_sorgula", "sorgu": "toplam satış"}`,
		"Rapora göre toplam satış 120 milyon TL.",
	)

	report := &entity.Report{UserId: "u1", FileName: "satis.txt", FilePath: "satis.txt"}
	require.NoError(t, env.reportRepo.Create(context.Background(), report))
	require.NoError(t, env.reportRepo.MarkProcessed(context.Background(), report.Id))
	require.NoError(t, env.processor.IngestReport(context.Background(), report.Id, []string{
		"toplam satış 120 milyon TL olarak gerçekleşti",
		"personel sayısı 45 kişidir",
	}))

	res := env.send(t, "Toplam satış ne kadar?")
	assert.Equal(t, "Rapora göre toplam satış 120 milyon TL.", res)
	assert.Equal(t, 2, env.llm.calls)
}

func TestDocumentQuerySingleOwnedReportIgnoresOtherUsersVectors(t *testing.T) {
	env := newTestEnv(t, "",
		`{"tool": "dokuman_sorgula", "sorgu": "toplam satış"}`,
		"Rapora göre toplam satış 120 milyon TL.",
	)

	// Another user's report floods the index with chunks closer to the
	// query than anything u1 owns.
	other := &entity.Report{UserId: "u2", FileName: "diger.txt", FilePath: "diger.txt"}
	require.NoError(t, env.reportRepo.Create(context.Background(), other))
	require.NoError(t, env.reportRepo.MarkProcessed(context.Background(), other.Id))
	crowd := make([]string, 6)
	for i := range crowd {
		crowd[i] = fmt.Sprintf("toplam satış tablosu %d", i)
	}
	require.NoError(t, env.processor.IngestReport(context.Background(), other.Id, crowd))

	mine := &entity.Report{UserId: "u1", FileName: "satis.txt", FilePath: "satis.txt"}
	require.NoError(t, env.reportRepo.Create(context.Background(), mine))
	require.NoError(t, env.reportRepo.MarkProcessed(context.Background(), mine.Id))
	require.NoError(t, env.processor.IngestReport(context.Background(), mine.Id, []string{
		"yıllık rapor: ciro 120 milyon TL",
	}))

	res := env.send(t, "Toplam satış ne kadar?")
	assert.Equal(t, "Rapora göre toplam satış 120 milyon TL.", res)
}

func TestDocumentQueryMultipleMatchesListsReports(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "dokuman_sorgula", "sorgu": "satış raporu"}`)

	for _, name := range []string{"q1.txt", "q2.txt"} {
		report := &entity.Report{UserId: "u1", FileName: name, FilePath: name}
		require.NoError(t, env.reportRepo.Create(context.Background(), report))
		require.NoError(t, env.reportRepo.MarkProcessed(context.Background(), report.Id))
		require.NoError(t, env.processor.IngestReport(context.Background(), report.Id, []string{
			"satış raporu " + name,
		}))
	}

	res := env.send(t, "Satış raporlarında ne var?")
	assert.Contains(t, res, "birden fazla doküman")
	assert.Contains(t, res, "1 - q1.txt")
	assert.Contains(t, res, "2 - q2.txt")
}

func TestDocumentSelectUnknownReport(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "dokuman_sec", "rapor_id": 99, "sorgu": "satış"}`)

	res := env.send(t, "99 numaralı dokümana bak")
	assert.Equal(t, constant.ReplyDocumentNotFound, res)
}

func TestDocumentSelectOtherUsersReportHidden(t *testing.T) {
	env := newTestEnv(t, "", `{"tool": "dokuman_sec", "rapor_id": 1, "sorgu": "satış"}`)

	report := &entity.Report{UserId: "someone-else", FileName: "gizli.txt", FilePath: "gizli.txt"}
	require.NoError(t, env.reportRepo.Create(context.Background(), report))

	res := env.send(t, "1 numaralı dokümana bak")
	assert.Equal(t, constant.ReplyDocumentNotFound, res)
}

func TestGetHistoryReturnsRecordedTurns(t *testing.T) {
	env := newTestEnv(t, "", "Merhaba! Size nasıl yardımcı olabilirim?")

	env.send(t, "Merhaba")
	env.send(t, "Mesai saatleri?")

	items, err := env.svc.GetHistory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Merhaba", items[0].UserMessage)
	assert.Equal(t, constant.KurumBilgiTabani["mesai"], items[1].BotResponse)
}

func TestEmptyUserIdMapsToDefault(t *testing.T) {
	env := newTestEnv(t, "", "Merhaba!")

	res, err := env.svc.SendMessage(context.Background(), &dto.SendMessageRequest{Message: "Selam"})
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", res.Response)

	items, err := env.svc.GetHistory(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
}
