package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"kurum-asistan-be/internal/constant"
	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/pkg/logger"
	"kurum-asistan-be/internal/repository/contract"
	"kurum-asistan-be/internal/repository/memory"
	"kurum-asistan-be/pkg/ai/router"
	"kurum-asistan-be/pkg/events"
	"kurum-asistan-be/pkg/llm"
	"kurum-asistan-be/pkg/rag"
	"kurum-asistan-be/pkg/rag/prompt"
	"kurum-asistan-be/pkg/store"
	"kurum-asistan-be/pkg/textutil"
	"kurum-asistan-be/pkg/weather"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

const defaultUserId = "default"

// historyLimit bounds GetHistory responses.
const historyLimit = 20

type IChatbotService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, userId string) ([]*dto.ChatHistoryItem, error)
}

// IEventPublisher is the outbound event sink. A nil publisher is allowed;
// domain events are best-effort.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// fallbackHandler tries to answer a message no tool call was extracted for.
// Handlers run in order; the first one that returns true wins.
type fallbackHandler func(message, rawReply string, now time.Time) (string, bool)

type chatbotService struct {
	stateRepo  *memory.StateRepository
	turnRepo   contract.ChatTurnRepository
	ticketRepo contract.TicketRepository
	reportRepo contract.ReportRepository
	processor  *rag.Processor
	llmClient  llm.LLMProvider
	weather    *weather.Client
	publisher  IEventPublisher
	logger     logger.ILogger
	topK       int

	fallbacks []fallbackHandler

	// userLocks serializes turns of the same user so slot updates never race.
	userLocks sync.Map // string -> *sync.Mutex

	now func() time.Time
}

func NewChatbotService(
	stateRepo *memory.StateRepository,
	turnRepo contract.ChatTurnRepository,
	ticketRepo contract.TicketRepository,
	reportRepo contract.ReportRepository,
	processor *rag.Processor,
	llmClient llm.LLMProvider,
	weatherClient *weather.Client,
	publisher IEventPublisher,
	sysLogger logger.ILogger,
	topK int,
) IChatbotService {
	if topK <= 0 {
		topK = 5
	}
	s := &chatbotService{
		stateRepo:  stateRepo,
		turnRepo:   turnRepo,
		ticketRepo: ticketRepo,
		reportRepo: reportRepo,
		processor:  processor,
		llmClient:  llmClient,
		weather:    weatherClient,
		publisher:  publisher,
		logger:     sysLogger,
		topK:       topK,
		now:        time.Now,
	}
	s.fallbacks = []fallbackHandler{
		s.relativeDateFallback,
		s.parsedDateFallback,
		s.freeChatFallback,
	}
	return s
}

func (s *chatbotService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	userId := req.UserId
	if userId == "" {
		userId = defaultUserId
	}

	mu := s.lockFor(userId)
	mu.Lock()
	defer mu.Unlock()

	state := s.stateRepo.GetOrCreate(userId)
	if req.Model != "" {
		state.PreferredModel = req.Model
	}

	message := strings.TrimSpace(req.Message)

	var response string
	switch {
	case state.AwaitingSlot != store.SlotNone:
		response = s.handleSlot(ctx, state, message)
	default:
		response = s.handleIdle(ctx, state, message)
	}

	s.stateRepo.Save(state)

	return &dto.SendMessageResponse{Response: response}, nil
}

func (s *chatbotService) GetHistory(ctx context.Context, userId string) ([]*dto.ChatHistoryItem, error) {
	if userId == "" {
		userId = defaultUserId
	}

	turns, err := s.turnRepo.FindLastNByUser(ctx, userId, historyLimit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatHistoryItem, len(turns))
	for i, t := range turns {
		items[i] = &dto.ChatHistoryItem{
			Type:        t.Type,
			UserMessage: t.UserMessage,
			BotResponse: t.BotResponse,
			Details:     t.Details,
			CreatedAt:   t.CreatedAt,
		}
	}
	return items, nil
}

// handleSlot consumes a message while a ticket slot is pending. Slot input
// never goes through the language model.
func (s *chatbotService) handleSlot(ctx context.Context, state *store.ConversationState, message string) string {
	if state.PendingTicket == nil {
		state.PendingTicket = &store.TicketDraft{}
	}
	draft := state.PendingTicket

	var response string
	switch state.AwaitingSlot {
	case store.SlotDepartment:
		dep, ok := textutil.MatchDepartment(message, constant.Departmanlar)
		if !ok {
			// Slot stays pending, same question again.
			response = fmt.Sprintf(constant.ReplyInvalidDepartment, strings.Join(constant.Departmanlar, ", "))
			break
		}
		draft.Department = dep
		if draft.Description != "" {
			response = s.finalizeTicket(ctx, state)
		} else {
			state.AwaitingSlot = store.SlotDescription
			response = constant.ReplyAskDescription
		}

	case store.SlotDescription:
		draft.Description = message
		if draft.Department == "" {
			state.AwaitingSlot = store.SlotDepartment
			response = fmt.Sprintf(constant.ReplyAskDepartment, strings.Join(constant.Departmanlar, ", "))
		} else {
			response = s.finalizeTicket(ctx, state)
		}

	default:
		// Unknown slot value, treat the state as corrupt and start over.
		state.ResetPending()
		return s.handleIdle(ctx, state, message)
	}

	s.recordTurn(ctx, state.UserID, constant.TurnTypeTicket, message, response, map[string]interface{}{
		"slot": state.AwaitingSlot,
	})
	return response
}

// handleIdle routes a message with no pending slot: knowledge-base shortcut
// first, then the model-driven tool router, then the fallback cascade.
func (s *chatbotService) handleIdle(ctx context.Context, state *store.ConversationState, message string) string {
	if answer, ok := s.knowledgeLookup(message); ok {
		s.recordTurn(ctx, state.UserID, constant.TurnTypeChat, message, answer, map[string]interface{}{
			"source": "knowledge_base",
		})
		return answer
	}

	history := s.recentHistory(ctx, state.UserID)
	toolPrompt := prompt.BuildToolPrompt(history, message)

	var opts []llm.Option
	if state.PreferredModel != "" {
		opts = append(opts, llm.WithModel(state.PreferredModel))
	}

	raw, err := s.llmClient.Generate(ctx, toolPrompt, opts...)
	if err != nil {
		s.logger.Error("chatbot", "llm generate failed", map[string]interface{}{
			"user_id": state.UserID,
			"error":   err.Error(),
		})
		response := constant.ReplyLLMUnavailable
		s.recordTurn(ctx, state.UserID, constant.TurnTypeChat, message, response, map[string]interface{}{
			"error": err.Error(),
		})
		return response
	}

	calls, ok := router.Extract(raw)
	if !ok {
		return s.runFallbacks(ctx, state.UserID, message, raw)
	}

	parts := make([]string, 0, len(calls))
	turnType := constant.TurnTypeTool
	toolNames := make([]string, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, s.dispatch(ctx, state, call))
		toolNames = append(toolNames, call.Name)
		switch call.Kind {
		case router.KindTicket:
			turnType = constant.TurnTypeTicket
		case router.KindDocumentQuery, router.KindDocumentSelect:
			turnType = constant.TurnTypeDocument
		}
	}
	response := strings.Join(parts, "\n\n")

	s.recordTurn(ctx, state.UserID, turnType, message, response, map[string]interface{}{
		"tools": strings.Join(toolNames, ","),
	})
	return response
}

func (s *chatbotService) dispatch(ctx context.Context, state *store.ConversationState, call router.ToolCall) string {
	switch call.Kind {
	case router.KindWeather:
		return s.handleWeather(ctx, call.City)
	case router.KindKnowledge:
		if answer, ok := s.knowledgeLookup(call.Question); ok {
			return answer
		}
		return constant.ReplyKnowledgeNotFound
	case router.KindTicket:
		return s.handleTicket(ctx, state, call)
	case router.KindDocumentQuery:
		return s.handleDocumentQuery(ctx, state.UserID, call.Query)
	case router.KindDocumentSelect:
		return s.handleDocumentSelect(ctx, state, call.ReportID, call.Query)
	default:
		return constant.ReplyUnrecognizedTool
	}
}

func (s *chatbotService) handleWeather(ctx context.Context, city string) string {
	if strings.TrimSpace(city) == "" {
		return constant.ReplyAskCity
	}

	report, err := s.weather.Current(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrCityNotFound) {
			return fmt.Sprintf(constant.ReplyCityNotFound, city)
		}
		s.logger.Warn("chatbot", "weather lookup failed", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
		return constant.ReplyWeatherUnavailable
	}

	return fmt.Sprintf(constant.ReplyWeatherReport, report.City, report.Description, report.TempCelsius)
}

// handleTicket merges whatever slots the model extracted into the draft and
// either asks for the next missing slot or finalizes.
func (s *chatbotService) handleTicket(ctx context.Context, state *store.ConversationState, call router.ToolCall) string {
	if state.PendingTicket == nil {
		state.PendingTicket = &store.TicketDraft{}
	}
	draft := state.PendingTicket

	if call.Urgency != "" {
		draft.Urgency = call.Urgency
	}
	if call.Category != "" {
		draft.Category = call.Category
	}
	if call.Description != "" {
		draft.Description = call.Description
	}
	if call.Department != "" {
		if dep, ok := textutil.MatchDepartment(call.Department, constant.Departmanlar); ok {
			draft.Department = dep
		} else {
			state.AwaitingSlot = store.SlotDepartment
			return fmt.Sprintf(constant.ReplyInvalidDepartment, strings.Join(constant.Departmanlar, ", "))
		}
	}

	if draft.Department == "" {
		state.AwaitingSlot = store.SlotDepartment
		return fmt.Sprintf(constant.ReplyAskDepartment, strings.Join(constant.Departmanlar, ", "))
	}
	if draft.Description == "" {
		state.AwaitingSlot = store.SlotDescription
		return constant.ReplyAskDescription
	}

	return s.finalizeTicket(ctx, state)
}

func (s *chatbotService) finalizeTicket(ctx context.Context, state *store.ConversationState) string {
	draft := state.PendingTicket
	if draft.Urgency == "" {
		draft.Urgency = "normal"
	}
	if draft.Category == "" {
		draft.Category = "genel"
	}

	code := uuid.NewString()[:8]
	ticket := &entity.SupportTicket{
		Code:        code,
		UserId:      state.UserID,
		Department:  draft.Department,
		Description: draft.Description,
		Urgency:     draft.Urgency,
		Category:    draft.Category,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		s.logger.Error("chatbot", "failed to persist ticket", map[string]interface{}{
			"user_id": state.UserID,
			"error":   err.Error(),
		})
		state.ResetPending()
		return constant.ReplyLLMUnavailable
	}

	if s.publisher != nil {
		evt := events.TicketCreated(code, state.UserID, draft.Department, draft.Urgency, s.now())
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("chatbot", "failed to publish ticket event", map[string]interface{}{
				"code":  code,
				"error": err.Error(),
			})
		}
	}

	department := draft.Department
	state.LastDepartment = department
	state.ResetPending()

	return fmt.Sprintf(constant.ReplyTicketCreated, code, department)
}

// handleDocumentQuery resolves a free-text query against the user's indexed
// reports. Zero owned documents falls back to the knowledge base, a single
// owned document is answered from that document alone, and several owned
// documents are listed for the user to pick from.
func (s *chatbotService) handleDocumentQuery(ctx context.Context, userId, query string) string {
	reports, err := s.reportRepo.FindAllByUser(ctx, userId)
	if err != nil {
		s.logger.Error("chatbot", "failed to list reports", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return constant.ReplyLLMUnavailable
	}

	var owned []*entity.Report
	for _, r := range reports {
		if r.Processed {
			owned = append(owned, r)
		}
	}

	switch len(owned) {
	case 0:
		if answer, ok := s.knowledgeLookup(query); ok {
			return answer
		}
		return constant.ReplyKnowledgeNotFound
	case 1:
		return s.groundedAnswer(ctx, owned[0].Id, query)
	default:
		sort.Slice(owned, func(i, j int) bool { return owned[i].Id < owned[j].Id })
		lines := make([]string, len(owned))
		for i, r := range owned {
			lines[i] = fmt.Sprintf("%d - %s", r.Id, r.FileName)
		}
		return fmt.Sprintf(constant.ReplySelectDocument, strings.Join(lines, "\n"))
	}
}

func (s *chatbotService) handleDocumentSelect(ctx context.Context, state *store.ConversationState, reportId int, query string) string {
	report, err := s.reportRepo.FindById(ctx, reportId)
	if err != nil {
		s.logger.Error("chatbot", "failed to load report", map[string]interface{}{
			"report_id": reportId,
			"error":     err.Error(),
		})
		return constant.ReplyLLMUnavailable
	}
	if report == nil || report.UserId != state.UserID {
		return constant.ReplyDocumentNotFound
	}

	return s.groundedAnswer(ctx, reportId, query)
}

// groundedAnswer retrieves the closest passages of one report and asks the
// model to answer strictly from them.
func (s *chatbotService) groundedAnswer(ctx context.Context, reportId int, query string) string {
	results, err := s.processor.SearchReport(ctx, reportId, query, s.topK)
	if err != nil {
		s.logger.Error("chatbot", "report search failed", map[string]interface{}{
			"report_id": reportId,
			"error":     err.Error(),
		})
		return constant.ReplyLLMUnavailable
	}
	if len(results) == 0 {
		return constant.ReplyNoDocumentMatch
	}

	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Text
	}

	answer, err := s.llmClient.Generate(ctx, prompt.BuildGroundedPrompt(passages, query))
	if err != nil {
		s.logger.Error("chatbot", "grounded generate failed", map[string]interface{}{
			"report_id": reportId,
			"error":     err.Error(),
		})
		return constant.ReplyLLMUnavailable
	}
	return strings.TrimSpace(answer)
}

func (s *chatbotService) runFallbacks(ctx context.Context, userId, message, raw string) string {
	now := s.now()
	for _, handler := range s.fallbacks {
		if response, ok := handler(message, raw, now); ok {
			s.recordTurn(ctx, userId, constant.TurnTypeFallback, message, response, nil)
			return response
		}
	}
	// freeChatFallback always answers; this is unreachable.
	return constant.ReplyLLMUnavailable
}

// relativeDateFallback answers bugün/yarın/dün questions locally so a flaky
// model never gets today's date wrong.
func (s *chatbotService) relativeDateFallback(message, _ string, now time.Time) (string, bool) {
	norm := textutil.Normalize(message)
	switch {
	case strings.Contains(norm, "bugun"):
		return fmt.Sprintf("Bugün %s.", formatTurkishDate(now)), true
	case strings.Contains(norm, "yarin"):
		return fmt.Sprintf("Yarın %s.", formatTurkishDate(now.AddDate(0, 0, 1))), true
	case strings.Contains(norm, "dun"):
		return fmt.Sprintf("Dün %s.", formatTurkishDate(now.AddDate(0, 0, -1))), true
	}
	return "", false
}

// parsedDateFallback catches messages that are themselves a date expression.
func (s *chatbotService) parsedDateFallback(message, _ string, _ time.Time) (string, bool) {
	t, err := dateparse.ParseAny(strings.TrimSpace(message))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s.", formatTurkishDate(t)), true
}

// freeChatFallback returns the model's own text as the reply. Always matches.
func (s *chatbotService) freeChatFallback(_, raw string, _ time.Time) (string, bool) {
	response := strings.TrimSpace(raw)
	if response == "" {
		response = constant.ReplyLLMUnavailable
	}
	return response, true
}

func (s *chatbotService) knowledgeLookup(message string) (string, bool) {
	norm := textutil.Normalize(message)
	// Ordered longest-first so "mesai ucreti" is not shadowed by "mesai".
	for _, key := range constant.KurumBilgiAnahtarlari {
		if strings.Contains(norm, key) {
			return constant.KurumBilgiTabani[key], true
		}
	}
	return "", false
}

func (s *chatbotService) recentHistory(ctx context.Context, userId string) []prompt.HistoryTurn {
	turns, err := s.turnRepo.FindLastNByUser(ctx, userId, prompt.MaxHistoryTurns)
	if err != nil {
		s.logger.Warn("chatbot", "failed to load history", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil
	}

	history := make([]prompt.HistoryTurn, len(turns))
	for i, t := range turns {
		history[i] = prompt.HistoryTurn{
			UserMessage: t.UserMessage,
			BotResponse: t.BotResponse,
		}
	}
	return history
}

// recordTurn writes the audit row. Failures are logged, never surfaced: a
// broken audit trail must not break the conversation.
func (s *chatbotService) recordTurn(ctx context.Context, userId, turnType, message, response string, details map[string]interface{}) {
	turn := &entity.ChatTurn{
		UserId:      userId,
		Type:        turnType,
		UserMessage: message,
		BotResponse: response,
		Details:     details,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		s.logger.Warn("chatbot", "failed to record turn", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (s *chatbotService) lockFor(userId string) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userId, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// formatTurkishDate renders "28 Ağustos 2026 Cuma".
func formatTurkishDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d %s",
		t.Day(),
		constant.AyAdlari[t.Month().String()],
		t.Year(),
		constant.GunAdlari[t.Weekday().String()],
	)
}
