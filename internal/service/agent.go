package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/models"
	"github.com/RichardLoRicco/expense-agent/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator is the slice of the LLM client the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, messages []gigago.Message) (string, error)
}

// AgentService runs the conversational loop: the model decides between
// answering the user and calling one of the typed tool operations, per the
// JSON protocol in the system instruction. Tool results are fed back into
// the conversation until the model produces a reply or the turn budget runs
// out. Sessions are in-memory with a bounded history.
type AgentService struct {
	llm     Generator
	ledger  *LedgerService
	budget  *BudgetService
	receipt *ReceiptService
	logger  *zap.Logger

	maxToolTurns int
	historySize  int

	mu       sync.Mutex
	sessions map[string][]gigago.Message
}

func NewAgentService(
	llm Generator,
	ledger *LedgerService,
	budget *BudgetService,
	receipt *ReceiptService,
	cfg *config.AgentConfig,
	logger *zap.Logger,
) *AgentService {
	return &AgentService{
		llm:          llm,
		ledger:       ledger,
		budget:       budget,
		receipt:      receipt,
		logger:       logger,
		maxToolTurns: cfg.MaxToolTurns,
		historySize:  cfg.HistorySize,
		sessions:     make(map[string][]gigago.Message),
	}
}

// decision is one parsed model turn: either a tool call or a direct reply.
type decision struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
	Reply string          `json:"reply"`
}

func (s *AgentService) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history := append(s.loadHistory(sessionID), gigago.Message{
		Role:    gigago.RoleUser,
		Content: req.Message,
	})

	for turn := 0; turn <= s.maxToolTurns; turn++ {
		out, err := s.llm.Generate(ctx, history)
		if err != nil {
			return nil, models.NewExternalServiceError("gigachat", err)
		}
		history = append(history, gigago.Message{Role: gigago.RoleAssistant, Content: out})

		dec, ok := parseDecision(out)
		if !ok {
			// The model ignored the protocol; pass its text through as the
			// reply rather than failing the conversation.
			s.saveHistory(sessionID, history)
			return &dto.ChatResponse{SessionID: sessionID, Reply: out}, nil
		}

		if dec.Tool == "" {
			s.saveHistory(sessionID, history)
			return &dto.ChatResponse{SessionID: sessionID, Reply: dec.Reply}, nil
		}

		result := s.dispatch(ctx, dec.Tool, dec.Input)
		s.logger.Debug("Tool dispatched",
			zap.String("session_id", sessionID),
			zap.String("tool", dec.Tool),
		)
		history = append(history, gigago.Message{
			Role:    gigago.RoleUser,
			Content: fmt.Sprintf("Tool %s result: %s", dec.Tool, result),
		})
	}

	return nil, models.NewExternalServiceError("agent", fmt.Errorf("tool turn limit reached without a reply"))
}

// dispatch routes one tool call to its operation and returns the result as
// JSON. Failures come back as {"error": ...} so the model can correct
// itself on the next turn.
func (s *AgentService) dispatch(ctx context.Context, tool string, input json.RawMessage) string {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	var (
		result any
		err    error
	)
	switch tool {
	case "add-expense":
		var req dto.AddExpenseRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.ledger.AddExpense(ctx, req)
		}
	case "get-expenses":
		var req dto.GetExpensesRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.ledger.GetExpenses(ctx, req)
		}
	case "get-summary":
		var req dto.GetSummaryRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.ledger.GetSummary(ctx, req)
		}
	case "set-budget":
		var req dto.SetBudgetRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.budget.SetBudget(ctx, req)
		}
	case "check-budget":
		var req dto.CheckBudgetRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.budget.CheckBudget(ctx, req)
		}
	case "parse-receipt":
		var req dto.ParseReceiptRequest
		if err = json.Unmarshal(input, &req); err == nil {
			result, err = s.receipt.ParseReceipt(ctx, req)
		}
	default:
		err = fmt.Errorf("unknown tool: %s", tool)
	}

	if err != nil {
		s.logger.Warn("Tool call failed", zap.String("tool", tool), zap.Error(err))
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return `{"error": "failed to encode tool result"}`
	}
	return string(payload)
}

// parseDecision extracts the protocol JSON object from a model turn,
// tolerating markdown fences and surrounding prose.
func parseDecision(content string) (decision, bool) {
	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return decision{}, false
	}

	var dec decision
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd+1]), &dec); err != nil {
		return decision{}, false
	}
	if dec.Tool == "" && dec.Reply == "" {
		return decision{}, false
	}
	return dec, true
}

func (s *AgentService) loadHistory(sessionID string) []gigago.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gigago.Message(nil), s.sessions[sessionID]...)
}

func (s *AgentService) saveHistory(sessionID string, history []gigago.Message) {
	if len(history) > s.historySize {
		history = history[len(history)-s.historySize:]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = history
}
