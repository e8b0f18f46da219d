package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/RichardLoRicco/expense-agent/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	gigaChatBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	gigaChatOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
)

// LLMService wraps the GigaChat client. Text generation goes through the
// gigago SDK; file upload and vision completions use the REST API directly
// with an OAuth access token, since the SDK has no attachment support.
type LLMService struct {
	client      *gigago.Client
	model       *gigago.GenerativeModel
	config      *config.GigaChatConfig
	logger      *zap.Logger
	httpClient  *http.Client
	accessToken string
}

// buildSystemInstruction is the standing instruction for the expense
// assistant. The tool-call protocol it describes is what AgentService parses.
func buildSystemInstruction() string {
	return `You are a personal expense management assistant. You help users track spending, manage budgets, and understand their financial habits.

# RESPONSE PROTOCOL

Every reply MUST be a single JSON object, nothing before or after it. Two forms are allowed:

1. Call a tool:
{"tool": "<tool-name>", "input": { ...tool input fields... }}

2. Answer the user directly:
{"reply": "<your message to the user>"}

After you call a tool, you receive its JSON result as the next message. Use it to decide the next tool call or to compose the final reply.

# TOOLS

- "add-expense": record an expense. Input: amount (positive number, dollars), vendor (string), description (string), category (one of: food, transport, entertainment, utilities, shopping, health, travel, subscriptions, other), expenseDate (optional, YYYY-MM-DD, defaults to today). Use when the user mentions spending money or after they confirm parsed receipt data.
- "get-expenses": query expense history. Input (all optional): category, vendor (partial match), startDate, endDate (YYYY-MM-DD), minAmount, maxAmount.
- "get-summary": spending breakdown. Input: period (week, month, or year), groupBy (category or vendor). Use for "where does my money go" questions.
- "set-budget": create or update a spending limit. Input: category, amountLimit (positive number), period (weekly or monthly). Each category has at most one budget.
- "check-budget": budget status vs. limits. Input: category (optional; omit to check all budgets).
- "parse-receipt": extract expense details from a receipt image. Input: image (URL or base64 data URI). Returns fields with confidence scores.

# BEHAVIOR

When processing receipt images:
1. Call parse-receipt, then review the confidence scores.
2. Confidence >= 0.8: present the field as fact. 0.5-0.8: mention you are somewhat unsure. Below 0.5: explicitly flag it and ask the user to verify.
3. Show what you extracted and wait for user confirmation before calling add-expense.
4. If every confidence is very low, ask for a clearer image or manual entry.

When adding expenses:
- Infer the category from the vendor or description when not given. Restaurants, coffee shops, groceries: food. Uber, gas stations, parking: transport. Netflix, Spotify, gym memberships: subscriptions. Amazon, clothing: shopping. Pharmacies, doctors: health.
- Confirm what you logged after adding.

When reporting:
- Format dollar amounts as $X.XX, include percentages in breakdowns, and proactively point out over-budget categories.

Tone: friendly and concise. Treat the user's financial data with care.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.3

	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	accessToken, err := getAccessToken(ctx, cfg, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	return &LLMService{
		client:      client,
		model:       model,
		config:      cfg,
		logger:      logger,
		httpClient:  httpClient,
		accessToken: accessToken,
	}, nil
}

// getAccessToken obtains an OAuth token for direct REST calls (file upload,
// vision). The API key is expected to be Base64-encoded already.
func getAccessToken(ctx context.Context, cfg *config.GigaChatConfig, httpClient *http.Client, logger *zap.Logger) (string, error) {
	formData := url.Values{}
	formData.Set("scope", cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gigaChatOAuthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+cfg.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	return oauthResp.AccessToken, nil
}

// Generate runs one text completion over the conversation. The system
// instruction is attached by the model.
func (s *LLMService) Generate(ctx context.Context, messages []gigago.Message) (string, error) {
	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// UploadImage uploads image bytes to GigaChat and returns the file ID for
// use as a vision attachment. Retries once with a fresh token on 401.
func (s *LLMService) UploadImage(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	fileID, unauthorized, err := s.uploadImageOnce(ctx, data, filename, mimeType)
	if unauthorized {
		token, refreshErr := getAccessToken(ctx, s.config, s.httpClient, s.logger)
		if refreshErr != nil {
			return "", fmt.Errorf("upload failed with 401, token refresh also failed: %w", refreshErr)
		}
		s.accessToken = token
		fileID, _, err = s.uploadImageOnce(ctx, data, filename, mimeType)
	}
	if err != nil {
		return "", err
	}

	s.logger.Info("File uploaded to GigaChat", zap.String("file_id", fileID))
	return fileID, nil
}

// uploadImageOnce performs a single upload attempt; unauthorized reports a
// 401 so the caller can refresh the token and retry.
func (s *LLMService) uploadImageOnce(ctx context.Context, data []byte, filename, mimeType string) (fileID string, unauthorized bool, err error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// "general" purpose makes the file usable as a vision attachment.
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", false, fmt.Errorf("failed to write purpose field: %w", err)
	}

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {mimeType},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", false, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", false, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gigaChatBaseURL+"/files", &body)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", true, fmt.Errorf("upload unauthorized: %s", string(bodyBytes))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", false, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}

	return uploadResp.ID, false, nil
}

// GenerateWithImage runs one vision completion over an uploaded file.
// Attachments use the documented [["file_id"]] shape.
func (s *LLMService) GenerateWithImage(ctx context.Context, fileID, prompt string) (string, error) {
	requestBody := map[string]any{
		"model": s.config.Model,
		"messages": []map[string]any{
			{
				"role":        "user",
				"content":     prompt,
				"attachments": [][]string{{fileID}},
			},
		},
		"temperature": 0.3,
		"stream":      false,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gigaChatBaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("vision API failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var visionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&visionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(visionResp.Choices) == 0 {
		return "", fmt.Errorf("no response from Vision API")
	}

	text := strings.TrimSpace(visionResp.Choices[0].Message.Content)

	s.logger.Info("Vision completion finished",
		zap.String("file_id", fileID),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
