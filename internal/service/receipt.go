package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/models"

	"go.uber.org/zap"
)

// VisionModel is the slice of the LLM client the receipt interpreter needs.
type VisionModel interface {
	UploadImage(ctx context.Context, data []byte, filename, mimeType string) (string, error)
	GenerateWithImage(ctx context.Context, fileID, prompt string) (string, error)
}

// receiptPrompt fixes the extraction schema and the confidence rubric. The
// model must populate a confidence for every extracted field; the
// interpreter never gates on the values.
const receiptPrompt = `Extract expense details from this receipt image.

For each field, provide a confidence score from 0 to 1:
- 1.0 = completely certain, text is crystal clear
- 0.7-0.9 = fairly confident, minor ambiguity
- 0.4-0.6 = uncertain, text partially visible or blurry
- 0.0-0.3 = guessing or cannot read

Return ONLY a JSON object, no markdown, no commentary, in exactly this shape:
{
  "vendor": "store/merchant name",
  "vendorConfidence": 0.0,
  "totalAmount": 0.0,
  "amountConfidence": 0.0,
  "date": "YYYY-MM-DD or empty string if not visible",
  "dateConfidence": 0.0,
  "category": "one of: food, transport, entertainment, utilities, shopping, health, travel, subscriptions, other",
  "categoryConfidence": 0.0,
  "lineItems": [{"description": "item", "amount": 0.0}],
  "rawText": "all readable text from the receipt"
}

Rules:
- totalAmount is the final total, not the subtotal.
- Infer category from the merchant type.
- lineItems lists individual items with prices when visible, otherwise [].`

// ReceiptService converts a receipt image into a structured, confidence
// scored record via a single vision-model call. It performs no retries and
// never writes to the ledger.
type ReceiptService struct {
	vision     VisionModel
	httpClient *http.Client
	logger     *zap.Logger
}

func NewReceiptService(vision VisionModel, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		vision:     vision,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (s *ReceiptService) ParseReceipt(ctx context.Context, req dto.ParseReceiptRequest) (*models.ParsedReceipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, mimeType, err := s.loadImage(ctx, strings.TrimSpace(req.Image))
	if err != nil {
		return nil, err
	}

	fileID, err := s.vision.UploadImage(ctx, data, "receipt"+extensionFor(mimeType), mimeType)
	if err != nil {
		return nil, models.NewExternalServiceError("gigachat", err)
	}

	raw, err := s.vision.GenerateWithImage(ctx, fileID, receiptPrompt)
	if err != nil {
		return nil, models.NewExternalServiceError("gigachat", err)
	}

	receipt, err := decodeReceipt(raw)
	if err != nil {
		return nil, models.NewExternalServiceError("gigachat", err)
	}

	s.logger.Info("Receipt parsed",
		zap.String("vendor", receipt.Vendor),
		zap.Float64("total", receipt.TotalAmount),
		zap.Float64("amount_confidence", receipt.AmountConfidence),
	)
	return receipt, nil
}

// loadImage resolves the tool's image argument to raw bytes: data URIs are
// decoded locally, URLs are fetched.
func (s *ReceiptService) loadImage(ctx context.Context, image string) ([]byte, string, error) {
	if strings.HasPrefix(image, "data:") {
		return decodeDataURI(image)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, image, nil)
	if err != nil {
		return nil, "", models.NewValidationError("image", "malformed URL")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", models.NewExternalServiceError("image fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", models.NewExternalServiceError("image fetch", fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", models.NewExternalServiceError("image fetch", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

func decodeDataURI(uri string) ([]byte, string, error) {
	// data:image/jpeg;base64,<payload>
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", models.NewValidationError("image", "malformed data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", models.NewValidationError("image", "data URI must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", models.NewValidationError("image", "invalid base64 payload")
	}

	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

// decodeReceipt extracts the JSON object from the model output (tolerating
// markdown fences and surrounding prose) and checks structural conformance.
func decodeReceipt(content string) (*models.ParsedReceipt, error) {
	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("no JSON object in response: %s", content)
	}
	jsonStr := content[jsonStart : jsonEnd+1]

	var receipt models.ParsedReceipt
	if err := json.Unmarshal([]byte(jsonStr), &receipt); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := receipt.ValidateStructure(); err != nil {
		return nil, fmt.Errorf("non-conforming receipt: %w", err)
	}
	if receipt.LineItems == nil {
		receipt.LineItems = []models.ReceiptLineItem{}
	}
	return &receipt, nil
}

// PresentationTier classifies how the orchestrator should present one
// extracted field, per the confidence-gated policy. This is advisory for
// reply composition; the interpreter itself never rejects on confidence.
type PresentationTier string

const (
	TierFact      PresentationTier = "fact"      // confidence >= 0.8
	TierUncertain PresentationTier = "uncertain" // 0.5 <= confidence < 0.8
	TierConfirm   PresentationTier = "confirm"   // confidence < 0.5, verify with the user
)

type FieldTier struct {
	Field string
	Tier  PresentationTier
}

func tierFor(confidence float64) PresentationTier {
	switch {
	case confidence >= 0.8:
		return TierFact
	case confidence >= 0.5:
		return TierUncertain
	default:
		return TierConfirm
	}
}

// PresentationTiers maps each extracted field of a receipt to its
// presentation tier.
func PresentationTiers(r *models.ParsedReceipt) []FieldTier {
	return []FieldTier{
		{Field: "vendor", Tier: tierFor(r.VendorConfidence)},
		{Field: "totalAmount", Tier: tierFor(r.AmountConfidence)},
		{Field: "date", Tier: tierFor(r.DateConfidence)},
		{Field: "category", Tier: tierFor(r.CategoryConfidence)},
	}
}
