package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/RichardLoRicco/expense-agent/internal/dto"
	"github.com/RichardLoRicco/expense-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVision struct {
	uploadedData []byte
	uploadedName string
	uploadedMime string
	uploadErr    error

	generateOutput string
	generateErr    error
	promptSeen     string
	fileIDSeen     string
}

func (f *fakeVision) UploadImage(_ context.Context, data []byte, filename, mimeType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploadedData = data
	f.uploadedName = filename
	f.uploadedMime = mimeType
	return "file-123", nil
}

func (f *fakeVision) GenerateWithImage(_ context.Context, fileID, prompt string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	f.fileIDSeen = fileID
	f.promptSeen = prompt
	return f.generateOutput, nil
}

func dataURI(payload []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
}

const receiptJSON = `{
	"vendor": "Starbucks",
	"vendorConfidence": 0.95,
	"totalAmount": 12.5,
	"amountConfidence": 0.9,
	"date": "2024-01-10",
	"dateConfidence": 0.85,
	"category": "food",
	"categoryConfidence": 0.8,
	"lineItems": [{"description": "latte", "amount": 5.5}],
	"rawText": "STARBUCKS latte 5.50 total 12.50"
}`

func TestParseReceiptFromDataURI(t *testing.T) {
	vision := &fakeVision{generateOutput: receiptJSON}
	svc := NewReceiptService(vision, zap.NewNop())

	receipt, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{
		Image: dataURI([]byte("png-bytes")),
	})
	require.NoError(t, err)

	assert.Equal(t, "Starbucks", receipt.Vendor)
	assert.Equal(t, 12.5, receipt.TotalAmount)
	assert.Equal(t, "2024-01-10", receipt.Date)
	assert.Equal(t, models.CategoryFood, receipt.Category)
	require.Len(t, receipt.LineItems, 1)
	assert.Equal(t, "latte", receipt.LineItems[0].Description)

	assert.Equal(t, []byte("png-bytes"), vision.uploadedData)
	assert.Equal(t, "receipt.png", vision.uploadedName)
	assert.Equal(t, "image/png", vision.uploadedMime)
	assert.Equal(t, "file-123", vision.fileIDSeen)
	assert.Contains(t, vision.promptSeen, "confidence score")
}

func TestParseReceiptToleratesMarkdownFences(t *testing.T) {
	vision := &fakeVision{generateOutput: "```json\n" + receiptJSON + "\n```"}
	svc := NewReceiptService(vision, zap.NewNop())

	receipt, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{
		Image: dataURI([]byte("x")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Starbucks", receipt.Vendor)
}

func TestParseReceiptKeepsLowConfidence(t *testing.T) {
	low := `{
		"vendor": "???",
		"vendorConfidence": 0.2,
		"totalAmount": 9.99,
		"amountConfidence": 0.3,
		"date": "",
		"dateConfidence": 0,
		"category": "other",
		"categoryConfidence": 0.4,
		"lineItems": [],
		"rawText": "blurry"
	}`
	vision := &fakeVision{generateOutput: low}
	svc := NewReceiptService(vision, zap.NewNop())

	receipt, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{
		Image: dataURI([]byte("x")),
	})
	require.NoError(t, err)

	// Low confidence passes through untouched; presentation is the
	// caller's concern.
	assert.Equal(t, 0.3, receipt.AmountConfidence)
	assert.Equal(t, 0.2, receipt.VendorConfidence)
	assert.Empty(t, receipt.Date)
}

func TestParseReceiptRejectsNonConformingOutput(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"no json", "I could not read the receipt, sorry."},
		{"unknown category", `{"vendor":"x","vendorConfidence":1,"totalAmount":1,"amountConfidence":1,"date":"","dateConfidence":0,"category":"snacks","categoryConfidence":1,"rawText":""}`},
		{"confidence out of range", `{"vendor":"x","vendorConfidence":1.5,"totalAmount":1,"amountConfidence":1,"date":"","dateConfidence":0,"category":"food","categoryConfidence":1,"rawText":""}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vision := &fakeVision{generateOutput: tc.output}
			svc := NewReceiptService(vision, zap.NewNop())

			_, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{
				Image: dataURI([]byte("x")),
			})
			require.Error(t, err)
			assert.True(t, models.IsExternalServiceError(err))
		})
	}
}

func TestParseReceiptRejectsEmptyImage(t *testing.T) {
	svc := NewReceiptService(&fakeVision{}, zap.NewNop())

	_, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{Image: "  "})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestParseReceiptWrapsUploadFailure(t *testing.T) {
	vision := &fakeVision{uploadErr: fmt.Errorf("upload rejected")}
	svc := NewReceiptService(vision, zap.NewNop())

	_, err := svc.ParseReceipt(context.Background(), dto.ParseReceiptRequest{
		Image: dataURI([]byte("x")),
	})
	require.Error(t, err)
	assert.True(t, models.IsExternalServiceError(err))
}

func TestDecodeDataURI(t *testing.T) {
	data, mime, err := decodeDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "image/jpeg", mime)

	_, _, err = decodeDataURI("data:image/jpeg,plain-not-base64")
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))

	_, _, err = decodeDataURI("data:image/jpeg;base64,!!!not-base64!!!")
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestPresentationTiers(t *testing.T) {
	assert.Equal(t, TierFact, tierFor(0.8))
	assert.Equal(t, TierFact, tierFor(1))
	assert.Equal(t, TierUncertain, tierFor(0.5))
	assert.Equal(t, TierUncertain, tierFor(0.79))
	assert.Equal(t, TierConfirm, tierFor(0.49))
	assert.Equal(t, TierConfirm, tierFor(0))

	receipt := &models.ParsedReceipt{
		VendorConfidence:   0.95,
		AmountConfidence:   0.6,
		DateConfidence:     0.2,
		CategoryConfidence: 0.8,
	}
	tiers := PresentationTiers(receipt)
	require.Len(t, tiers, 4)
	assert.Equal(t, FieldTier{Field: "vendor", Tier: TierFact}, tiers[0])
	assert.Equal(t, FieldTier{Field: "totalAmount", Tier: TierUncertain}, tiers[1])
	assert.Equal(t, FieldTier{Field: "date", Tier: TierConfirm}, tiers[2])
	assert.Equal(t, FieldTier{Field: "category", Tier: TierFact}, tiers[3])
}
