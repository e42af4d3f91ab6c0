package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lakshman12791/receipt-console/internal/receipt"
)

// One method per backend operation. Each builds the request, issues it
// through the shared client, and decodes the response; any shape
// normalization beyond envelope unwrapping is left to the caller.

// ValidationResult is the backend's verdict on a receipt's validity.
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// UnmarshalJSON tolerates the older bare "valid" key alongside "isValid".
func (v *ValidationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		IsValid  *bool  `json:"isValid"`
		AltValid *bool  `json:"valid"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.IsValid != nil:
		v.IsValid = *raw.IsValid
	case raw.AltValid != nil:
		v.IsValid = *raw.AltValid
	}
	v.Message = raw.Message
	return nil
}

// ExtractedFields carries the structured data the backend pulled out of a
// processed receipt.
type ExtractedFields struct {
	MerchantName string   `json:"merchant_name"`
	ReceiptDate  string   `json:"receipt_date"`
	Amount       *float64 `json:"amount"`
}

// ProcessingResult is the backend's answer to a process request.
type ProcessingResult struct {
	IsProcessed bool             `json:"isProcessed"`
	Message     string           `json:"message"`
	Result      *ExtractedFields `json:"result,omitempty"`
}

// UnmarshalJSON tolerates the older bare "processed" key alongside
// "isProcessed".
func (p *ProcessingResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		IsProcessed  *bool            `json:"isProcessed"`
		AltProcessed *bool            `json:"processed"`
		Message      string           `json:"message"`
		Result       *ExtractedFields `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.IsProcessed != nil:
		p.IsProcessed = *raw.IsProcessed
	case raw.AltProcessed != nil:
		p.IsProcessed = *raw.AltProcessed
	}
	p.Message = raw.Message
	p.Result = raw.Result
	return nil
}

// ListReceipts fetches the receipt list, optionally filtered server-side by
// the q query parameter.
func (c *Client) ListReceipts(ctx context.Context, query string) ([]receipt.Receipt, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	body, err := c.get(ctx, "/receipts", params)
	if err != nil {
		return nil, err
	}
	return receipt.UnwrapList(body)
}

// UploadReceipt uploads a receipt file and returns the created record.
func (c *Client) UploadReceipt(ctx context.Context, filename string, data []byte) (receipt.Receipt, error) {
	body, err := c.postMultipart(ctx, "/receipts/upload", filename, data)
	if err != nil {
		return receipt.Receipt{}, err
	}
	return receipt.UnwrapRecord(body)
}

// ValidateReceipt submits a receipt file for validation.
func (c *Client) ValidateReceipt(ctx context.Context, filename string, data []byte) (ValidationResult, error) {
	body, err := c.postMultipart(ctx, "/receipts/validate", filename, data)
	if err != nil {
		return ValidationResult{}, err
	}
	return decodeValidation(body)
}

// ValidateReceiptByID asks the backend to validate an already-uploaded
// receipt.
func (c *Client) ValidateReceiptByID(ctx context.Context, id string) (ValidationResult, error) {
	body, err := c.postJSON(ctx, "/receipts/"+url.PathEscape(id)+"/validate", nil)
	if err != nil {
		return ValidationResult{}, err
	}
	return decodeValidation(body)
}

// ProcessReceipt submits a receipt file for full processing.
func (c *Client) ProcessReceipt(ctx context.Context, filename string, data []byte) (ProcessingResult, error) {
	body, err := c.postMultipart(ctx, "/receipts/process", filename, data)
	if err != nil {
		return ProcessingResult{}, err
	}
	return decodeProcessing(body)
}

// ProcessReceiptByID asks the backend to process an already-uploaded
// receipt.
func (c *Client) ProcessReceiptByID(ctx context.Context, id string) (ProcessingResult, error) {
	body, err := c.postJSON(ctx, "/receipts/"+url.PathEscape(id)+"/process", nil)
	if err != nil {
		return ProcessingResult{}, err
	}
	return decodeProcessing(body)
}

// GetReceipt fetches one receipt with its line items.
func (c *Client) GetReceipt(ctx context.Context, id string) (receipt.Receipt, error) {
	body, err := c.get(ctx, "/receipts/"+url.PathEscape(id), nil)
	if err != nil {
		return receipt.Receipt{}, err
	}
	return receipt.UnwrapDetail(body)
}

// DeleteReceipt removes a receipt.
func (c *Client) DeleteReceipt(ctx context.Context, id string) error {
	return c.delete(ctx, "/receipts/"+url.PathEscape(id))
}

// FileURL returns the direct link to a receipt's original file. The link is
// shown to the user for opening in a browser, never fetched by the client.
func (c *Client) FileURL(id string) string {
	return c.baseURL + "/receipts/" + url.PathEscape(id) + "/file"
}

func decodeValidation(body []byte) (ValidationResult, error) {
	var result ValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ValidationResult{}, fmt.Errorf("decoding validation result: %w", err)
	}
	return result, nil
}

func decodeProcessing(body []byte) (ProcessingResult, error) {
	var result ProcessingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ProcessingResult{}, fmt.Errorf("decoding processing result: %w", err)
	}
	return result, nil
}
