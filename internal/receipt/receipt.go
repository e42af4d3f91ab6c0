package receipt

import "encoding/json"

// Receipt represents a receipt record as the backend reports it. Only the ID
// is reliable; every other field fills in as the backend extracts data, so
// consumers must tolerate absence.
type Receipt struct {
	ID          string     `json:"id"`
	Merchant    string     `json:"merchant_name,omitempty"`
	Date        string     `json:"date,omitempty"`
	TotalAmount *float64   `json:"total_amount,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Filename    string     `json:"original_filename,omitempty"`
	UploadedAt  string     `json:"uploaded_at,omitempty"`
	Status      string     `json:"status,omitempty"`
	Items       []LineItem `json:"items,omitempty"`
}

// LineItem represents a single line on a receipt. All fields are optional.
type LineItem struct {
	Description string   `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// receiptAliases mirrors Receipt with every key name the backend has used
// across schema iterations. The canonical key wins when both are present.
type receiptAliases struct {
	ID           string     `json:"id"`
	AltID        string     `json:"_id"`
	Merchant     string     `json:"merchant_name"`
	AltMerchant  string     `json:"merchant"`
	Date         string     `json:"date"`
	AltDate      string     `json:"receipt_date"`
	TotalAmount  *float64   `json:"total_amount"`
	AltAmount    *float64   `json:"amount"`
	Currency     string     `json:"currency"`
	Filename     string     `json:"original_filename"`
	AltFilename  string     `json:"filename"`
	UploadedAt   string     `json:"uploaded_at"`
	CreatedAt    string     `json:"created_at"`
	AltCreatedAt string     `json:"createdAt"`
	Status       string     `json:"status"`
	AltStatus    string     `json:"processing_status"`
	Items        []LineItem `json:"items"`
	AltItems     []LineItem `json:"line_items"`
}

// UnmarshalJSON accepts both the current and the legacy key names the
// backend has emitted for receipt fields.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var raw receiptAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = firstString(raw.ID, raw.AltID)
	r.Merchant = firstString(raw.Merchant, raw.AltMerchant)
	r.Date = firstString(raw.Date, raw.AltDate)
	r.TotalAmount = firstNumber(raw.TotalAmount, raw.AltAmount)
	r.Currency = raw.Currency
	r.Filename = firstString(raw.Filename, raw.AltFilename)
	r.UploadedAt = firstString(raw.UploadedAt, raw.CreatedAt, raw.AltCreatedAt)
	r.Status = firstString(raw.Status, raw.AltStatus)
	r.Items = raw.Items
	if r.Items == nil {
		r.Items = raw.AltItems
	}
	return nil
}

type lineItemAliases struct {
	Description    string   `json:"description"`
	AltDescription string   `json:"name"`
	Quantity       *float64 `json:"quantity"`
	AltQuantity    *float64 `json:"qty"`
	UnitPrice      *float64 `json:"unit_price"`
	AltUnitPrice   *float64 `json:"price"`
	Amount         *float64 `json:"amount"`
	AltAmount      *float64 `json:"total"`
}

// UnmarshalJSON accepts both key-name variants for every line-item field.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	li.Description = firstString(raw.Description, raw.AltDescription)
	li.Quantity = firstNumber(raw.Quantity, raw.AltQuantity)
	li.UnitPrice = firstNumber(raw.UnitPrice, raw.AltUnitPrice)
	li.Amount = firstNumber(raw.Amount, raw.AltAmount)
	return nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNumber(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
