package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend has shipped both bare payloads and wrapped ones for the same
// operations. These helpers accept either shape so the UI never has to care.

// UnwrapList decodes a list response: either a bare JSON array of receipts
// or a {"receiptsArray": [...]} wrapper.
func UnwrapList(data []byte) ([]Receipt, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Receipt{}, nil
	}

	if trimmed[0] == '[' {
		var receipts []Receipt
		if err := json.Unmarshal(trimmed, &receipts); err != nil {
			return nil, fmt.Errorf("decoding receipt list: %w", err)
		}
		return receipts, nil
	}

	var wrapped struct {
		Receipts []Receipt `json:"receiptsArray"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding receipt list envelope: %w", err)
	}
	if wrapped.Receipts == nil {
		return nil, fmt.Errorf("unrecognized receipt list envelope")
	}
	return wrapped.Receipts, nil
}

// UnwrapDetail decodes a get-detail response: either the bare record or a
// {"receiptDetails": {...}} wrapper.
func UnwrapDetail(data []byte) (Receipt, error) {
	var wrapped struct {
		Details *Receipt `json:"receiptDetails"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Details != nil {
		return *wrapped.Details, nil
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("decoding receipt detail: %w", err)
	}
	return r, nil
}

// UnwrapRecord decodes a single created/returned record: either bare or a
// {"receipt": {...}} wrapper.
func UnwrapRecord(data []byte) (Receipt, error) {
	var wrapped struct {
		Record *Receipt `json:"receipt"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Record != nil {
		return *wrapped.Record, nil
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("decoding receipt record: %w", err)
	}
	return r, nil
}
