package asset

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransferPayload is the flat descriptor used when an asset is dragged onto
// a canvas. The wire format is a single unversioned JSON object.
type TransferPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      Type    `json:"type"`
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}

// NewTransferPayload builds a drag/drop descriptor from an asset.
func NewTransferPayload(a *Asset) TransferPayload {
	payload := TransferPayload{
		ID:   a.ID,
		Name: a.Name,
		Type: a.Type,
		URL:  a.Src,
	}
	if thumb, ok := a.Meta["thumbnail"].(string); ok {
		payload.Thumbnail = thumb
	}
	if duration, ok := a.Meta["duration"].(float64); ok {
		payload.Duration = duration
	}
	return payload
}

// Encode serializes the payload for a drag/drop transfer.
func (p TransferPayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// DecodeTransferPayload parses a dropped descriptor, rejecting payloads
// without an id or with an unknown asset type.
func DecodeTransferPayload(data []byte) (TransferPayload, error) {
	var payload TransferPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return TransferPayload{}, fmt.Errorf("decode transfer payload: %w", err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return TransferPayload{}, fmt.Errorf("transfer payload missing id")
	}
	if payload.Type == "" {
		payload.Type = TypeImage
	}
	if !ValidType(payload.Type) {
		return TransferPayload{}, fmt.Errorf("transfer payload has unknown type %q", payload.Type)
	}
	return payload, nil
}
