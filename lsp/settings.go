package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/rlch/inlay"
)

// settingsPatch is a partial update of inlay.Settings. Absent fields keep
// their current value.
type settingsPatch struct {
	TypeHints              *bool   `json:"typeHints"`
	ChainingHints          *bool   `json:"chainingHints"`
	TypeHintsSeparator     *string `json:"typeHintsSeparator"`
	ChainingHintsSeparator *string `json:"chainingHintsSeparator"`
	RefreshOnInsertMode    *bool   `json:"refreshOnInsertMode"`
}

// configurationPayload is the settings object of
// workspace/didChangeConfiguration.
type configurationPayload struct {
	InlayHints *settingsPatch `json:"inlayHints"`
}

func (p *settingsPatch) apply(s inlay.Settings) inlay.Settings {
	if p.TypeHints != nil {
		s.TypeHints = *p.TypeHints
	}

	if p.ChainingHints != nil {
		s.ChainingHints = *p.ChainingHints
	}

	if p.TypeHintsSeparator != nil {
		s.TypeHintsSeparator = *p.TypeHintsSeparator
	}

	if p.ChainingHintsSeparator != nil {
		s.ChainingHintsSeparator = *p.ChainingHintsSeparator
	}

	if p.RefreshOnInsertMode != nil {
		s.RefreshOnInsertMode = *p.RefreshOnInsertMode
	}

	return s
}

// parseSettings extracts the inlayHints section. It returns nil when the
// payload carries none.
func parseSettings(raw any) (*settingsPatch, error) {
	var payload configurationPayload
	err := decodeParams(raw, &payload)
	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	return payload.InlayHints, nil
}

// decodeParams converts loosely decoded JSON params into v.
func decodeParams(params, v any) error {
	if params == nil {
		return nil
	}

	data, err := json.Marshal(params)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}
