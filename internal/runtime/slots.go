package runtime

import (
	"strconv"
	"strings"
	"time"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

var affirmativeValues = map[string]bool{
	"sí": true, "si": true, "yes": true, "true": true, "1": true,
	"ok": true, "verdadero": true,
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
}

// ParseSlotValue converts raw user text to the slot's declared type.
// Numbers default to 0 on parse failure; unparseable dates fall back to the
// raw text so validate steps can reject them with a readable message.
func ParseSlotValue(t domain.SlotType, raw string) any {
	text := strings.TrimSpace(raw)
	switch t {
	case domain.SlotNumber:
		n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil {
			return float64(0)
		}
		return n
	case domain.SlotBoolean:
		return affirmativeValues[strings.ToLower(text)]
	case domain.SlotArray:
		parts := strings.Split(text, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case domain.SlotDate:
		return parseDate(text)
	default:
		return text
	}
}

func parseDate(text string) any {
	lowered := strings.ToLower(text)
	now := time.Now()
	switch lowered {
	case "hoy", "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case "mañana", "tomorrow":
		t := now.AddDate(0, 0, 1)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return text
}

// seedSlots pre-populates a fresh context from extracted entities, trigger
// data and slot defaults. Extracted values match either by slot name or by
// entity kind for date and number slots.
func seedSlots(def *domain.ProcessDefinition, pctx *domain.ProcessContext, extracted map[string]any) {
	for i := range def.Slots {
		slot := &def.Slots[i]

		if v, ok := extracted[slot.Name]; ok && v != nil {
			pctx.Slots[slot.Name] = v
			continue
		}
		if slot.Type == domain.SlotDate {
			if v, ok := extracted["date"]; ok {
				pctx.Slots[slot.Name] = v
				continue
			}
		}
		if slot.Type == domain.SlotNumber {
			if v, ok := extracted["number"]; ok {
				pctx.Slots[slot.Name] = v
				continue
			}
		}
		if slot.ExtractFrom == domain.SourceDefault && slot.DefaultValue != nil {
			pctx.Slots[slot.Name] = slot.DefaultValue
		}
	}
}

// resolveFromContext maps context-sourced slots to the pass-through identity.
func resolveFromContext(slot *domain.ProcessSlot, pctx *domain.ProcessContext) (any, bool) {
	switch strings.ToLower(slot.Name) {
	case "userid", "user_id":
		return pctx.User.UserID, pctx.User.UserID != ""
	case "username", "user_name", "name":
		return pctx.User.Name, pctx.User.Name != ""
	case "role":
		return pctx.User.Role, pctx.User.Role != ""
	case "timezone":
		return pctx.User.Timezone, pctx.User.Timezone != ""
	}
	return nil, false
}
