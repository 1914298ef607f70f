package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entity keys produced by ExtractEntities.
const (
	EntityDate   = "date"
	EntityNumber = "number"
	EntityName   = "name"
)

var (
	slashDate  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	isoDate    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	quotedName = regexp.MustCompile(`["'“”']([^"'“”']+)["'“”']`)
	bareNumber = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)
)

// ExtractEntities is a pure, best-effort scan for structured values in free
// text: dates (dd/mm/yyyy, ISO, "hoy"/"mañana"), bare numbers and quoted
// names. It does not depend on any process definition.
func ExtractEntities(message string) map[string]any {
	entities := make(map[string]any)
	lowered := strings.ToLower(message)

	if m := slashDate.FindStringSubmatch(message); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			entities[EntityDate] = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	} else if m := isoDate.FindStringSubmatch(message); m != nil {
		if t, err := time.Parse("2006-01-02", m[0]); err == nil {
			entities[EntityDate] = t
		}
	} else if strings.Contains(lowered, "mañana") || strings.Contains(lowered, "tomorrow") {
		entities[EntityDate] = startOfDay(time.Now().AddDate(0, 0, 1))
	} else if strings.Contains(lowered, "hoy") || strings.Contains(lowered, "today") {
		entities[EntityDate] = startOfDay(time.Now())
	}

	if m := quotedName.FindStringSubmatch(message); m != nil {
		entities[EntityName] = strings.TrimSpace(m[1])
	}

	// Skip numbers that are part of an already-captured date.
	stripped := slashDate.ReplaceAllString(message, "")
	stripped = isoDate.ReplaceAllString(stripped, "")
	if m := bareNumber.FindString(stripped); m != "" {
		if n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64); err == nil {
			entities[EntityNumber] = n
		}
	}

	return entities
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
