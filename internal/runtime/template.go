package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// Render interpolates "{name}" placeholders against the context's slots, then
// its tool results. Unknown names are left untouched so typos stay visible in
// definition tests.
func Render(text string, pctx *domain.ProcessContext) string {
	return placeholder.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		if v, ok := pctx.Slots[name]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
		if v, ok := pctx.ToolResults[name]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
		return token
	})
}

// SubstituteArgs resolves "$slotName" values inside a literal argument map.
// A value that is exactly "$name" is replaced by the slot value preserving
// its type; string values merely containing "$name" tokens get textual
// substitution. Non-string values pass through.
func SubstituteArgs(args map[string]any, pctx *domain.ProcessContext) map[string]any {
	resolved := make(map[string]any, len(args))
	for k, v := range args {
		s, isStr := v.(string)
		if !isStr {
			resolved[k] = v
			continue
		}
		if name, ok := strings.CutPrefix(s, "$"); ok && !strings.ContainsAny(name, " $") {
			if val, exists := pctx.Slots[name]; exists {
				resolved[k] = val
				continue
			}
		}
		resolved[k] = substituteInline(s, pctx)
	}
	return resolved
}

var inlineRef = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

func substituteInline(s string, pctx *domain.ProcessContext) string {
	return inlineRef.ReplaceAllStringFunc(s, func(token string) string {
		if v, ok := pctx.Slots[token[1:]]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
		return token
	})
}
