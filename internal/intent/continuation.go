package intent

import (
	"regexp"
	"strings"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Action is the continuation decision for an active process.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionModify  Action = "modify"
	ActionInput   Action = "input"
)

// Continuation is the result of matching a message against an active context.
// Continue false means the caller should try a fresh Detect in case the user
// switched topics.
type Continuation struct {
	Continue      bool
	Action        Action
	Modifications map[string]string
}

var affirmatives = map[string]bool{
	"sí": true, "si": true, "yes": true, "ok": true, "dale": true,
	"claro": true, "confirmar": true, "confirmo": true, "correcto": true,
	"de acuerdo": true, "vale": true,
}

var negatives = map[string]bool{
	"no": true, "nope": true, "negativo": true,
}

var cancellations = map[string]bool{
	"cancelar": true, "cancela": true, "cancel": true,
	"olvídalo": true, "olvidalo": true, "déjalo": true, "dejalo": true,
}

// modifyPattern recognizes "cambia <slot> a <valor>" and the English
// "change <slot> to <value>".
var modifyPattern = regexp.MustCompile(`(?i)\b(?:cambia(?:r)?|change)\s+(?:el\s+|la\s+)?([\p{L}\d_]+)\s+(?:a|to|por)\s+(.+)$`)

// normalize strips surrounding punctuation and lowercases for the short-reply
// lookups.
func normalize(message string) string {
	s := strings.ToLower(strings.TrimSpace(message))
	return strings.Trim(s, "¿?¡!.,;: ")
}

// IsAffirmative reports whether the text is a short positive reply.
func IsAffirmative(message string) bool {
	return affirmatives[normalize(message)]
}

// IsCancellation reports whether the text explicitly asks to abort.
func IsCancellation(message string) bool {
	return cancellations[normalize(message)]
}

// ShouldContinue decides whether the message continues the active process and
// with which action. Only non-terminal awaiting contexts produce
// continuations; anything else returns Continue false.
func (d *Detector) ShouldContinue(message string, pctx *domain.ProcessContext) Continuation {
	if pctx == nil || pctx.Status.Terminal() {
		return Continuation{}
	}

	norm := normalize(message)

	if cancellations[norm] {
		return Continuation{Continue: true, Action: ActionCancel}
	}

	if pctx.AwaitingConfirmation {
		if affirmatives[norm] {
			return Continuation{Continue: true, Action: ActionConfirm}
		}
		if negatives[norm] {
			return Continuation{Continue: true, Action: ActionCancel}
		}
		if m := modifyPattern.FindStringSubmatch(strings.TrimSpace(message)); m != nil {
			return Continuation{
				Continue:      true,
				Action:        ActionModify,
				Modifications: map[string]string{m[1]: strings.TrimSpace(m[2])},
			}
		}
		return Continuation{}
	}

	if pctx.AwaitingInput {
		// The raw message is the answer to the pending slot prompt.
		return Continuation{Continue: true, Action: ActionInput}
	}

	return Continuation{}
}
