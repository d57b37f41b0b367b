package form

import (
	"html"
	"strings"
)

const (
	MessageFormInvalid   = "Invalid form. Check the highlighted fields."
	MessageConnection    = "⚠️ Could not connect to the server."
	MessageUnknownError  = "Unknown error."
	messageSuccessPrefix = "✅ Subscription successful.<br><br><strong>Response:</strong><br>"
	messageFailurePrefix = "❌ Subscription failed.<br><br><strong>Details:</strong><br>"
)

func successMessage(raw []byte) string {
	return messageSuccessPrefix + html.EscapeString(string(raw))
}

func failureMessage(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = MessageUnknownError
	}
	return messageFailurePrefix + html.EscapeString(detail)
}
