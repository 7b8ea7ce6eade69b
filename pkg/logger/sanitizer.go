package logger

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Sensitive field patterns to filter from logs
var (
	codePattern   = regexp.MustCompile(`(?i)("?code"?)[\s:=]+"?[A-Za-z0-9_-]+"?`)
	tokenPattern  = regexp.MustCompile(`(?i)(token|jwt|bearer|authorization)[\s:=]+(?:bearer\s+)?[^\s,"]+`)
	secretPattern = regexp.MustCompile(`(?i)(secret|private[_-]?key|admin[_-]?key)[\s:=]+[^\s]+`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"code",
	"token", "jwt", "bearer", "authorization", "cookie",
	"secret", "private_key", "private-key",
	"admin_key", "admin-key", "x-admin-key",
	"password",
}

// SanitizeLogMessage removes sensitive information from log messages
func SanitizeLogMessage(message string) string {
	message = codePattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if IsSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}

// Redacted logs the presence of a sensitive value without its contents.
func Redacted(key string) zap.Field {
	return zap.String(key, redactedPlaceholder)
}

// SafeError logs err with sensitive fragments scrubbed from its message.
func SafeError(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", SanitizeLogMessage(err.Error()))
}
