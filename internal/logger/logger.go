package logger

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

var sensitiveKeys = map[string]struct{}{
	"pin":                  {},
	"password":             {},
	"channelkey":           {},
	"channel_key":          {},
	"transactionpin":       {},
	"transaction_pin":      {},
	"transactionpinhash":   {},
	"transaction_pin_hash": {},
}

func Info(message string, fields Fields) {
	log.WithFields(sanitizedFields(fields)).Info(message)
}

func Error(message string, err error, fields Fields) {
	entry := log.WithFields(sanitizedFields(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

// SanitizePayload masks sensitive keys anywhere in a JSON-marshalable payload.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizedFields(fields Fields) logrus.Fields {
	out := logrus.Fields{}
	for key, value := range fields {
		if isSensitiveKey(key) {
			out[key] = "******"
			continue
		}
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
