package domain

import "strings"

// SecretRef identifies a secret held by the secret store.
type SecretRef struct {
	Name string `json:"name"`
	ARN  string `json:"arn,omitempty"`
}

// Secret is a named set of credential fields owned by the secret store.
// Field values are never serialized into responses.
type Secret struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Fields      map[string]string `json:"-"`
}

// MissingFields returns the required keys that are absent or empty in fields,
// in the order they were requested.
func MissingFields(fields map[string]string, required ...string) []string {
	var missing []string
	for _, key := range required {
		if strings.TrimSpace(fields[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// RequireFields returns a client error listing every missing required field.
func RequireFields(fields map[string]string, required ...string) error {
	if missing := MissingFields(fields, required...); len(missing) > 0 {
		return MissingFieldsError(missing)
	}
	return nil
}

// MergeFields returns a copy of base with updates applied on top.
func MergeFields(base, updates map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(updates))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}

// Masking widths used for credential previews.
const (
	MaskKeyWidth   = 4
	MaskTokenWidth = 10
)

// MaskSecret shows the first and last n characters of value with the middle
// redacted. Values of at most 2n characters are fully redacted.
func MaskSecret(value string, n int) string {
	if value == "" {
		return ""
	}
	if n <= 0 || len(value) <= 2*n {
		return "****"
	}
	return value[:n] + "..." + value[len(value)-n:]
}

// Redact replaces every value in fields with a fixed-width masked preview.
func Redact(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = MaskSecret(v, MaskKeyWidth)
	}
	return out
}
