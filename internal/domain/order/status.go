package order

import "strings"

// StatusDefinition is one entry of the upstream order-status list. The
// system label is stable across stores; the custom label is the merchant's
// override.
type StatusDefinition struct {
	StatusCode  string `json:"statusCode"`
	SystemLabel string `json:"systemLabel"`
	CustomLabel string `json:"customLabel"`
}

// ResolveStatusLabel resolves a raw order status to its display label.
// The translator is keyed by system label; a missing or identity translation
// falls back to the merchant's custom label, then to the system label
// itself. An unknown status passes through unchanged.
func ResolveStatusLabel(defs []StatusDefinition, status string, translate func(string) string) string {
	for _, d := range defs {
		if !strings.EqualFold(d.SystemLabel, status) {
			continue
		}
		if translate != nil {
			if label := translate(d.SystemLabel); label != "" && label != d.SystemLabel {
				return label
			}
		}
		if d.CustomLabel != "" {
			return d.CustomLabel
		}
		return d.SystemLabel
	}
	return status
}
