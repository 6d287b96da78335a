package middleware

import (
	"strings"
	"testing"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		fullPath   string
		method     string
		wantModule string
		wantAction string
	}{
		{"/api/llm-configs/:id", "PUT", "llm_configs", "update"},
		{"/api/llm-configs", "POST", "llm_configs", "create"},
		{"/api/comments/:id", "DELETE", "comments", "delete"},
		{"/api/system/scheduler", "PUT", "system", "update"},
		{"/api/", "POST", "unknown", "create"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.fullPath, tt.method)
		if module != tt.wantModule || action != tt.wantAction {
			t.Errorf("parseRouteInfo(%q, %q) = (%q, %q), want (%q, %q)",
				tt.fullPath, tt.method, module, action, tt.wantModule, tt.wantAction)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"name":"openai","api_key":"sk-verysecret","model":"gpt-4o-mini"}`
	masked := maskSensitiveFields(body)

	if strings.Contains(masked, "sk-verysecret") {
		t.Errorf("api_key value should be masked, got %q", masked)
	}
	if !strings.Contains(masked, "gpt-4o-mini") {
		t.Errorf("non-sensitive values should survive masking, got %q", masked)
	}
}

func TestMaskSensitiveFields_NoSensitiveKeys(t *testing.T) {
	body := `{"enabled":true,"confidence_threshold":0.8}`
	if got := maskSensitiveFields(body); got != body {
		t.Errorf("body without secrets should be unchanged, got %q", got)
	}
}
