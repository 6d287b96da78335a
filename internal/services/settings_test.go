package services

import "testing"

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func TestUpdateSettingsRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateSettingsRequest
		wantErr bool
	}{
		{"empty is valid", UpdateSettingsRequest{}, false},
		{"threshold in range", UpdateSettingsRequest{ConfidenceThreshold: float64Ptr(0.8)}, false},
		{"threshold at bounds", UpdateSettingsRequest{ConfidenceThreshold: float64Ptr(1.0)}, false},
		{"threshold above 1", UpdateSettingsRequest{ConfidenceThreshold: float64Ptr(1.1)}, true},
		{"threshold negative", UpdateSettingsRequest{ConfidenceThreshold: float64Ptr(-0.1)}, true},
		{"queue minutes zero ok", UpdateSettingsRequest{MaxTimeInQueueMinutes: intPtr(0)}, false},
		{"queue minutes negative", UpdateSettingsRequest{MaxTimeInQueueMinutes: intPtr(-1)}, true},
		{"daily cap zero means unlimited", UpdateSettingsRequest{MaxDailyAutoReplies: intPtr(0)}, false},
		{"daily cap negative", UpdateSettingsRequest{MaxDailyAutoReplies: intPtr(-5)}, true},
		{"candidate count in range", UpdateSettingsRequest{CandidateCount: intPtr(3)}, false},
		{"candidate count zero", UpdateSettingsRequest{CandidateCount: intPtr(0)}, true},
		{"candidate count too high", UpdateSettingsRequest{CandidateCount: intPtr(6)}, true},
		{"reply length zero", UpdateSettingsRequest{MaxReplyLength: intPtr(0)}, true},
		{"temperature too high", UpdateSettingsRequest{Temperature: float64Ptr(2.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
