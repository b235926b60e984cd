package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"epoch millis", `1718000000000`, time.UnixMilli(1718000000000).UTC()},
		{"epoch millis string", `"1718000000000"`, time.UnixMilli(1718000000000).UTC()},
		{"rfc3339", `"2024-06-10T06:13:20Z"`, time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"ontem"`), &ts); err == nil {
		t.Error("expected error for non-time string")
	}
}

func TestWebhookOddRecordFallsBackToReceived(t *testing.T) {
	received := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := WebhookOdd{OddValue: 2.5, Market: "Resultado Final"}.Record(received)
	if !rec.Timestamp.Equal(received) || rec.OddValue != 2.5 {
		t.Errorf("unexpected record %+v", rec)
	}
}
