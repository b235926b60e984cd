package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestBrokers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"localhost:9092", []string{"localhost:9092"}},
		{"a:9092, b:9092,,", []string{"a:9092", "b:9092"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Brokers(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("Brokers(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Brokers(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNewWriterUsesHashBalancer(t *testing.T) {
	w := NewWriter([]string{"a:9092", "b:9092"}, "superodds_snapshots")
	defer w.Close()

	if w.Topic != "superodds_snapshots" {
		t.Errorf("Topic = %q", w.Topic)
	}
	if _, ok := w.Balancer.(*kafkago.Hash); !ok {
		t.Errorf("expected hash balancer, got %T", w.Balancer)
	}
}
