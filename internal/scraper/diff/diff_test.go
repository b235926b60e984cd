package diff

import (
	"testing"

	"github.com/radieske/superodds-monitor/pkg/models"
)

func odd(v float64, market string) models.OddRecord {
	return models.OddRecord{OddValue: v, Market: market, Team: "Flamengo"}
}

func TestHasChanges(t *testing.T) {
	base := []models.OddRecord{odd(2.5, "Resultado Final"), odd(3.1, "Empate")}

	tests := []struct {
		name string
		prev []models.OddRecord
		cur  []models.OddRecord
		want bool
	}{
		{"both empty", nil, nil, false},
		{"first capture", nil, base, true},
		{"odds disappeared", base, nil, true},
		{"same set reordered", base, []models.OddRecord{base[1], base[0]}, false},
		{"team ignored", base, []models.OddRecord{{OddValue: 2.5, Market: "Resultado Final", Team: "Santos"}, base[1]}, false},
		{"value changed", base, []models.OddRecord{odd(2.6, "Resultado Final"), base[1]}, true},
		{"market changed", base, []models.OddRecord{odd(2.5, "Gols"), base[1]}, true},
		{"count changed", base, append(base[:2:2], odd(4.0, "Handicap")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasChanges(tt.prev, tt.cur); got != tt.want {
				t.Errorf("HasChanges = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewAndRemovedOdds(t *testing.T) {
	prev := []models.OddRecord{odd(2.5, "Resultado Final"), odd(3.1, "Empate")}
	cur := []models.OddRecord{odd(3.1, "Empate"), odd(1.9, "Ambas Marcam"), odd(4.0, "Handicap")}

	added := NewOdds(prev, cur)
	if len(added) != 2 || added[0].OddValue != 1.9 || added[1].OddValue != 4.0 {
		t.Errorf("unexpected new odds: %+v", added)
	}

	removed := RemovedOdds(prev, cur)
	if len(removed) != 1 || removed[0].Market != "Resultado Final" {
		t.Errorf("unexpected removed odds: %+v", removed)
	}

	if got := NewOdds(cur, cur); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
