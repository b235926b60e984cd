// Package diff compara duas listas de odds pela identidade (oddValue, market).
package diff

import (
	"sort"

	"github.com/radieske/superodds-monitor/pkg/models"
)

// HasChanges indica se cur difere de prev: primeira captura com odds,
// quantidade diferente ou conjunto de chaves diferente.
func HasChanges(prev, cur []models.OddRecord) bool {
	if len(prev) == 0 {
		return len(cur) > 0
	}
	if len(prev) != len(cur) {
		return true
	}
	a, b := sortedKeys(prev), sortedKeys(cur)
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// NewOdds retorna as odds de cur ausentes em prev, na ordem de cur
func NewOdds(prev, cur []models.OddRecord) []models.OddRecord {
	return missing(cur, prev)
}

// RemovedOdds retorna as odds de prev que sumiram em cur, na ordem de prev
func RemovedOdds(prev, cur []models.OddRecord) []models.OddRecord {
	return missing(prev, cur)
}

func missing(from, in []models.OddRecord) []models.OddRecord {
	idx := make(map[models.Key]struct{}, len(in))
	for _, o := range in {
		idx[models.KeyOf(o)] = struct{}{}
	}
	out := []models.OddRecord{}
	for _, o := range from {
		if _, ok := idx[models.KeyOf(o)]; !ok {
			out = append(out, o)
		}
	}
	return out
}

func sortedKeys(odds []models.OddRecord) []models.Key {
	keys := make([]models.Key, len(odds))
	for i, o := range odds {
		keys[i] = models.KeyOf(o)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OddValue != keys[j].OddValue {
			return keys[i].OddValue < keys[j].OddValue
		}
		return keys[i].Market < keys[j].Market
	})
	return keys
}
