package board

import (
	"strings"
	"testing"

	"github.com/radieske/superodds-monitor/internal/scraper/extractor"
	"github.com/radieske/superodds-monitor/internal/scraper/validator"
)

func TestRotateKeepsOffersInRange(t *testing.T) {
	b := New(42)
	for i := 0; i < 50; i++ {
		b.Rotate()
		offers := b.Offers()
		if len(offers) == 0 || len(offers) > len(catalog) {
			t.Fatalf("unexpected offer count %d", len(offers))
		}
		for _, o := range offers {
			if o.Original < 1.40 || o.Boosted <= o.Original || o.Boosted > 10 {
				t.Fatalf("odds out of range: %+v", o)
			}
		}
	}
	if b.Version() != 51 {
		t.Errorf("version = %d, want 51", b.Version())
	}
}

func TestRenderedPageIsExtractable(t *testing.T) {
	b := New(7)
	html, err := b.Render()
	if err != nil {
		t.Fatal(err)
	}
	if err := validator.Validate(html); err != nil {
		t.Fatalf("rendered page rejected: %v", err)
	}

	res, err := extractor.New(extractor.DefaultConfig(), nil).Extract(html)
	if err != nil {
		t.Fatal(err)
	}
	offers := b.Offers()
	if res.TotalOdds != len(offers) {
		t.Fatalf("extracted %d odds, board has %d", res.TotalOdds, len(offers))
	}
	for i, o := range offers {
		if res.Odds[i].OddValue != o.Boosted {
			t.Errorf("odd %d = %v, want boosted %v", i, res.Odds[i].OddValue, o.Boosted)
		}
	}
}

func TestChallengeIsDetectedAsBlocked(t *testing.T) {
	page := RenderChallenge()
	if !strings.Contains(page, "<html") {
		t.Fatal("challenge must look like a document")
	}
	if !validator.IsBlocked(validator.Validate(page)) {
		t.Error("challenge page should be reported as blocked")
	}
}
