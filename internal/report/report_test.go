package report

import (
	"strings"
	"testing"
	"time"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/internal/trends"
)

func TestRenderIncludesSections(t *testing.T) {
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	score := 4
	resp := trends.Build([]models.Observation{
		{ID: "1", DeviceID: "pi-1", Timestamp: now.Add(-time.Hour), BristolScore: &score, Flags: []string{}},
	}, trends.NewWindow(now, 7))

	var out strings.Builder
	if err := Render(&out, &resp, "pi-1"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	text := out.String()

	for _, want := range []string{
		"7 days, device pi-1",
		"Daily",
		"2026-03-02",
		"2026-03-08",
		"Week of 2026-03-02",
		string(models.AlertInfrequent),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	resp := trends.Build(nil, trends.NewWindow(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), 1))

	var out strings.Builder
	if err := Render(&out, &resp, ""); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out.String(), "device all") {
		t.Errorf("unfiltered report should say device all:\n%s", out.String())
	}
}
