package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeasonalPlansShareFamily(t *testing.T) {
	for _, th := range Available() {
		t.Run(th.Name, func(t *testing.T) {
			summer := th.StatusStyle("Geplant für Sommer")
			winter := th.StatusStyle("Geplant für Winter")
			done := th.StatusStyle("Fertig")

			assert.Equal(t, summer, winter)
			assert.NotEqual(t, summer, done)
			assert.Equal(t, th.StatusAccent("Geplant für Frühling"), th.StatusAccent("geplant für herbst"))
		})
	}
}

func TestUnknownStatusIsNeutral(t *testing.T) {
	th := Nord
	neutral := StatusStyle{Background: th.Highlight, Foreground: th.Subtle}

	assert.Equal(t, neutral, th.StatusStyle(""))
	assert.Equal(t, neutral, th.StatusStyle("Verschenkt"))
	assert.Equal(t, th.StatusNone, th.StatusAccent("Verschenkt"))
	assert.Equal(t, th.StatusDone, th.StatusAccent("FERTIG"))
}

func TestNextCyclesThemes(t *testing.T) {
	defer SetTheme(Nord)

	SetTheme(Nord)
	seen := map[string]bool{}
	for range Available() {
		next := Next()
		seen[next.Name] = true
		SetTheme(next)
	}
	assert.Len(t, seen, len(Available()))
	assert.Equal(t, Nord.Name, Current.Theme.Name)

	style := StatusStyleFor("Idee")
	assert.Equal(t, Nord.StatusIdea, style.Background)
	assert.Equal(t, Nord.StatusIdea, StatusAccentFor("idee"))
}

func TestByName(t *testing.T) {
	th, ok := ByName("gruvbox")
	assert.True(t, ok)
	assert.Equal(t, Gruvbox.Name, th.Name)

	_, ok = ByName("solarized")
	assert.False(t, ok)
}
