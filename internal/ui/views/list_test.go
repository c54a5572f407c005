package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/naehbuch/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleProjects() []model.Project {
	return []model.Project{
		{ID: "a", Name: "Summer Dress", MoneySpent: 12.5, Status: model.StatusDone},
		{ID: "b", Name: "Tote Bag"},
		{ID: "c", Name: "Winter Coat", Status: model.StatusPlannedWinter},
	}
}

func TestCollectionDeleteConfirmation(t *testing.T) {
	v := NewCollection(model.ViewList).SetSize(100, 30).SetProjects(sampleProjects())

	v, _ = v.Update(runes("j"))
	v, cmd := v.Update(runes("d"))
	assert.Nil(t, cmd)
	require.True(t, v.IsInputMode())
	assert.Contains(t, v.View(), "Tote Bag")

	v, cmd = v.Update(runes("n"))
	assert.Nil(t, cmd)
	assert.False(t, v.IsInputMode())

	v, _ = v.Update(runes("d"))
	v, cmd = v.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteRequestMsg{ID: "b", Name: "Tote Bag"}, cmd())
	assert.False(t, v.IsInputMode())
}

func TestCollectionEditRequest(t *testing.T) {
	v := NewCollection(model.ViewCards).SetSize(100, 30).SetProjects(sampleProjects())

	v, _ = v.Update(runes("G"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(EditRequestMsg)
	require.True(t, ok)
	assert.Equal(t, "c", msg.Project.ID)
}

func TestCollectionDisabledIgnoresRequests(t *testing.T) {
	v := NewCollection(model.ViewList).SetSize(100, 30).SetProjects(sampleProjects()).SetDisabled(true)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	v, _ = v.Update(runes("d"))
	assert.False(t, v.IsInputMode())
}

func TestCollectionCursorFollowsProject(t *testing.T) {
	v := NewCollection(model.ViewList).SetSize(100, 30).SetProjects(sampleProjects())
	v, _ = v.Update(runes("j"))

	reordered := model.SortedBy(sampleProjects(), model.SortName)
	reordered[0], reordered[2] = reordered[2], reordered[0]
	v = v.SetProjects(reordered)

	p, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", p.ID)

	// A removed project leaves the cursor in place, clamped to the list
	v = v.SetProjects(sampleProjects()[:1])
	p, ok = v.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", p.ID)
}

func TestCollectionEmptyState(t *testing.T) {
	v := NewCollection(model.ViewCards).SetSize(80, 20)
	assert.Contains(t, v.View(), "Noch keine Projekte")

	_, cmd := v.Update(runes("d"))
	assert.Nil(t, cmd)
}

func TestCollectionScrollIndicators(t *testing.T) {
	var projects []model.Project
	for i := 0; i < 30; i++ {
		projects = append(projects, model.Project{ID: string(rune('a' + i)), Name: "Projekt"})
	}
	v := NewCollection(model.ViewList).SetSize(100, 10).SetProjects(projects)

	assert.Contains(t, v.View(), "more below")
	assert.NotContains(t, v.View(), "more above")

	v, _ = v.Update(runes("G"))
	assert.Contains(t, v.View(), "more above")
	assert.Equal(t, 29, v.Cursor())
}

func TestCardShowsDetailsOnlyWhenPresent(t *testing.T) {
	bare := renderCard(model.Project{Name: "Tote Bag"}, false, 80)
	assert.Contains(t, bare, "Tote Bag")
	assert.NotContains(t, bare, "Kosten")

	full := renderCard(model.Project{
		Name:          "Summer Dress",
		Fabrics:       []string{"cotton"},
		MoneySpent:    12.5,
		FabricUsed:    1.5,
		TimeSpent:     2.5,
		PatternBrand:  "Burda",
		PurchasedFrom: "Stoffladen",
		Status:        model.StatusDone,
		ProjectDate:   mustDate(t, "2024-06-01"),
	}, true, 80)

	for _, want := range []string{"12.50€", "1.5m", "2h 30m", "cotton", "Burda", "Stoffladen", "01.06.2024", "Fertig"} {
		assert.Contains(t, full, want)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Summer Dress", truncate("Summer Dress", 20))
	assert.Equal(t, "Summ…", truncate("Summer Dress", 5))
	assert.Equal(t, "", truncate("Summer Dress", 0))
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("ein langer Kommentar über das Projekt", 12)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 12)
	}
}

func TestStatsBar(t *testing.T) {
	bar := NewStatsBar().SetStats(model.Stats{Count: 1, TotalMoney: 12.5, TotalFabric: 1.5, TotalTime: 2.5}).SetSize(120)
	out := bar.View()
	for _, want := range []string{"1", "12.50€", "1.5m", "2h 30m"} {
		assert.Contains(t, out, want)
	}

	narrow := bar.SetSize(40).View()
	assert.Contains(t, narrow, "12.50€")
	assert.Equal(t, 1, strings.Count(narrow, "\n")+1)
}
