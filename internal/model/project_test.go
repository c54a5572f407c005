package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndJoinHours(t *testing.T) {
	tests := []struct {
		hours   float64
		h, m    int
		display string
	}{
		{0, 0, 0, "0m"},
		{2.5, 2, 30, "2h 30m"},
		{3, 3, 0, "3h"},
		{0.75, 0, 45, "45m"},
		{1.0 + 20.0/60.0, 1, 20, "1h 20m"},
	}

	for _, tt := range tests {
		h, m := SplitHours(tt.hours)
		assert.Equal(t, tt.h, h, "hours of %v", tt.hours)
		assert.Equal(t, tt.m, m, "minutes of %v", tt.hours)
		assert.InDelta(t, tt.hours, JoinHours(h, m), 1e-9)
		assert.Equal(t, tt.display, FormatDuration(tt.hours))
	}
}

func TestValidateRequiresName(t *testing.T) {
	p := Project{Name: "   "}
	err := p.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)

	p.Name = "Sommerkleid"
	assert.NoError(t, p.Validate())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.Format(DateLayout))

	_, err = ParseDate("01.06.2024")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestPatchApplyOnlyChangesSuppliedFields(t *testing.T) {
	original := Project{
		ID:         "p1",
		Name:       "Kleid",
		Fabrics:    []string{"Baumwolle", "Leinen"},
		MoneySpent: 10,
		Status:     StatusIdea,
		Comments:   "erste Notiz",
	}

	status := StatusDone
	money := 22.0
	updated := Patch{Status: &status, MoneySpent: &money}.Apply(original)

	assert.Equal(t, StatusDone, updated.Status)
	assert.Equal(t, 22.0, updated.MoneySpent)
	assert.Equal(t, original.Name, updated.Name)
	assert.Equal(t, original.Fabrics, updated.Fabrics)
	assert.Equal(t, original.Comments, updated.Comments)
	assert.Equal(t, original.ID, updated.ID)
}

func TestPatchFromProjectCopiesFabrics(t *testing.T) {
	p := Project{Name: "Rock", Fabrics: []string{"Jersey"}}
	patch := PatchFromProject(p)
	(*patch.Fabrics)[0] = "Wolle"
	assert.Equal(t, "Jersey", p.Fabrics[0])
	assert.False(t, patch.IsEmpty())
	assert.True(t, Patch{}.IsEmpty())
}
