package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/naehbuch/internal/db/jsonfile"
	"github.com/dori/naehbuch/internal/model"
)

type recordingCreator struct {
	created []model.Project
	failOn  string
}

func (r *recordingCreator) Create(_ context.Context, p model.Project) (model.Project, error) {
	if p.Name == r.failOn {
		return model.Project{}, errors.New("disk full")
	}
	r.created = append(r.created, p)
	return p, nil
}

func TestImportRowsSkipsUnnamed(t *testing.T) {
	rows, err := jsonfile.Decode(strings.NewReader(`[
		{"id": 1717171717171, "name": "Summer Dress", "moneySpent": "12.50", "fabrics": ["cotton"]},
		{"id": 1717171717172, "name": "   "},
		{"id": 1717171717173, "name": "Tote Bag", "timeSpent": 1.5}
	]`))
	require.NoError(t, err)

	creator := &recordingCreator{}
	imported, skipped, err := importRows(context.Background(), creator, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, skipped)

	require.Len(t, creator.created, 2)
	assert.Equal(t, 12.5, creator.created[0].MoneySpent)
	assert.Equal(t, []string{"cotton"}, creator.created[0].Fabrics)
	assert.Equal(t, 1.5, creator.created[1].TimeSpent)
}

func TestImportRowsStopsOnStoreError(t *testing.T) {
	rows, err := jsonfile.Decode(strings.NewReader(`[{"name": "A"}, {"name": "B"}, {"name": "C"}]`))
	require.NoError(t, err)

	creator := &recordingCreator{failOn: "B"}
	imported, _, err := importRows(context.Background(), creator, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"B"`)
	assert.Equal(t, 1, imported)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]model.Project{{
		Name:       "Summer Dress",
		Fabrics:    []string{"cotton", "linen"},
		MoneySpent: 12.5,
		TimeSpent:  2.5,
		Status:     model.StatusDone,
	}})

	for _, want := range []string{"Projekt", "Summer Dress", "cotton, linen", "12.50€", "2h 30m", "Fertig"} {
		assert.Contains(t, out, want)
	}
}
