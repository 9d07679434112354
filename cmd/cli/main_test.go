package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"evodash/domain/species"
	"evodash/internal/aggregate"
	"evodash/internal/dashboard"
	"evodash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvData = "Genus_&_Specie,Time,Current_Country,Zone,Location,Habitat,Diet,Jaw_Shape,Incisor_Size,Canine Size,Tecno_type,Cranial_Capacity,Height\n" +
	"Homo sapiens,0.3,Kenya,East,Africa,savanna,omnivore,parabolic,small,small,Mode 3,1400,170\n" +
	"Homo erectus,1.8,Indonesia,Asia,Asia,forest,omnivore,parabolic,medium large,big,Mode 2,900,160\n" +
	"Homo erectus,1.5,Kenya,East,Africa,savanna,omnivore,parabolic,medium large,big,Mode 1,850,150\n"

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hominins.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))
	// restore the environment the commands overwrite
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("GEO_SOURCE", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	return path
}

func testController(t *testing.T) *dashboard.Controller {
	t.Helper()
	store := species.NewStore("test", []species.Record{
		{Species: "Homo sapiens", Country: "Kenya", Zone: "East", Location: "Africa", Habitat: "savanna", Time: 0.3, CranialCapacity: 1400, Height: 170},
		{Species: "Homo erectus", Country: "Indonesia", Zone: "Asia", Location: "Asia", Habitat: "forest", Time: 1.8, CranialCapacity: 900, Height: 160},
	})
	ctrl := dashboard.New(store, nil, dashboard.Options{})
	_, err := ctrl.OnFilterChange(context.Background(), store.DefaultFilter())
	require.NoError(t, err)
	return ctrl
}

func TestSummaryCommand(t *testing.T) {
	path := writeCSV(t)
	cmd := newSummaryCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--data", path, "--species", "Homo erectus", "--time", "1.6"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Records: 1")
	assert.Contains(t, out.String(), "Time period: 1.5M")
	assert.Contains(t, out.String(), "Mean cranial capacity: 850.0 cc")
}

func TestSummaryCommandRejectsUnknownSpecies(t *testing.T) {
	path := writeCSV(t)
	cmd := newSummaryCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", path, "--species", "Homo nonexistens"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestRenderDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	ctrl := testController(t)
	require.NoError(t, renderDir(ctrl, dir))

	for _, p := range ctrl.Panels() {
		data, err := os.ReadFile(filepath.Join(dir, p.Name+".svg"))
		require.NoError(t, err, p.Name)
		assert.Contains(t, string(data), "<svg", p.Name)
	}
	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<img src="timeline.svg"`)
	assert.Contains(t, string(index), "0.3M - 1.8M")
}

func TestWriteWorkbook(t *testing.T) {
	ctrl := testController(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, writeWorkbook(ctrl.Aggregates(), ctrl.State(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Zones", "Locations", "Traits", "Technology", "Tooth", "Habitats", "Timeline", "Countries", "Bubbles"}, f.GetSheetList())

	rows, err := f.GetRows("Zones")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Zone", "Frequency"}, {"East", "1"}, {"Asia", "1"}}, rows)

	rows, err = f.GetRows("Summary")
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"Time period", "0.3M - 1.8M"})
}

func TestWorkbookSheetsOnEmptySet(t *testing.T) {
	sheets := workbookSheets(aggregate.Compute(nil), species.FilterState{Species: species.All, Region: species.All})
	require.Len(t, sheets, 10)
	for _, sh := range sheets[1:] {
		assert.Empty(t, sh.rows, sh.name)
		assert.NotEmpty(t, sh.header, sh.name)
	}
}

func TestPreviewRouter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, renderDir(testController(t), dir))
	router := newPreviewRouter(dir)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/bar.svg", http.StatusOK, "image/svg+xml"},
		{"/", http.StatusOK, "text/html; charset=utf-8"},
		{"/healthz", http.StatusOK, ""},
		{"/missing.svg", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			}
		})
	}
}
