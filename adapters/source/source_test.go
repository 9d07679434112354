package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"evodash/domain/species"
	"evodash/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffGenus_&_Specie,Current_Country,Zone,Time,Cranial_Capacity,Height,Bipedalism\n" +
	"Homo sapiens,Kenya,A,0.3,1400,170,high\n" +
	"\n" +
	"Homo erectus,Indonesia,B,1.8,900,,high\n" +
	"Homo erectus,Kenya,A,1.2,n/a,160,high\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		name   string
		expect Format
	}{
		{"data/evolution.csv", FormatCSV},
		{"data/evolution.XLSX", FormatXLSX},
		{"https://example.org/evolution.xlsx?raw=1", FormatXLSX},
		{"s3://bucket/evolution", FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatFor(tt.name))
		})
	}
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "evolution.csv", sampleCSV)

	store, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	recs := store.Records()
	assert.Equal(t, "Homo sapiens", recs[0].Species)
	assert.Equal(t, 0.0, recs[1].Height)
	assert.Equal(t, 0.0, recs[2].CranialCapacity)
	assert.Equal(t, "high", recs[0].Attributes["Bipedalism"])
	assert.Equal(t, []string{species.All, "Homo sapiens", "Homo erectus"}, store.SpeciesOptions())

	min, max := store.TimeRange()
	assert.Equal(t, 0.3, min)
	assert.Equal(t, 1.8, max)
}

func TestLoadFileURI(t *testing.T) {
	p := writeFile(t, "evolution.csv", sampleCSV)
	store, err := Load(context.Background(), "file://"+p)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Genus_&_Specie", "Current_Country", "Time"},
		{"Paranthropus boisei", "Tanzania", 1.9},
		{"Homo habilis", "Tanzania", 2.1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	p := filepath.Join(t.TempDir(), "evolution.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	store, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.Equal(t, 2.1, store.Records()[1].Time)
}

func TestLoadSQLite(t *testing.T) {
	p := filepath.Join(t.TempDir(), "evolution.db")
	db, err := sqlx.Open("sqlite", p)
	require.NoError(t, err)
	db.MustExec(`CREATE TABLE hominins ("Genus_&_Specie" TEXT, "Current_Country" TEXT, "Time" REAL, "Height" INTEGER)`)
	db.MustExec(`INSERT INTO hominins VALUES ('Homo naledi', 'South Africa', 0.3, 144), ('Homo floresiensis', 'Indonesia', 0.1, NULL)`)
	require.NoError(t, db.Close())

	store, err := Load(context.Background(), "sqlite://"+p+"?table=hominins")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	recs := store.Records()
	assert.Equal(t, "Homo naledi", recs[0].Species)
	assert.Equal(t, 144.0, recs[0].Height)
	assert.Equal(t, 0.0, recs[1].Height)
}

func TestLoadSQLiteRejectsBadTable(t *testing.T) {
	_, err := Load(context.Background(), "sqlite:///tmp/x.db?table=a;drop")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeLoadError))
}

func TestLoadHTTPRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	l := NewLoader()
	l.Retry.BaseDelay = time.Millisecond
	store, err := l.Load(context.Background(), srv.URL+"/evolution.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoadHTTPNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader()
	l.Retry.BaseDelay = time.Millisecond
	_, err := l.Load(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeLoadError))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header only", "Genus_&_Specie,Time\n"},
		{"blank rows only", "Genus_&_Specie,Time\n,\n"},
		{"missing species column", "Name,Time\nX,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, "bad.csv", tt.content)
			_, err := Load(context.Background(), p)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeLoadError))
			assert.True(t, strings.Contains(err.Error(), "bad.csv"))
		})
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, errors.HasCode(err, errors.CodeLoadError))
}

func TestSplitS3URI(t *testing.T) {
	bucket, key, err := splitS3URI("s3://fossils/data/evolution.csv")
	require.NoError(t, err)
	assert.Equal(t, "fossils", bucket)
	assert.Equal(t, "data/evolution.csv", key)

	_, _, err = splitS3URI("s3://fossils")
	assert.Error(t, err)
}
