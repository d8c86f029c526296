package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := " MCN ,Client,Created Time\nM1,Acme,01/01/2024\nM2,Beta,02/01/2024\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"MCN", "Client", "Created Time"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"M1", "Acme", "01/01/2024"}, table.Rows[0])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	in := "MCN,Client\nM1\nM2,Beta,extra\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0], 1)
	assert.Len(t, table.Rows[1], 3)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoader_LocalCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("MCN,Client\nM1,Acme\n"), 0o644))

	table, err := NewLoader(nil, nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, table.Source)
	assert.Len(t, table.Rows, 1)
}

func TestLoader_MissingFileIsFatal(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(context.Background(), "/nonexistent/leads.csv")
	assert.Error(t, err)
}

func TestLoader_HTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("MCN,Client\nM1,Acme\n"))
	}))
	defer srv.Close()

	loader := NewLoader(NewHTTPFetcher(5*time.Second, 0), nil)
	table, err := loader.Load(context.Background(), srv.URL+"/leads.csv")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestLoader_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	loader := NewLoader(NewHTTPFetcher(5*time.Second, 0), nil)
	_, err := loader.Load(context.Background(), srv.URL+"/leads.csv")
	assert.Error(t, err)
}

func TestLoader_NoRemoteFetcherConfigured(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(context.Background(), "https://example.com/x.csv")
	assert.Error(t, err)
	_, err = NewLoader(nil, nil).Load(context.Background(), "ftp://example.com/x.csv")
	assert.Error(t, err)
}
