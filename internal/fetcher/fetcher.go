// Package fetcher loads lead export tables from local files, HTTP, and
// FTP sources, in CSV or XLSX format.
package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Table is one loaded export: a header row plus data rows. Rows may be
// ragged; column lookup is always by resolved header index.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// Loader fetches and parses export tables.
type Loader struct {
	http *HTTPFetcher
	ftp  *FTPFetcher
}

// NewLoader builds a Loader with the given remote fetchers. Either may
// be nil when only local files are used.
func NewLoader(http *HTTPFetcher, ftp *FTPFetcher) *Loader {
	return &Loader{http: http, ftp: ftp}
}

// Load reads the export at source, which may be a local path, an
// http(s):// URL, or an ftp:// URL. A missing or unreadable source is
// fatal: the error aborts the run with no partial output.
func (l *Loader) Load(ctx context.Context, source string) (*Table, error) {
	log := zap.L().With(zap.String("component", "fetcher"), zap.String("source", source))

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if l.http == nil {
			return nil, eris.New("fetcher: no HTTP fetcher configured")
		}
		body, err := l.http.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return l.parse(source, body)

	case strings.HasPrefix(source, "ftp://"):
		if l.ftp == nil {
			return nil, eris.New("fetcher: no FTP fetcher configured")
		}
		body, err := l.ftp.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return l.parse(source, body)

	default:
		if strings.EqualFold(filepath.Ext(source), ".xlsx") {
			t, err := ReadXLSX(source)
			if err != nil {
				return nil, err
			}
			t.Source = source
			log.Info("export loaded", zap.Int("rows", len(t.Rows)))
			return t, nil
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", source)
		}
		defer f.Close()
		t, err := l.parse(source, f)
		if err != nil {
			return nil, err
		}
		log.Info("export loaded", zap.Int("rows", len(t.Rows)))
		return t, nil
	}
}

func (l *Loader) parse(source string, r io.Reader) (*Table, error) {
	if strings.EqualFold(filepath.Ext(strippedPath(source)), ".xlsx") {
		// Remote XLSX: spool to a temp file, tealeg needs random access.
		tmp, err := os.CreateTemp("", "chase-export-*.xlsx")
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: temp file")
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, r); err != nil {
			tmp.Close()
			return nil, eris.Wrap(err, "fetcher: spool xlsx")
		}
		tmp.Close()
		t, err := ReadXLSX(tmp.Name())
		if err != nil {
			return nil, err
		}
		t.Source = source
		return t, nil
	}

	t, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	t.Source = source
	return t, nil
}

// strippedPath drops any URL query so extension sniffing works on
// remote sources.
func strippedPath(source string) string {
	if i := strings.IndexByte(source, '?'); i >= 0 {
		return source[:i]
	}
	return source
}
