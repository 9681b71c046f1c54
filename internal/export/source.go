package export

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNoExport is returned when an uploaded archive contains no
	// recognizable export entry.
	ErrNoExport = errors.New("export: archive contains no export entry")

	// ErrMalformed is returned when the payload is not well-formed XML.
	ErrMalformed = errors.New("export: stream is not well-formed XML")
)

// exportEntrySuffix matches the XML payload inside an Apple Health archive
// (the archive root is "apple_health_export/export.xml").
const exportEntrySuffix = "export.xml"

var zipMagic = []byte("PK\x03\x04")

// payload resolves the archive-vs-raw ambiguity of the source stream and
// returns a reader over the XML document. Zip archives need random access,
// so they are spooled to a temp file first; raw XML streams straight
// through. close releases the temp file when present.
type payload struct {
	r     io.Reader
	entry io.ReadCloser
	spool *os.File
}

func (p *payload) close() {
	if p.entry != nil {
		_ = p.entry.Close()
	}
	if p.spool != nil {
		name := p.spool.Name()
		_ = p.spool.Close()
		_ = os.Remove(name)
	}
}

func openPayload(r io.Reader) (*payload, error) {
	br := bufio.NewReaderSize(r, 64<<10)

	magic, err := br.Peek(len(zipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("peek source: %w", err)
	}

	if !bytes.Equal(magic, zipMagic) {
		return &payload{r: br}, nil
	}

	spool, err := os.CreateTemp("", "nocturne-export-*.zip")
	if err != nil {
		return nil, fmt.Errorf("spool archive: %w", err)
	}

	size, err := io.Copy(spool, br)
	if err != nil {
		cleanupSpool(spool)
		return nil, fmt.Errorf("spool archive: %w", err)
	}

	zr, err := zip.NewReader(spool, size)
	if err != nil {
		cleanupSpool(spool)
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	entry, err := findExportEntry(zr)
	if err != nil {
		cleanupSpool(spool)
		return nil, err
	}

	rc, err := entry.Open()
	if err != nil {
		cleanupSpool(spool)
		return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}

	return &payload{r: rc, entry: rc, spool: spool}, nil
}

func findExportEntry(zr *zip.Reader) (*zip.File, error) {
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), exportEntrySuffix) {
			return f, nil
		}
	}
	return nil, ErrNoExport
}

func cleanupSpool(f *os.File) {
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
}
