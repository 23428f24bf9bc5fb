package leadconsole

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// BulkImporter drives the spreadsheet upload: pick a file, send it, and hold
// the reconciliation result until the next selection. The backend does the
// row-by-row work; the importer's job is the single-flight upload and the
// failure report.
type BulkImporter struct {
	console *Console

	mu     sync.Mutex
	file   string
	busy   bool
	result *BulkUploadResult
}

// NewBulkImporter returns an importer with no file selected.
func (c *Console) NewBulkImporter() *BulkImporter {
	return &BulkImporter{console: c}
}

// SelectFile stages path for upload. Only extensions from the import config
// are accepted. Selecting a file discards the previous upload's result.
func (b *BulkImporter) SelectFile(path string) error {
	if path == "" {
		return ErrUploadFileMissing
	}
	ext := strings.ToLower(filepath.Ext(path))
	allowed := false
	for _, a := range b.console.config.Import.AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrUploadExtension, ext)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy {
		return ErrUploadInFlight
	}
	b.file = path
	b.result = nil
	return nil
}

// File returns the currently staged path, empty when none.
func (b *BulkImporter) File() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file
}

// Busy reports whether an upload is in flight.
func (b *BulkImporter) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// Upload sends the staged file and stores the reconciliation result. A
// second Upload while one is in flight returns ErrUploadInFlight; uploading
// with no staged file returns ErrUploadFileMissing.
func (b *BulkImporter) Upload(ctx context.Context) (*BulkUploadResult, error) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	if b.file == "" {
		b.mu.Unlock()
		return nil, ErrUploadFileMissing
	}
	path := b.file
	b.busy = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bulk upload: open file: %w", err)
	}
	defer fh.Close()

	var result BulkUploadResult
	err = b.console.gw.postMultipart(ctx, "/users/bulk-upload", "file", filepath.Base(path), fh, &result)
	if err != nil {
		b.console.metrics.Inc(MetricBulkUploadFailure)
		b.console.emitAudit(ctx, auditEventBulkUpload, "", false, err)
		return nil, err
	}

	b.mu.Lock()
	b.result = &result
	b.mu.Unlock()

	b.console.metrics.Inc(MetricBulkUploadSuccess)
	b.console.metrics.Add(MetricBulkRowsFailed, uint64(len(result.FailedRows)))
	b.console.emitAudit(ctx, auditEventBulkUpload, "", true, nil)
	return &result, nil
}

// Result returns the last upload's outcome, nil when none is held.
func (b *BulkImporter) Result() *BulkUploadResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// FailureLines renders the held failures as "Row N: reason" lines for the
// on-screen list. Order follows the server's response.
func (b *BulkImporter) FailureLines() []string {
	b.mu.Lock()
	result := b.result
	b.mu.Unlock()
	if result == nil {
		return nil
	}

	lines := make([]string, 0, len(result.FailedRows))
	for _, row := range result.FailedRows {
		lines = append(lines, fmt.Sprintf("Row %d: %s", row.RowNumber, row.Reason))
	}
	return lines
}

// WriteFailureReport writes the held failures as a spreadsheet to w, and
// returns the suggested file name. ErrNoFailedRows when there is nothing to
// report.
func (b *BulkImporter) WriteFailureReport(w io.Writer) (string, error) {
	b.mu.Lock()
	result := b.result
	b.mu.Unlock()
	if result == nil || len(result.FailedRows) == 0 {
		return "", ErrNoFailedRows
	}

	cfg := b.console.config.Import
	if err := result.WriteFailedRowsXLSX(w, cfg.ReportSheet); err != nil {
		return "", err
	}
	return failedRowsReportName(cfg.ReportPrefix, b.console.now()), nil
}

// Close discards the staged file and any held result.
func (b *BulkImporter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.file = ""
	b.result = nil
}
