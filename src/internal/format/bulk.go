// FILE: eslogger/src/internal/format/bulk.go
package format

import (
	"bytes"
	"encoding/json"
	"time"

	"eslogger/src/internal/core"

	"github.com/lixenwraith/log"
)

// DefaultIndexPrefix is prepended to the UTC date to form the daily index
const DefaultIndexPrefix = "logger-"

// BulkFormatter produces newline-delimited bulk request bodies: an index
// action line followed by the document line, per entry.
type BulkFormatter struct {
	indexPrefix string
	docType     string
	doc         Formatter
	logger      *log.Logger
}

// NewBulkFormatter creates a bulk formatter. An empty docType omits "_type"
// from the action line.
func NewBulkFormatter(indexPrefix, docType string, logger *log.Logger) *BulkFormatter {
	if indexPrefix == "" {
		indexPrefix = DefaultIndexPrefix
	}
	return &BulkFormatter{
		indexPrefix: indexPrefix,
		docType:     docType,
		doc:         NewJSONFormatter(logger),
		logger:      logger,
	}
}

// IndexName returns the daily index for t, e.g. logger-2024-03-01.
func (f *BulkFormatter) IndexName(t time.Time) string {
	return f.indexPrefix + t.UTC().Format("2006-01-02")
}

type indexAction struct {
	Index struct {
		Index string `json:"_index"`
		Type  string `json:"_type,omitempty"`
	} `json:"index"`
}

// Action returns the action line for index, including the trailing newline.
func (f *BulkFormatter) Action(index string) []byte {
	var a indexAction
	a.Index.Index = index
	a.Index.Type = f.docType

	// Marshal of two strings cannot fail
	line, _ := json.Marshal(a)
	return append(line, '\n')
}

// FormatBatch encodes entries into one body. Entries that fail to encode are
// skipped; the returned count is the number of documents in the body.
func (f *BulkFormatter) FormatBatch(index string, entries []*core.LogEntry) ([]byte, int) {
	action := f.Action(index)

	var buf bytes.Buffer
	count := 0
	for _, entry := range entries {
		doc, err := f.doc.Format(entry)
		if err != nil {
			f.logger.Warn("msg", "Failed to format entry in batch",
				"component", "bulk_formatter",
				"error", err)
			continue
		}
		buf.Write(action)
		buf.Write(doc)
		count++
	}

	return buf.Bytes(), count
}

// Name returns the formatter's type name.
func (f *BulkFormatter) Name() string {
	return "bulk"
}
