package csvsource

import (
	"compress/bzip2"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Required StormData columns. REFNUM is optional and only used for diagnostics.
const (
	colEventType  = "EVTYPE"
	colFatalities = "FATALITIES"
	colInjuries   = "INJURIES"
	colPropDmg    = "PROPDMG"
	colPropDmgExp = "PROPDMGEXP"
	colCropDmg    = "CROPDMG"
	colCropDmgExp = "CROPDMGEXP"
	colRefNum     = "REFNUM"
)

var requiredColumns = []string{
	colEventType, colFatalities, colInjuries,
	colPropDmg, colPropDmgExp, colCropDmg, colCropDmgExp,
}

// Reader loads raw storm event rows from a StormData CSV file. Files ending in
// ".bz2" are decompressed on the fly.
// It implements pipeline.RecordSource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the CSV at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadRecords reads every data row of the file into memory.
func (r *Reader) ReadRecords(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(r.path, ".bz2") {
		src = bzip2.NewReader(f)
	}

	records, err := Decode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Info("source loaded", "path", r.path, "records", len(records))
	return records, nil
}

// Decode parses StormData CSV from src. Columns are located by header name;
// a missing required column is an error. Cells missing from short rows read
// as empty strings.
func Decode(ctx context.Context, src io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty source: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing required column %s", c)
		}
	}
	refIdx, hasRef := colIdx[colRefNum]

	var records []domain.RawRecord
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		get := func(col string) string {
			i := colIdx[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		rec := domain.RawRecord{
			EventType:  get(colEventType),
			Fatalities: get(colFatalities),
			Injuries:   get(colInjuries),
			PropDmg:    get(colPropDmg),
			PropDmgExp: get(colPropDmgExp),
			CropDmg:    get(colCropDmg),
			CropDmgExp: get(colCropDmgExp),
		}
		if hasRef && refIdx < len(row) {
			rec.RefNum = strings.TrimSpace(row[refIdx])
		}
		records = append(records, rec)
	}
	return records, nil
}
