package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without any sheet
var ErrNoSheets = errors.New("workbook has no sheets")

// Reader extracts order rows from uploaded .xlsx workbooks
type Reader struct{}

// NewReader creates a Reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadRows returns the cell text of every row of the first sheet
func (r *Reader) ReadRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
