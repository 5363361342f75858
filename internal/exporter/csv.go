package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Storbiic/ETL-Automated-Tool/internal/model"
)

// WriteCSV 把表写出为 CSV：首行列名，单元格按展示文本输出
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			record[i] = row[i].String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
