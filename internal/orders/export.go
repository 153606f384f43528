package orders

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"ID", "Data", "Client", "Telefon", "Oraș",
	"Produs", "Preț", "Extra", "Total",
	"Livrare", "Adresă", "Data livrării", "Plată",
	"Ocazie", "Sursă", "Comentarii", "Status",
}

// Export writes the given orders as an XLSX workbook.
func Export(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Comenzi"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("orders: export header: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("orders: export header: %w", err)
		}
	}

	for i, rec := range records {
		row := []any{
			rec.ID,
			rec.CreatedAt.Format("02.01.2006 15:04"),
			rec.Name,
			rec.Phone,
			rec.City,
			rec.ProductText,
			rec.Price,
			rec.UpsellID,
			rec.Total,
			rec.Delivery,
			rec.Address,
			rec.Date,
			rec.Payment,
			rec.Occasion,
			rec.Source,
			rec.Comments,
			string(rec.Status),
		}
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("orders: export row %d: %w", i, err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("orders: export row %d: %w", i, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("orders: export write: %w", err)
	}
	return nil
}
