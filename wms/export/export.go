// Package export writes consignments to an Excel workbook with one sheet for the
// headers, one for the articles and one for the boxes.
package export

import (
	"fmt"
	"io"
	"outward-wms/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetOutward  = "Outward"
	SheetArticles = "Articles"
	SheetBoxes    = "Boxes"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	outwardHeader = []interface{}{
		"Consignment ID", "Date", "Customer", "Vehicle No", "Status", "Remarks",
		"Articles", "Boxes", "Net Weight (g)", "Gross Weight (g)",
	}
	articleHeader = []interface{}{
		"Consignment ID", "Line", "Article ID", "SKU ID", "Material Type", "Item Category",
		"Sub Category", "Item Description", "Quantity", "Pack Size (g)", "Packets", "UOM",
		"Net Weight (g)", "Total Weight (g)", "Batch Number", "Unit Rate", "Value",
	}
	boxHeader = []interface{}{
		"Consignment ID", "Box ID", "Box Number", "Article", "Net Weight (g)",
		"Gross Weight (g)", "Lot Number",
	}
)

// Workbook builds the export. A total row closes the Outward sheet.
func Workbook(records []models.OutwardRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOutward); err != nil {
		return nil, err
	}
	for _, sheet := range []string{SheetArticles, SheetBoxes} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := &writer{f: f}
	w.row(SheetOutward, 1, outwardHeader...)
	w.row(SheetArticles, 1, articleHeader...)
	w.row(SheetBoxes, 1, boxHeader...)

	totalNet, totalGross := decimal.Zero, decimal.Zero
	articleRow, boxRow := 2, 2
	for i, r := range records {
		w.row(SheetOutward, i+2,
			r.ConsignmentID, r.ConsignmentDate, r.Customer, r.VehicleNo, r.Status, r.Remarks,
			len(r.Articles), len(r.Boxes), r.TotalNetWeightGm, r.TotalGrossWeightGm,
		)
		totalNet = totalNet.Add(decimal.NewFromFloat(r.TotalNetWeightGm))
		totalGross = totalGross.Add(decimal.NewFromFloat(r.TotalGrossWeightGm))

		for _, a := range r.Articles {
			var skuID interface{}
			if a.SkuID != nil {
				skuID = *a.SkuID
			}
			value := decimal.NewFromFloat(a.QuantityUnits).Mul(decimal.NewFromFloat(a.UnitRate)).Round(2)
			w.row(SheetArticles, articleRow,
				r.ConsignmentID, a.LineNumber, a.ArticleID, skuID, a.MaterialType, a.ItemCategory,
				a.SubCategory, a.ItemDescription, a.QuantityUnits, a.PackSizeGm, a.NoOfPackets, a.Uom,
				a.NetWeightGm, a.TotalWeightGm, a.BatchNumber, a.UnitRate, value.InexactFloat64(),
			)
			articleRow++
		}

		for _, b := range r.Boxes {
			w.row(SheetBoxes, boxRow,
				r.ConsignmentID, b.BoxID, b.BoxNumber, b.Article, b.NetWeightGm, b.GrossWeightGm, b.LotNumber,
			)
			boxRow++
		}
	}

	totalRow := len(records) + 2
	w.row(SheetOutward, totalRow, "TOTAL", nil, nil, nil, nil, nil, nil, nil,
		totalNet.Round(3).InexactFloat64(), totalGross.Round(3).InexactFloat64())
	if w.err != nil {
		return nil, w.err
	}

	for _, sheet := range []string{SheetOutward, SheetArticles, SheetBoxes} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(SheetOutward, totalRow, totalRow, bold); err != nil {
		return nil, err
	}
	return f, nil
}

// Write builds the workbook and streams it to out.
func Write(out io.Writer, records []models.OutwardRecord) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(out)
}

type writer struct {
	f   *excelize.File
	err error
}

func (w *writer) row(sheet string, row int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
}
