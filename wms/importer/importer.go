// Package importer turns an article manifest spreadsheet into consignment articles,
// matching every row against the catalog. Rows that fail are reported and skipped.
package importer

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"outward-wms/wms/consignment"

	"github.com/xuri/excelize/v2"
)

// Manifest columns, in sheet order.
const (
	colDescription = iota
	colQuantity
	colUOM
	colPackets
	colLot
)

// Header captions recognised in the first row, upper-cased.
var (
	descriptionHeaders = []string{"ITEM DESCRIPTION", "DESCRIPTION", "ITEM", "ITEM NAME", "ARTICLE"}
	quantityHeaders    = []string{"QUANTITY", "QTY", "QUANTITY UNITS", "QUANTITY_UNITS", "UNITS"}
)

// CatalogEntry is the catalog data copied onto a matched article.
type CatalogEntry struct {
	SkuID           int64
	MaterialType    string
	ItemCategory    string
	SubCategory     string
	ItemDescription string
	UOM             string
	PackSizeGm      float64
}

// Catalog is keyed by the upper-cased, trimmed item description.
type Catalog map[string]CatalogEntry

func CatalogKey(description string) string {
	return strings.ToUpper(strings.TrimSpace(description))
}

type Result struct {
	TotalRows     int                   `json:"total_rows"`
	SuccessCount  int                   `json:"success_count"`
	ErrorCount    int                   `json:"error_count"`
	ErrorMessages []string              `json:"error_messages"`
	Articles      []consignment.Article `json:"articles"`
	Boxes         []consignment.Box     `json:"boxes"`
}

type Importer struct {
	Catalog Catalog
	NewID   func() string
	Now     func() time.Time
}

// ReadFile imports the first sheet of an xlsx document.
func (im *Importer) ReadFile(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return im.Rows(rows), nil
}

// Rows imports already read rows. A first row is skipped as the header only when its
// description or quantity cell carries a known caption.
func (im *Importer) Rows(rows [][]string) *Result {
	now := time.Now()
	if im.Now != nil {
		now = im.Now()
	}

	result := &Result{
		ErrorMessages: []string{},
		Articles:      []consignment.Article{},
	}

	first := 0
	if len(rows) > 0 && isHeader(rows[0]) {
		first = 1
	}

	seen := map[string]int{}
	lots := map[string]string{}
	for i := first; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1
		if blank(row) {
			continue
		}
		result.TotalRows++

		article, lot, err := im.parseRow(row, now)
		if err == nil {
			if prev, dup := seen[CatalogKey(article.ItemDescription)]; dup {
				err = fmt.Errorf("duplicate of row %d", prev)
			}
		}
		if err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		seen[CatalogKey(article.ItemDescription)] = rowNum
		if lot != "" {
			lots[article.Label()] = lot
		}
		result.Articles = append(result.Articles, article)
		result.SuccessCount++
	}

	result.Boxes = consignment.DeriveBoxesAt(result.Articles, nil, false, now)
	for i := range result.Boxes {
		if lot, ok := lots[result.Boxes[i].Article]; ok {
			result.Boxes[i].LotNumber = lot
		}
	}
	return result
}

func (im *Importer) parseRow(row []string, now time.Time) (consignment.Article, string, error) {
	description := cell(row, colDescription)
	if description == "" {
		return consignment.Article{}, "", fmt.Errorf("item description is required")
	}

	entry, ok := im.Catalog[CatalogKey(description)]
	if !ok {
		return consignment.Article{}, "", fmt.Errorf("item %q not found in catalog", description)
	}

	quantity, err := number(cell(row, colQuantity), 0)
	if err != nil {
		return consignment.Article{}, "", fmt.Errorf("invalid quantity: %w", err)
	}
	packets, err := number(cell(row, colPackets), 1)
	if err != nil {
		return consignment.Article{}, "", fmt.Errorf("invalid no of packets: %w", err)
	}

	uom := strings.ToUpper(cell(row, colUOM))
	if uom == "" {
		uom = strings.ToUpper(entry.UOM)
	}
	if uom == "" {
		uom = string(consignment.UOMBox)
	}
	if !consignment.UOM(uom).Known() {
		return consignment.Article{}, "", fmt.Errorf("unknown uom %q", uom)
	}

	id := im.NewID()
	skuID := entry.SkuID
	article := consignment.NewArticle(id, now)
	article.SkuID = &skuID
	article.MaterialType = entry.MaterialType
	article.ItemCategory = entry.ItemCategory
	article.SubCategory = entry.SubCategory
	article.ItemDescription = entry.ItemDescription
	article.PackSizeGm = entry.PackSizeGm
	article.QuantityUnits = quantity
	article.NoOfPackets = packets
	article.UOM = consignment.UOM(uom)
	if problem, bad := article.Problems()[consignment.FieldQuantityUnits]; bad {
		return consignment.Article{}, "", fmt.Errorf("invalid quantity: %s", problem)
	}

	return consignment.Normalize([]consignment.Article{article})[0], cell(row, colLot), nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isHeader(row []string) bool {
	return slices.Contains(descriptionHeaders, strings.ToUpper(cell(row, colDescription))) ||
		slices.Contains(quantityHeaders, strings.ToUpper(cell(row, colQuantity)))
}

func number(s string, fallback float64) (float64, error) {
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s is not a finite number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s is negative", s)
	}
	return v, nil
}
