package export

import (
	"bytes"
	"testing"

	"outward-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []models.OutwardRecord {
	sku := int64(4)
	return []models.OutwardRecord{
		{
			ConsignmentID:      "OW2503140001",
			ConsignmentDate:    "2025-03-14",
			Customer:           "ACME",
			Status:             models.OutwardStatusDraft,
			TotalNetWeightGm:   2000.1,
			TotalGrossWeightGm: 2100.2,
			Articles: []models.OutwardArticle{
				{LineNumber: 1, ArticleID: "a1", SkuID: &sku, ItemDescription: "SUGAR 1KG", QuantityUnits: 2, PackSizeGm: 1000, NoOfPackets: 1, Uom: "BOX", NetWeightGm: 2000, UnitRate: 12.5},
			},
			Boxes: []models.OutwardBox{
				{BoxID: "250314SUGAR1KG1", BoxNumber: 1, Article: "SUGAR 1KG", NetWeightGm: 1000, GrossWeightGm: 1050.1},
				{BoxID: "250314SUGAR1KG2", BoxNumber: 2, Article: "SUGAR 1KG", NetWeightGm: 1000, GrossWeightGm: 1050.1, LotNumber: "L-2"},
			},
		},
		{
			ConsignmentID:      "OW2503140002",
			ConsignmentDate:    "2025-03-14",
			Customer:           "GLOBEX",
			Status:             models.OutwardStatusApproved,
			TotalNetWeightGm:   0.2,
			TotalGrossWeightGm: 0,
		},
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	f, err := Workbook(sampleRecords())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetOutward, SheetArticles, SheetBoxes}, f.GetSheetList())

	outward, err := f.GetRows(SheetOutward)
	require.NoError(t, err)
	require.Len(t, outward, 4)
	assert.Equal(t, "Consignment ID", outward[0][0])
	assert.Equal(t, "OW2503140001", outward[1][0])
	assert.Equal(t, "2", outward[1][7])
	assert.Equal(t, "GLOBEX", outward[2][2])

	articles, err := f.GetRows(SheetArticles)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "4", articles[1][3])
	assert.Equal(t, "SUGAR 1KG", articles[1][7])
	assert.Equal(t, "25", articles[1][16])

	boxes, err := f.GetRows(SheetBoxes)
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, "250314SUGAR1KG2", boxes[2][1])
	assert.Equal(t, "L-2", boxes[2][6])
}

func TestWorkbook_TotalRowIsExact(t *testing.T) {
	f, err := Workbook(sampleRecords())
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue(SheetOutward, "A4")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", label)

	net, err := f.GetCellValue(SheetOutward, "I4")
	require.NoError(t, err)
	assert.Equal(t, "2000.3", net)

	gross, err := f.GetCellValue(SheetOutward, "J4")
	require.NoError(t, err)
	assert.Equal(t, "2100.2", gross)
}

func TestWrite_ProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetOutward)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TOTAL", rows[1][0])
}
