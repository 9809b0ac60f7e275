package controllers_test

import (
	"bytes"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outward-wms/models"
	"outward-wms/routes"
	"outward-wms/services"
	"outward-wms/testutil"
	"outward-wms/wms/consignment"
	"outward-wms/wms/export"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type outwardResponse struct {
	ConsignmentID string                          `json:"consignment_id"`
	Customer      string                          `json:"customer"`
	Status        string                          `json:"status"`
	BoxCount      int                             `json:"box_count"`
	Articles      []models.OutwardArticle         `json:"articles"`
	Boxes         []models.OutwardBox             `json:"boxes"`
	BoxStats      map[string]consignment.BoxStats `json:"box_stats"`
	Summary       services.Summary                `json:"summary"`
}

func sugarArticle(qty float64) consignment.Article {
	return consignment.Article{
		ID:              "a1",
		MaterialType:    "RM",
		ItemCategory:    "SWEETENER",
		SubCategory:     "SUGAR",
		ItemDescription: "SUGAR 1KG",
		QuantityUnits:   qty,
		PackSizeGm:      1000,
		NoOfPackets:     1,
		UOM:             "box",
		BatchNumber:     "BT-20250314093000",
	}
}

func outwardInput(qty float64) services.OutwardInput {
	return services.OutwardInput{
		ConsignmentDate: "2025-03-14",
		Customer:        "ACME",
		VehicleNo:       "B 1234 XY",
		Articles:        []consignment.Article{sugarArticle(qty)},
	}
}

func createOutward(t *testing.T, env *testutil.TestEnv, input services.OutwardInput) outwardResponse {
	t.Helper()
	resp := env.Do("POST", "/outward", input)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out outwardResponse
	body := testutil.Decode(t, resp, &out)
	require.True(t, body.Success)
	return out
}

func TestOutward_CreateGeneratesIDAndBoxes(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})

	out := createOutward(t, env, outwardInput(2))

	assert.Equal(t, "OW"+time.Now().Format("060102")+"0001", out.ConsignmentID)
	assert.Equal(t, models.OutwardStatusDraft, out.Status)
	require.Len(t, out.Articles, 1)
	assert.Equal(t, "BOX", out.Articles[0].Uom)
	assert.Equal(t, 2000.0, out.Articles[0].NetWeightGm)
	require.Len(t, out.Boxes, 2)
	assert.Equal(t, 2, out.BoxCount)
	assert.Equal(t, 2, out.BoxStats["a1"].BoxCount)
	assert.Equal(t, 2000.0, out.Summary.TotalNetWeight)

	second := createOutward(t, env, outwardInput(1))
	assert.Equal(t, "OW"+time.Now().Format("060102")+"0002", second.ConsignmentID)
}

func TestOutward_DuplicateConsignmentID(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})

	input := outwardInput(1)
	input.ConsignmentID = "OW-MANUAL-1"
	createOutward(t, env, input)

	resp := env.Do("POST", "/outward", input)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := testutil.Decode(t, resp, nil)
	assert.False(t, body.Success)
}

func TestOutward_Validation(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})

	input := outwardInput(1)
	input.Customer = " "
	input.Articles[0].UOM = "CRATE"
	input.Articles[0].QuantityUnits = -2

	resp := env.Do("POST", "/outward", input)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := testutil.Decode(t, resp, nil)
	assert.Contains(t, body.Errors, "customer")

	input.Customer = "ACME"
	resp = env.Do("POST", "/outward", input)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body = testutil.Decode(t, resp, nil)
	assert.Equal(t, "is not a known unit", body.Errors["articles[0].uom"])
	assert.Equal(t, "must not be negative", body.Errors["articles[0].quantity_units"])
}

func TestOutward_GetUpdateDelete(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})
	created := createOutward(t, env, outwardInput(2))
	path := "/outward/" + created.ConsignmentID

	resp := env.Do("GET", path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got outwardResponse
	testutil.Decode(t, resp, &got)
	assert.Equal(t, "ACME", got.Customer)
	require.Len(t, got.Boxes, 2)

	// operator weighs box 1 and grows the article to three boxes
	input := outwardInput(3)
	input.Boxes = consignment.DeriveBoxes(input.Articles, []consignment.Box{got.Boxes[0].ToBox(), got.Boxes[1].ToBox()}, false)
	input.Boxes[0].GrossWeight = 1055
	resp = env.Do("PUT", path, input)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.Do("GET", path, nil)
	testutil.Decode(t, resp, &got)
	require.Len(t, got.Boxes, 3)
	assert.Equal(t, created.Boxes[0].BoxID, got.Boxes[0].BoxID)
	assert.Equal(t, 1055.0, got.Boxes[0].GrossWeightGm)
	assert.Equal(t, 1055.0, got.Summary.TotalGrossWeight)

	resp = env.Do("GET", path+"/history", nil)
	var history []models.TransactionHistory
	testutil.Decode(t, resp, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "created", history[0].Detail)
	assert.Equal(t, "updated", history[1].Detail)

	resp = env.Do("DELETE", path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.Do("GET", path, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = env.Do("PUT", path, input)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOutward_List(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})
	createOutward(t, env, outwardInput(1))
	other := outwardInput(1)
	other.Customer = "GLOBEX"
	createOutward(t, env, other)

	resp := env.Do("GET", "/outward?limit=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page services.OutwardPage
	testutil.Decode(t, resp, &page)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "GLOBEX", page.Items[0].Customer)

	resp = env.Do("GET", "/outward?search=acm", nil)
	testutil.Decode(t, resp, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 20, page.Limit)
}

func TestOutward_RequiresToken(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})
	env.Token = ""

	resp := env.Do("GET", "/outward", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOutward_Labels(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})
	created := createOutward(t, env, outwardInput(2))
	path := "/outward/" + created.ConsignmentID

	resp := env.Do("GET", path+"/labels.zpl", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "^XA"))
	assert.Contains(t, string(raw), created.ConsignmentID)

	resp = env.Do("GET", path+"/boxes/"+created.Boxes[1].BoxID+"/label.png", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 812, img.Bounds().Dx())

	resp = env.Do("GET", path+"/boxes/NOPE/label.png", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOutward_ExportAndArchive(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})
	created := createOutward(t, env, outwardInput(2))

	resp := env.Do("GET", "/outward/export", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetBoxes)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	resp = env.Do("POST", "/outward/"+created.ConsignmentID+"/archive", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestOutward_ImportArticles(t *testing.T) {
	env := testutil.Setup(t, routes.Dependencies{})

	sheet := excelize.NewFile()
	require.NoError(t, sheet.SetSheetRow("Sheet1", "A1", &[]interface{}{"Item Description", "Quantity", "UOM", "Packets", "Lot"}))
	require.NoError(t, sheet.SetSheetRow("Sheet1", "A2", &[]interface{}{"sugar 1kg", 2, "BOX", 1, "L-1"}))
	require.NoError(t, sheet.SetSheetRow("Sheet1", "A3", &[]interface{}{"MYSTERY ITEM", 1}))
	var xlsx bytes.Buffer
	require.NoError(t, sheet.Write(&xlsx))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "manifest.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", testutil.Path("/outward/import"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.Token)
	resp := env.Send(req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		TotalRows     int                   `json:"total_rows"`
		SuccessCount  int                   `json:"success_count"`
		ErrorCount    int                   `json:"error_count"`
		ErrorMessages []string              `json:"error_messages"`
		Articles      []consignment.Article `json:"articles"`
		Boxes         []consignment.Box     `json:"boxes"`
	}
	testutil.Decode(t, resp, &result)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, "SUGAR 1KG", result.Articles[0].ItemDescription)
	assert.NotNil(t, result.Articles[0].SkuID)
	require.Len(t, result.Boxes, 2)
	assert.Equal(t, "L-1", result.Boxes[0].LotNumber)
}
