package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outward-wms/database"
	"outward-wms/repositories"
	"outward-wms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type capturedMail struct {
	to      []string
	subject string
	body    string
}

type captureNotifier struct {
	mails []capturedMail
}

func (n *captureNotifier) Send(to []string, subject, body string) error {
	n.mails = append(n.mails, capturedMail{to: to, subject: subject, body: body})
	return nil
}

func writeManifest(t *testing.T, path string, rows ...[]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestProcessorRun(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, database.SetupCompany(db))
	folder := t.TempDir()

	header := []interface{}{"Item Description", "Quantity", "UOM", "Packets", "Lot"}
	writeManifest(t, filepath.Join(folder, "ACME_march.xlsx"), header,
		[]interface{}{"Sugar 1kg", 2, "", 1, "L-7"},
		[]interface{}{"Unknown", 1})
	writeManifest(t, filepath.Join(folder, "GLOBEX.xlsx"), header,
		[]interface{}{"nothing we sell", 3})
	require.NoError(t, os.WriteFile(filepath.Join(folder, "broken.xlsx"), []byte("not a workbook"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("ignored"), 0o644))

	notifier := &captureNotifier{}
	p := &Processor{
		DB:         db,
		Company:    "acme",
		Folder:     folder,
		Notifier:   notifier,
		Recipients: []string{"ops@example.com"},
		Now:        func() time.Time { return time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC) },
	}

	report, err := p.Run()
	require.NoError(t, err)

	require.Len(t, report.Processed, 1)
	imported := report.Processed[0]
	assert.Equal(t, "ACME_march.xlsx", imported.File)
	assert.Equal(t, 1, imported.Imported)
	assert.Len(t, imported.Errors, 1)
	assert.NotEmpty(t, imported.ConsignmentID)

	require.Len(t, report.Failed, 2)
	assert.Equal(t, "GLOBEX.xlsx", report.Failed[0].File)
	assert.Contains(t, report.Failed[0].Errors, errNoArticles.Error())
	assert.Equal(t, "broken.xlsx", report.Failed[1].File)

	record, err := repositories.NewOutwardRepository(db).FindByConsignmentID("acme", imported.ConsignmentID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", record.Customer)
	assert.Equal(t, "2025-03-14", record.ConsignmentDate)
	require.Len(t, record.Boxes, 2)
	assert.Equal(t, "L-7", record.Boxes[0].LotNumber)

	assert.FileExists(t, filepath.Join(folder, processedDir, "ACME_march.xlsx"))
	assert.FileExists(t, filepath.Join(folder, failedDir, "GLOBEX.xlsx"))
	assert.FileExists(t, filepath.Join(folder, failedDir, "broken.xlsx"))
	assert.FileExists(t, filepath.Join(folder, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(folder, "ACME_march.xlsx"))

	require.Len(t, notifier.mails, 1)
	assert.Equal(t, "Outward manifests: 1 imported, 2 failed", notifier.mails[0].subject)
	assert.Contains(t, notifier.mails[0].body, imported.ConsignmentID)
}

func TestProcessorRun_EmptyFolder(t *testing.T) {
	notifier := &captureNotifier{}
	p := &Processor{Folder: t.TempDir(), Notifier: notifier, Recipients: []string{"ops@example.com"}}

	report, err := p.Run()
	require.NoError(t, err)
	assert.Empty(t, report.Processed)
	assert.Empty(t, report.Failed)
	assert.Empty(t, notifier.mails)
}

func TestCopyAndDeleteFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.xlsx")
	dst := filepath.Join(dir, "b.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	require.NoError(t, copyAndDeleteFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
	assert.NoFileExists(t, src)
}
