package main

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"outward-wms/notify"
	"outward-wms/services"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

var errNoArticles = errors.New("no row matched the catalog")

// Processor turns every .xlsx manifest in Folder into an outward consignment and
// files the manifest under processed/ or failed/.
type Processor struct {
	DB         *gorm.DB
	Company    string
	Folder     string
	Notifier   notify.Notifier
	Recipients []string
	Now        func() time.Time
}

type FileResult struct {
	File          string   `json:"file"`
	ConsignmentID string   `json:"consignment_id,omitempty"`
	Imported      int      `json:"imported"`
	Errors        []string `json:"errors,omitempty"`
}

type Report struct {
	Processed []FileResult `json:"processed"`
	Failed    []FileResult `json:"failed"`
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Processor) Run() (*Report, error) {
	files, err := filepath.Glob(filepath.Join(p.Folder, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.Folder, err)
	}
	sort.Strings(files)

	report := &Report{Processed: []FileResult{}, Failed: []FileResult{}}
	for _, file := range files {
		result, err := p.processFile(file)
		target := processedDir
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			target = failedDir
			report.Failed = append(report.Failed, result)
			zap.L().Warn("manifest failed", zap.String("file", result.File), zap.Error(err))
		} else {
			report.Processed = append(report.Processed, result)
			zap.L().Info("manifest imported",
				zap.String("file", result.File),
				zap.String("consignment_id", result.ConsignmentID),
				zap.Int("articles", result.Imported))
		}

		if err := moveFile(file, filepath.Join(p.Folder, target)); err != nil {
			return report, fmt.Errorf("move %s: %w", file, err)
		}
	}

	if len(files) > 0 {
		p.notify(report)
	}
	return report, nil
}

func (p *Processor) processFile(path string) (FileResult, error) {
	result := FileResult{File: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return result, err
	}
	imported, err := services.ImportArticles(p.DB, f)
	f.Close()
	if err != nil {
		return result, err
	}

	result.Errors = imported.ErrorMessages
	result.Imported = imported.SuccessCount
	if imported.SuccessCount == 0 {
		return result, errNoArticles
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	customer := stem
	if i := strings.Index(stem, "_"); i > 0 {
		customer = stem[:i]
	}

	svc := services.NewOutwardService(p.DB)
	detail, err := svc.Create(p.Company, 0, services.OutwardInput{
		ConsignmentDate: p.now().Format("2006-01-02"),
		Customer:        customer,
		Remarks:         "imported from " + result.File,
		Articles:        imported.Articles,
		Boxes:           imported.Boxes,
	})
	if err != nil {
		return result, err
	}
	result.ConsignmentID = detail.ConsignmentID
	return result, nil
}

func (p *Processor) notify(report *Report) {
	if p.Notifier == nil || len(p.Recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Outward manifests: %d imported, %d failed", len(report.Processed), len(report.Failed))
	if err := p.Notifier.Send(p.Recipients, subject, reportBody(report)); err != nil {
		zap.L().Warn("processor notification failed", zap.Error(err))
	}
}

func reportBody(report *Report) string {
	var b strings.Builder
	b.WriteString("<html><body><h3>Outward manifest import</h3><ul>")
	for _, r := range report.Processed {
		fmt.Fprintf(&b, "<li>%s: consignment <strong>%s</strong>, %d articles",
			html.EscapeString(r.File), html.EscapeString(r.ConsignmentID), r.Imported)
		if len(r.Errors) > 0 {
			fmt.Fprintf(&b, ", %d rows skipped", len(r.Errors))
		}
		b.WriteString("</li>")
	}
	for _, r := range report.Failed {
		fmt.Fprintf(&b, "<li>%s: failed (%s)</li>", html.EscapeString(r.File), html.EscapeString(strings.Join(r.Errors, "; ")))
	}
	b.WriteString("</ul><p>This is an auto-generated email. Please do not reply.</p></body></html>")
	return b.String()
}

// moveFile renames src into dir, copying when rename is not possible across devices.
func moveFile(src, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyAndDeleteFile(src, dst)
}

func copyAndDeleteFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destinationFile.Close()

	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return err
	}
	sourceFile.Close()
	return os.Remove(src)
}
