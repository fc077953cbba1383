package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dushixiang/folio/internal/config"
	"github.com/dushixiang/folio/internal/extractor"
	"github.com/dushixiang/folio/internal/models"
	"github.com/dushixiang/folio/internal/xe"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ubsStatementText = `UBS Financial Services Inc.
Executive Summary
Prepared for sample client as of May 27 2025
Total Portfolio $ 1,234,567.89
`

const freedomStatementText = `Freedom Finance Global PLC
Отчет брокера за период 2024-01-01 - 2024-06-30
Остатки на начало периода
Чистые активы USD 10 000.00

Движение денежных средств
+ 5 000.00
Ввод денежных средств
2024-02-15

1 200.00
Вывод денежных средств
2024-05-10

Остатки на конец периода
Чистые активы USD 15 300.00
`

// fakeTextReader 按文件名返回预置文本，避免测试里解析真实 PDF
type fakeTextReader struct {
	texts map[string]string
}

func (f fakeTextReader) ReadText(path string, maxPages int) (string, error) {
	text, ok := f.texts[filepath.Base(path)]
	if !ok {
		return "", fmt.Errorf("no text for %s", path)
	}
	return text, nil
}

func (f fakeTextReader) ReadTextAll(path string) (string, error) {
	return f.ReadText(path, 0)
}

func newTestIngestService(t *testing.T, db *gorm.DB, dir string, texts map[string]string) *IngestService {
	t.Helper()

	conf := &config.Config{Data: config.DataConf{Dir: dir}}
	return NewIngestService(db, conf, extractor.Default(), fakeTextReader{texts: texts}, nil, zap.NewNop())
}

func touchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanAllIngestsStatements(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	touchFiles(t, dir, "ubs-2025-05.pdf", "ff-2024-h1.pdf", "unknown.pdf", "notes.txt")

	svc := newTestIngestService(t, db, dir, map[string]string{
		"ubs-2025-05.pdf": ubsStatementText,
		"ff-2024-h1.pdf":  freedomStatementText,
		"unknown.pdf":     "some unrelated document",
	})

	report, err := svc.ScanAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Ok != 2 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("report ok/skipped/failed=%d/%d/%d want 2/1/0", report.Ok, report.Skipped, report.Failed)
	}

	var files []FileReport
	if err := json.Unmarshal(report.Files, &files); err != nil {
		t.Fatal(err)
	}
	// 目录扫描按文件名排序，txt 文件不参与
	if len(files) != 3 {
		t.Fatalf("files=%d want 3", len(files))
	}
	if files[0].File != "ff-2024-h1.pdf" || files[0].Status != StatusOk {
		t.Fatalf("files[0]=%+v", files[0])
	}
	if files[2].File != "unknown.pdf" || files[2].Status != StatusSkipped || files[2].Reason != "no match" {
		t.Fatalf("files[2]=%+v", files[2])
	}

	var brokers []models.Broker
	if err := db.Find(&brokers).Error; err != nil {
		t.Fatal(err)
	}
	if len(brokers) != 2 {
		t.Fatalf("brokers=%d want 2", len(brokers))
	}

	var valuations []models.Valuation
	if err := db.Order("date ASC").Find(&valuations).Error; err != nil {
		t.Fatal(err)
	}
	if len(valuations) != 2 {
		t.Fatalf("valuations=%d want 2", len(valuations))
	}
	if valuations[0].TotalValue != 15300 || !valuations[0].Date.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("valuations[0]=%+v", valuations[0])
	}
	if valuations[1].TotalValue != 1234567.89 {
		t.Fatalf("valuations[1]=%+v", valuations[1])
	}

	var flows []models.CashFlow
	if err := db.Order("date ASC").Find(&flows).Error; err != nil {
		t.Fatal(err)
	}
	if len(flows) != 2 {
		t.Fatalf("flows=%d want 2", len(flows))
	}
	if flows[0].Amount != -5000 || flows[1].Amount != 1200 {
		t.Fatalf("flow amounts=%v/%v", flows[0].Amount, flows[1].Amount)
	}
}

func TestScanAllIsIdempotentByPath(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	touchFiles(t, dir, "ubs.pdf")

	svc := newTestIngestService(t, db, dir, map[string]string{"ubs.pdf": ubsStatementText})
	ctx := context.Background()

	if _, err := svc.ScanAll(ctx); err != nil {
		t.Fatal(err)
	}
	report, err := svc.ScanAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Ok != 0 || report.Skipped != 1 {
		t.Fatalf("second scan ok/skipped=%d/%d want 0/1", report.Ok, report.Skipped)
	}

	// 重复扫描不会产生新的估值
	var count int64
	if err := db.Model(&models.Valuation{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("valuations=%d want 1", count)
	}
}

func TestScanAllMissingDirectory(t *testing.T) {
	db := openTestDB(t)
	svc := newTestIngestService(t, db, "/no/such/dir", nil)

	if _, err := svc.ScanAll(context.Background()); err != xe.ErrDataDirNotFound {
		t.Fatalf("err=%v want ErrDataDirNotFound", err)
	}
}

func TestIngestFileBadStatementReported(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	touchFiles(t, dir, "broken.pdf")

	// 能匹配到解析器，但读全文时失败
	svc := newTestIngestService(t, db, dir, nil)
	report := svc.IngestFile(context.Background(), filepath.Join(dir, "broken.pdf"))
	if report.Status != StatusSkipped {
		t.Fatalf("status=%s want skipped when no text can be read", report.Status)
	}
}

func TestLatestReport(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	touchFiles(t, dir, "ubs.pdf")

	svc := newTestIngestService(t, db, dir, map[string]string{"ubs.pdf": ubsStatementText})
	ctx := context.Background()

	if _, err := svc.ScanAll(ctx); err != nil {
		t.Fatal(err)
	}
	latest, err := svc.LatestReport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Ok != 1 {
		t.Fatalf("latest report ok=%d want 1", latest.Ok)
	}
}

func TestSummariesDoesNotTouchDatabase(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	touchFiles(t, dir, "ubs.pdf")

	svc := newTestIngestService(t, db, dir, map[string]string{"ubs.pdf": ubsStatementText})
	summaries, err := svc.Summaries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Status != StatusOk {
		t.Fatalf("summaries=%+v", summaries)
	}
	if summaries[0].Summary["total_value"] != 1234567.89 {
		t.Fatalf("summary=%+v", summaries[0].Summary)
	}

	var count int64
	if err := db.Model(&models.SourceFile{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("source files=%d want 0", count)
	}
}
