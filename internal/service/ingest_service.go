package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dushixiang/folio/internal/config"
	"github.com/dushixiang/folio/internal/extractor"
	"github.com/dushixiang/folio/internal/models"
	"github.com/dushixiang/folio/internal/repo"
	"github.com/dushixiang/folio/internal/telegram"
	"github.com/dushixiang/folio/internal/xe"
	"github.com/dushixiang/folio/pkg/nostd"
	"github.com/dushixiang/folio/pkg/pdftext"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TextReader 报告文本读取接口，测试时可以注入假的实现
type TextReader interface {
	ReadText(path string, maxPages int) (string, error)
	ReadTextAll(path string) (string, error)
}

type pdfTextReader struct{}

func (pdfTextReader) ReadText(path string, maxPages int) (string, error) {
	return pdftext.ReadText(path, maxPages)
}

func (pdfTextReader) ReadTextAll(path string) (string, error) {
	return pdftext.ReadTextAll(path)
}

// NewPDFTextReader 默认的 PDF 文本读取实现
func NewPDFTextReader() TextReader {
	return pdfTextReader{}
}

// FileReport 单个文件的导入结果
type FileReport struct {
	File    string                 `json:"file"`
	Status  string                 `json:"status"` // ok / skipped / error
	Broker  string                 `json:"broker,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Summary map[string]interface{} `json:"summary,omitempty"`
}

const (
	StatusOk      = "ok"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// 扫描结果的通知模板
const scanNotifyTemplate = `*报告扫描完成*
目录: {{dir}}
成功 {{ok}} / 跳过 {{skipped}} / 失败 {{failed}}{{detail}}`

// IngestService 负责扫描报告目录并把解析结果写入数据库。
// 扫描可以和 KPI 查询并发执行，查询永远读到的是已提交的部分数据。
type IngestService struct {
	logger *zap.Logger

	*orz.Service
	sourceFileRepo   *repo.SourceFileRepo
	brokerRepo       *repo.BrokerRepo
	accountRepo      *repo.AccountRepo
	cashFlowRepo     *repo.CashFlowRepo
	valuationRepo    *repo.ValuationRepo
	ingestReportRepo *repo.IngestReportRepo

	registry *extractor.Registry
	reader   TextReader
	conf     *config.Config
	tg       *telegram.Telegram

	scanMutex sync.Mutex // 同一时刻只允许一次扫描
	cron      *cron.Cron
	stopChan  chan struct{}
	stopped   bool
}

// NewIngestService 创建导入服务
func NewIngestService(
	db *gorm.DB,
	conf *config.Config,
	registry *extractor.Registry,
	reader TextReader,
	tg *telegram.Telegram,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		logger:           logger,
		Service:          orz.NewService(db),
		sourceFileRepo:   repo.NewSourceFileRepo(db),
		brokerRepo:       repo.NewBrokerRepo(db),
		accountRepo:      repo.NewAccountRepo(db),
		cashFlowRepo:     repo.NewCashFlowRepo(db),
		valuationRepo:    repo.NewValuationRepo(db),
		ingestReportRepo: repo.NewIngestReportRepo(db),
		registry:         registry,
		reader:           reader,
		conf:             conf,
		tg:               tg,
	}
}

// detect 读取前几页文本，返回第一个能处理该文件的解析器
func (s *IngestService) detect(path string) extractor.Extractor {
	text, err := s.reader.ReadText(path, 3)
	if err != nil {
		return nil
	}
	return s.registry.Detect(text)
}

// listPdfFiles 列出目录下的全部 PDF 文件名（排序后）
func (s *IngestService) listPdfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xe.ErrDataDirNotFound
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ScanAll 扫描报告目录并导入所有 PDF。重复调用时如果上一次还没结束，
// 返回 ErrScanAlreadyRunning 而不是排队等待。
func (s *IngestService) ScanAll(ctx context.Context) (*models.IngestReport, error) {
	if !s.scanMutex.TryLock() {
		return nil, xe.ErrScanAlreadyRunning
	}
	defer s.scanMutex.Unlock()

	dir := s.dataDir()
	startedAt := time.Now()

	names, err := s.listPdfFiles(dir)
	if err != nil {
		return nil, err
	}

	var files []FileReport
	for _, name := range names {
		path, err := nostd.SafePathJoin(dir, name)
		if err != nil {
			files = append(files, FileReport{File: name, Status: StatusError, Error: err.Error()})
			continue
		}
		files = append(files, s.IngestFile(ctx, path))
	}

	report := &models.IngestReport{
		ID:         ulid.Make().String(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	for _, f := range files {
		switch f.Status {
		case StatusOk:
			report.Ok++
		case StatusSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	payload, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file reports: %w", err)
	}
	report.Files = datatypes.JSON(payload)

	if err := s.ingestReportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save ingest report: %w", err)
	}

	s.logger.Info("directory scan finished",
		zap.String("dir", dir),
		zap.Int("ok", report.Ok),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	s.notify(report, files)

	return report, nil
}

// IngestFile 导入单个报告文件。同一路径只会导入一次（按来源幂等），
// 再次遇到时跳过，不管内容有没有变化。
func (s *IngestService) IngestFile(ctx context.Context, path string) FileReport {
	name := baseName(path)

	ex := s.detect(path)
	if ex == nil {
		return FileReport{File: name, Status: StatusSkipped, Reason: "no match"}
	}

	exists, err := s.sourceFileRepo.ExistsByPath(ctx, path)
	if err != nil {
		return FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()}
	}
	if exists {
		return FileReport{File: name, Status: StatusSkipped, Broker: ex.Name(), Reason: "already ingested"}
	}

	text, err := s.reader.ReadTextAll(path)
	if err != nil {
		return FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()}
	}
	statement, err := ex.Extract(text)
	if err != nil {
		return FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()}
	}

	err = s.Transaction(ctx, func(ctx context.Context) error {
		return s.persistStatement(ctx, path, statement)
	})
	if err != nil {
		return FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()}
	}

	return FileReport{File: name, Status: StatusOk, Broker: ex.Name(), Summary: statement.Headline()}
}

// persistStatement 把一份解析结果落库：来源文件、估值和外部现金流
func (s *IngestService) persistStatement(ctx context.Context, path string, statement *extractor.Statement) error {
	broker, err := s.getOrCreateBroker(ctx, statement.Broker)
	if err != nil {
		return err
	}
	account, err := s.getOrCreateAccount(ctx, broker.ID, statement.Account, statement.Currency)
	if err != nil {
		return err
	}

	sourceFile := &models.SourceFile{
		ID:       ulid.Make().String(),
		BrokerID: broker.ID,
		Path:     path,
		AsOfDate: statement.AsOf,
	}
	if err := s.sourceFileRepo.Create(ctx, sourceFile); err != nil {
		return fmt.Errorf("failed to create source file: %w", err)
	}

	if statement.TotalValue != nil {
		date := time.Now().Truncate(24 * time.Hour)
		if statement.AsOf != nil {
			date = *statement.AsOf
		}
		valuation := &models.Valuation{
			ID:         ulid.Make().String(),
			AccountID:  account.ID,
			Date:       date,
			TotalValue: *statement.TotalValue,
			Method:     "reported",
		}
		if err := s.valuationRepo.Create(ctx, valuation); err != nil {
			return fmt.Errorf("failed to create valuation: %w", err)
		}
	}

	for _, f := range statement.Flows {
		flow := &models.CashFlow{
			ID:        ulid.Make().String(),
			AccountID: account.ID,
			Date:      f.Date,
			Amount:    f.Amount,
			Currency:  statement.Currency,
			Note:      f.Note,
		}
		if err := s.cashFlowRepo.Create(ctx, flow); err != nil {
			return fmt.Errorf("failed to create cash flow: %w", err)
		}
	}

	return nil
}

func (s *IngestService) getOrCreateBroker(ctx context.Context, name string) (models.Broker, error) {
	broker, err := s.brokerRepo.FindByName(ctx, name)
	if err == nil {
		return broker, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return broker, err
	}
	broker = models.Broker{
		ID:   ulid.Make().String(),
		Name: name,
	}
	return broker, s.brokerRepo.Create(ctx, &broker)
}

func (s *IngestService) getOrCreateAccount(ctx context.Context, brokerID, name, currency string) (models.Account, error) {
	account, err := s.accountRepo.FindByBrokerIdAndName(ctx, brokerID, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return account, err
	}
	if currency == "" {
		currency = "USD"
	}
	account = models.Account{
		ID:           ulid.Make().String(),
		BrokerID:     brokerID,
		Name:         name,
		BaseCurrency: currency,
	}
	return account, s.accountRepo.Create(ctx, &account)
}

// Summaries 直接读取目录里每份 PDF 的关键数字，不访问数据库，
// 反映的是文件的原始内容而不是已导入的数据
func (s *IngestService) Summaries(ctx context.Context) ([]FileReport, error) {
	dir := s.dataDir()
	names, err := s.listPdfFiles(dir)
	if err != nil {
		return nil, err
	}

	reports := make([]FileReport, 0, len(names))
	for _, name := range names {
		path, err := nostd.SafePathJoin(dir, name)
		if err != nil {
			reports = append(reports, FileReport{File: name, Status: StatusError, Error: err.Error()})
			continue
		}
		ex := s.detect(path)
		if ex == nil {
			reports = append(reports, FileReport{File: name, Status: StatusSkipped, Reason: "no match"})
			continue
		}
		text, err := s.reader.ReadTextAll(path)
		if err != nil {
			reports = append(reports, FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()})
			continue
		}
		statement, err := ex.Extract(text)
		if err != nil {
			reports = append(reports, FileReport{File: name, Status: StatusError, Broker: ex.Name(), Error: err.Error()})
			continue
		}
		reports = append(reports, FileReport{File: name, Status: StatusOk, Broker: ex.Name(), Summary: statement.Headline()})
	}
	return reports, nil
}

// LatestReport 获取最近一次扫描报告
func (s *IngestService) LatestReport(ctx context.Context) (models.IngestReport, error) {
	return s.ingestReportRepo.FindLatest(ctx)
}

// StartWorker 启动后台扫描：启动时扫一次（可配置），之后按周期重扫。
// KPI 查询不等待扫描完成，永远按当前已提交的数据计算。
func (s *IngestService) StartWorker(ctx context.Context) error {
	s.stopChan = make(chan struct{})
	s.stopped = false

	if s.conf.Data.ScanOnBoot {
		go func() {
			if _, err := s.ScanAll(ctx); err != nil {
				s.logger.Error("boot scan failed", zap.Error(err))
			}
		}()
	}

	interval := s.conf.Data.IntervalMinutes
	if interval <= 0 {
		s.logger.Info("periodic rescan disabled")
		return nil
	}

	cronExpr := fmt.Sprintf("*/%d * * * *", interval)
	s.logger.Info("ingest worker started",
		zap.String("dir", s.dataDir()),
		zap.Int("interval_minutes", interval),
		zap.String("cron_expression", cronExpr))

	s.cron = cron.New()
	_, err := s.cron.AddFunc(cronExpr, func() {
		if _, err := s.ScanAll(context.Background()); err != nil {
			if errors.Is(err, xe.ErrScanAlreadyRunning) {
				return
			}
			s.logger.Error("periodic scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cron.Start()

	go func() {
		select {
		case <-s.stopChan:
		case <-ctx.Done():
		}
		s.cron.Stop()
		s.logger.Info("ingest worker stopped")
	}()

	return nil
}

// StopWorker 停止后台扫描
func (s *IngestService) StopWorker() {
	if !s.stopped && s.stopChan != nil {
		close(s.stopChan)
		s.stopped = true
	}
}

func (s *IngestService) dataDir() string {
	if s.conf.Data.Dir != "" {
		return s.conf.Data.Dir
	}
	return "data"
}

// notify 把扫描结果推送到 Telegram（未配置时跳过）
func (s *IngestService) notify(report *models.IngestReport, files []FileReport) {
	if s.tg == nil || !s.conf.Telegram.Enabled || s.conf.Telegram.ChatID == "" {
		return
	}

	var detail strings.Builder
	for _, f := range files {
		if f.Status != StatusError {
			continue
		}
		detail.WriteString("\n⚠ ")
		detail.WriteString(telegram.EscapeMarkdown(f.File))
		detail.WriteString(": ")
		detail.WriteString(telegram.EscapeMarkdown(f.Error))
	}

	tmpl := fasttemplate.New(scanNotifyTemplate, "{{", "}}")
	msg := tmpl.ExecuteString(map[string]interface{}{
		"dir":     telegram.EscapeMarkdown(s.dataDir()),
		"ok":      strconv.Itoa(report.Ok),
		"skipped": strconv.Itoa(report.Skipped),
		"failed":  strconv.Itoa(report.Failed),
		"detail":  detail.String(),
	})
	if err := s.tg.Notify(s.conf.Telegram.ChatID, msg); err != nil {
		s.logger.Warn("failed to send scan notification", zap.Error(err))
	}
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
