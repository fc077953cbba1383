package extractor

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// FreedomFinance 券商报告解析器。
// 报告为俄文，包含报告期、期初/期末净资产以及出入金明细表，
// 是三个格式里唯一能提取单笔外部现金流的。
type FreedomFinance struct {
	periodRx   *regexp.Regexp
	beginNavRx *regexp.Regexp
	endNavRx   *regexp.Regexp
	flowLineRx *regexp.Regexp
	dateRx     *regexp.Regexp
}

func NewFreedomFinance() *FreedomFinance {
	return &FreedomFinance{
		periodRx:   regexp.MustCompile(`(?is)Отч[её]т брокера за период\s+(\d{4}-\d{2}-\d{2}).*?-\s*(\d{4}-\d{2}-\d{2})`),
		beginNavRx: regexp.MustCompile(`(?is)Остатки на начало периода.*?Чистые активы.*?(?:USD|US\$).{0,10}([0-9\s.,-]+)`),
		endNavRx:   regexp.MustCompile(`(?is)Остатки на конец периода.*?Чистые активы.*?(?:USD|US\$).{0,10}([0-9\s.,-]+)`),
		flowLineRx: regexp.MustCompile(`(?i)(Ввод денежных средств|Вывод денежных средств)`),
		dateRx:     regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	}
}

func (e *FreedomFinance) Name() string {
	return "Freedom Finance"
}

func (e *FreedomFinance) Detect(lowerText string) bool {
	if !strings.Contains(lowerText, "freedom finance") {
		return false
	}
	return strings.Contains(lowerText, "отчет брокера") || strings.Contains(lowerText, "отчёт брокера")
}

func (e *FreedomFinance) Extract(text string) (*Statement, error) {
	statement := &Statement{
		Broker:   e.Name(),
		Account:  "FF Account",
		Currency: "USD",
	}

	if m := e.periodRx.FindStringSubmatch(text); m != nil {
		statement.PeriodStart = ParseDateISO(m[1])
		statement.PeriodEnd = ParseDateISO(m[2])
	}
	if m := e.beginNavRx.FindString(text); m != "" {
		statement.BeginNav = ParseMoney(m)
	}
	if m := e.endNavRx.FindString(text); m != "" {
		statement.EndNav = ParseMoney(m)
	}
	// 期末净资产就是这份报告给出的账户估值
	statement.AsOf = statement.PeriodEnd
	statement.TotalValue = statement.EndNav

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !e.flowLineRx.MatchString(line) {
			continue
		}
		// 日期和金额不一定跟关键词在同一行，前后各看两行
		lo, hi := i-2, i+3
		if lo < 0 {
			lo = 0
		}
		if hi > len(lines) {
			hi = len(lines)
		}
		ctx := strings.Join(lines[lo:hi], "\n")

		dateMatch := e.dateRx.FindString(ctx)
		amount := ParseMoney(ctx)
		if dateMatch == "" || amount == nil {
			continue
		}
		flowDate := ParseDateISO(dateMatch)
		if flowDate == nil {
			flowDate = statement.PeriodEnd
		}
		if flowDate == nil {
			now := time.Now().Truncate(24 * time.Hour)
			flowDate = &now
		}

		// 入金是投资人投入，记为负数；出金记为正数
		value := math.Abs(*amount)
		note := "withdrawal"
		if strings.Contains(strings.ToLower(line), "ввод") {
			value = -value
			note = "contribution"
		}
		statement.Flows = append(statement.Flows, FlowRecord{
			Date:   *flowDate,
			Amount: value,
			Note:   note,
		})
	}

	return statement, nil
}
