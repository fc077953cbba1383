package extractor

import (
	"regexp"
	"strings"
)

// UBS 投资组合报告解析器。
// 这类报告只有合并后的总市值，没有单笔资金流水，
// 因此只产出一条估值记录，不产出现金流。
type UBS struct {
	asofRx *regexp.Regexp
}

func NewUBS() *UBS {
	return &UBS{
		// "as of May 27 2025" 之类的字样
		asofRx: regexp.MustCompile(`(?i)as of\s+([A-Za-z]{3,9} \d{1,2},? \d{4})`),
	}
}

func (e *UBS) Name() string {
	return "UBS"
}

func (e *UBS) Detect(lowerText string) bool {
	keys := []string{
		"portfolio holdings",
		"equity summary",
		"asset allocation by account",
		"executive summary",
		"ubs financial services",
		"ubs fs",
	}
	for _, k := range keys {
		if strings.Contains(lowerText, k) {
			return true
		}
	}
	return false
}

func (e *UBS) Extract(text string) (*Statement, error) {
	statement := &Statement{
		Broker:   e.Name(),
		Account:  "UBS Consolidated",
		Currency: "USD",
	}

	if m := e.asofRx.FindStringSubmatch(text); m != nil {
		statement.AsOf = ParseDateEN(m[1])
	}

	// "Total Portfolio" 所在行带着总市值，取最后一次出现的
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "total portfolio") {
			if v := ParseMoney(line); v != nil {
				statement.TotalValue = v
			}
		}
	}

	return statement, nil
}
