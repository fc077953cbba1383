package extractor

import (
	"strings"
	"time"
)

// RaymondJames 客户报告解析器。
// 报告里只有 "As of MM/DD/YYYY" 的截止日期和 "Current Value" 总市值。
type RaymondJames struct{}

func NewRaymondJames() *RaymondJames {
	return &RaymondJames{}
}

func (e *RaymondJames) Name() string {
	return "Raymond James"
}

func (e *RaymondJames) Detect(lowerText string) bool {
	if strings.Contains(lowerText, "raymond james") && strings.Contains(lowerText, "portfolio") {
		return true
	}
	return strings.Contains(lowerText, "current value")
}

func (e *RaymondJames) Extract(text string) (*Statement, error) {
	statement := &Statement{
		Broker:   e.Name(),
		Account:  "RJ Consolidated",
		Currency: "USD",
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if statement.AsOf == nil && strings.Contains(lower, "as of") {
			// 形如 "As of 07/23/2025"，取 as of 之后的第一个词
			rest := strings.TrimSpace(line[strings.Index(lower, "as of")+len("as of"):])
			if fields := strings.Fields(rest); len(fields) > 0 {
				if t, err := time.Parse("01/02/2006", fields[0]); err == nil {
					statement.AsOf = &t
				}
			}
		}
		if statement.TotalValue == nil && strings.Contains(lower, "current value") {
			statement.TotalValue = ParseMoney(line)
		}
	}

	return statement, nil
}
