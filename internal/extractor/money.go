package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 带可选符号的金额，千分位允许逗号或空格分隔
var moneyRx = regexp.MustCompile(`([-+])?\s*\$?\s*((?:\d{1,3}(?:[ ,]?\d{3})+|\d+)(?:\.\d+)?)`)

// ParseMoney 从一段文本中解析出第一个金额。
// "$1,234.56" -> 1234.56，"- 2 000" -> -2000，找不到返回 nil。
func ParseMoney(s string) *float64 {
	s = strings.ReplaceAll(s, "\u00A0", " ") // 不换行空格按普通空格处理
	m := moneyRx.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	raw := strings.NewReplacer(",", "", " ", "").Replace(m[2])
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	if m[1] == "-" {
		value = value.Neg()
	}
	f := value.InexactFloat64()
	return &f
}

// ParseDateEN 解析 "May 27 2025" 或 "May 27, 2025" 形式的英文日期
func ParseDateEN(s string) *time.Time {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range []string{"January 2 2006", "Jan 2 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDateISO 解析 YYYY-MM-DD 形式的日期，多余的尾部内容忽略
func ParseDateISO(s string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// Midpoint 两个日期的中点（向下取整到天）
func Midpoint(d0, d1 time.Time) time.Time {
	return d0.Add(d1.Sub(d0) / 2).Truncate(24 * time.Hour)
}
