package extractor

import (
	"strings"
	"time"
)

// FlowRecord 从报告中提取出的一笔外部现金流（已按投入为负、取出为正归一化）
type FlowRecord struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note"`
}

// Statement 从一份报告中提取出的归一化结果。
// 解析不到的字段保持 nil，由调用方决定怎么降级。
type Statement struct {
	Broker      string       `json:"broker"`
	Account     string       `json:"account"`
	Currency    string       `json:"currency"`
	AsOf        *time.Time   `json:"asof"`
	TotalValue  *float64     `json:"total_value"`
	PeriodStart *time.Time   `json:"period_start"`
	PeriodEnd   *time.Time   `json:"period_end"`
	BeginNav    *float64     `json:"begin_nav"`
	EndNav      *float64     `json:"end_nav"`
	Flows       []FlowRecord `json:"flows"`
}

// Headline 返回报告中的关键数字，用于不入库的预览展示
func (s *Statement) Headline() map[string]interface{} {
	headline := map[string]interface{}{
		"broker": s.Broker,
	}
	if s.AsOf != nil {
		headline["asof"] = s.AsOf.Format("2006-01-02")
	}
	if s.TotalValue != nil {
		headline["total_value"] = *s.TotalValue
	}
	if s.PeriodStart != nil && s.PeriodEnd != nil {
		headline["period"] = s.PeriodStart.Format("2006-01-02") + " ~ " + s.PeriodEnd.Format("2006-01-02")
	}
	if s.BeginNav != nil {
		headline["begin_nav"] = *s.BeginNav
	}
	if s.EndNav != nil {
		headline["end_nav"] = *s.EndNav
	}
	if len(s.Flows) > 0 {
		headline["flows"] = len(s.Flows)
	}
	return headline
}

// Extractor 券商报告解析器。Detect 接收小写化的文本判断能否处理，
// Extract 接收原始文本返回归一化结果，两者都不做任何持久化。
type Extractor interface {
	Name() string
	Detect(lowerText string) bool
	Extract(text string) (*Statement, error)
}

// Registry 按固定优先顺序排列的解析器列表。
// 在进程启动时显式构造一次，再传给需要派发的地方，不放全局变量。
type Registry struct {
	extractors []Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Default 内置解析器，越具体的排越前面
func Default() *Registry {
	return NewRegistry(
		NewUBS(),
		NewRaymondJames(),
		NewFreedomFinance(),
	)
}

// Detect 返回第一个声明能处理该文本的解析器，没有匹配返回 nil
func (r *Registry) Detect(text string) Extractor {
	lower := strings.ToLower(text)
	for _, ex := range r.extractors {
		if ex.Detect(lower) {
			return ex
		}
	}
	return nil
}
