package finance

import "time"

// AccountSeries 单个账户参与合并计算的输入：外部现金流加最新一次估值。
type AccountSeries struct {
	Flows     []Flow
	Valuation Point
}

// AccountResult 单个账户的计算结果
type AccountResult struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Xirr  *float64  `json:"xirr"`
}

// Result 合并计算结果
type Result struct {
	Accounts map[string]AccountResult
	Nav      float64
	Irr      *float64
}

// Consolidate 逐个账户计算 XIRR，并把所有账户合并成一条现金流序列计算整体 XIRR。
//
// 每个账户把最新估值作为正向终值流追加到自身现金流之后。合并序列由所有
// 账户的非终值流加上一条合成终值流构成，合成终值流的金额为各账户终值之和，
// 日期取所有账户估值日期中最晚的一个。各账户估值日期不一致时这是一个有意
// 为之的近似：视同所有账户在最晚日期同时按市值结算，日期偏差较大时会高估
// 或低估整体收益率。
//
// 合并 NAV 为各账户最新估值的简单相加，不做任何日期对齐。
func Consolidate(series map[string]AccountSeries) Result {
	result := Result{
		Accounts: make(map[string]AccountResult, len(series)),
	}

	var allFlows []Flow
	var totalTerminal float64
	var maxDate Point
	var hasAny bool

	for id, s := range series {
		flows := make([]Flow, 0, len(s.Flows)+1)
		flows = append(flows, s.Flows...)
		flows = append(flows, Flow{Date: s.Valuation.Date, Amount: s.Valuation.Value})

		result.Accounts[id] = AccountResult{
			Date:  s.Valuation.Date,
			Value: s.Valuation.Value,
			Xirr:  InternalRateOfReturn(flows),
		}

		allFlows = append(allFlows, s.Flows...)
		totalTerminal += s.Valuation.Value
		result.Nav += s.Valuation.Value
		if !hasAny || s.Valuation.Date.After(maxDate.Date) {
			maxDate = s.Valuation
			hasAny = true
		}
	}

	if hasAny {
		allFlows = append(allFlows, Flow{Date: maxDate.Date, Amount: totalTerminal})
		result.Irr = InternalRateOfReturn(allFlows)
	}

	return result
}
