package finance

import (
	"math"
	"sort"
	"time"
)

// Flow 外部现金流。符号约定：投资人投入为负数，取出为正数。
type Flow struct {
	Date   time.Time
	Amount float64
}

// Point 某一时刻的账户估值。
type Point struct {
	Date  time.Time
	Value float64
}

const (
	daysPerYear = 365.2425 // 格里高利历平均年长，覆盖闰年

	newtonMaxIter   = 50
	newtonGuess     = 0.10
	newtonStep      = 1e-6
	npvTolerance    = 1e-8
	derivativeFloor = 1e-12

	bisectionMaxIter = 200
	bracketLow       = -0.9999 // -100% 是贴现因子的奇点，不能到达
	bracketHigh      = 10.0
)

// yearFraction 以 365.2425 天为一年计算两个日期之间的年数
func yearFraction(d0, d1 time.Time) float64 {
	days := d1.Sub(d0).Hours() / 24.0
	return days / daysPerYear
}

// NetPresentValue 计算一组带日期现金流在给定年化贴现率下的净现值。
// 贴现基准日取现金流中最早的日期。空集合返回 0。
func NetPresentValue(rate float64, flows []Flow) float64 {
	if len(flows) == 0 {
		return 0.0
	}
	t0 := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(t0) {
			t0 = f.Date
		}
	}
	sum := 0.0
	for _, f := range flows {
		sum += f.Amount / math.Pow(1.0+rate, yearFraction(t0, f.Date))
	}
	return sum
}

// InternalRateOfReturn 计算一组带日期现金流的年化内部收益率（XIRR）。
//
// 先用牛顿法迭代，导数用前向差分估计；当导数过小或迭代未收敛时，
// 退回到固定区间 [-0.9999, 10.0] 上的二分法。区间两端净现值同号
// （无法夹出根）时返回 nil，而不是给出一个错误的答案。
// 空集合或全部金额绝对值小于 1e-12 时同样返回 nil。
func InternalRateOfReturn(flows []Flow) *float64 {
	if len(flows) == 0 {
		return nil
	}
	degenerate := true
	for _, f := range flows {
		if math.Abs(f.Amount) >= derivativeFloor {
			degenerate = false
			break
		}
	}
	if degenerate {
		return nil
	}

	// 牛顿迭代
	r := newtonGuess
	for i := 0; i < newtonMaxIter; i++ {
		f := NetPresentValue(r, flows)
		if math.Abs(f) < npvTolerance {
			return &r
		}
		df := (NetPresentValue(r+newtonStep, flows) - f) / newtonStep
		if math.Abs(df) < derivativeFloor {
			// 曲线过于平坦，继续除下去会爆炸
			break
		}
		r -= f / df
		if r <= bracketLow {
			r = -0.9998
		}
	}

	// 二分法兜底
	lo, hi := bracketLow, bracketHigh
	flo, fhi := NetPresentValue(lo, flows), NetPresentValue(hi, flows)
	if flo*fhi > 0 {
		return nil
	}
	for i := 0; i < bisectionMaxIter; i++ {
		mid := (lo + hi) / 2
		fm := NetPresentValue(mid, flows)
		if math.Abs(fm) < npvTolerance {
			return &mid
		}
		if flo*fm <= 0 {
			hi, fhi = mid, fm
		} else {
			lo, flo = mid, fm
		}
	}
	result := (lo + hi) / 2
	return &result
}

// Bridge NAV 变动的拆解结果
type Bridge struct {
	StartNav      float64 `json:"start_nav"`
	Contributions float64 `json:"contributions"`
	Withdrawals   float64 `json:"withdrawals"`
	NetFlows      float64 `json:"net_flows"`
	Pnl           float64 `json:"pnl"`
	EndNav        float64 `json:"end_nav"`
}

// NavBridge 把两个日期之间的 NAV 变动拆解为净流入和投资损益。
// 净流入 = 投入 - 取出；损益 = 期末 - 期初 - 净流入。
func NavBridge(startNav, endNav, contributions, withdrawals float64) Bridge {
	netFlows := contributions - withdrawals
	return Bridge{
		StartNav:      startNav,
		Contributions: contributions,
		Withdrawals:   withdrawals,
		NetFlows:      netFlows,
		Pnl:           endNav - startNav - netFlows,
		EndNav:        endNav,
	}
}

// TimeWeightedReturn 计算时间加权收益率。
//
// 估值点少于两个时返回 nil。相邻估值点 (v0, v1) 构成一个子区间，
// 区间内的外部现金流按半开区间 (v0Date, v1Date] 归集：起点上的流
// 不计入，终点上的流计入，避免相邻区间重复计数。任何子区间起点
// 估值为 0 时整个计算返回 nil（除零奇点，单个坏区间使整条链失效）。
func TimeWeightedReturn(points []Point, flows []Flow) *float64 {
	if len(points) < 2 {
		return nil
	}

	sortedPoints := make([]Point, len(points))
	copy(sortedPoints, points)
	sort.Slice(sortedPoints, func(i, j int) bool {
		return sortedPoints[i].Date.Before(sortedPoints[j].Date)
	})
	sortedFlows := make([]Flow, len(flows))
	copy(sortedFlows, flows)
	sort.Slice(sortedFlows, func(i, j int) bool {
		return sortedFlows[i].Date.Before(sortedFlows[j].Date)
	})

	factor := 1.0
	v0Date, v0 := sortedPoints[0].Date, sortedPoints[0].Value
	for _, p := range sortedPoints[1:] {
		f := 0.0
		for _, fl := range sortedFlows {
			if fl.Date.After(v0Date) && !fl.Date.After(p.Date) {
				f += fl.Amount
			}
		}
		if v0 == 0 {
			return nil
		}
		factor *= (p.Value - f) / v0
		v0Date, v0 = p.Date, p.Value
	}
	result := factor - 1.0
	return &result
}
