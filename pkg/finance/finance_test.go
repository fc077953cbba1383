package finance

import (
	"math"
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestNetPresentValueEmpty(t *testing.T) {
	for _, rate := range []float64{-0.5, 0, 0.1, 5.0} {
		if got := NetPresentValue(rate, nil); got != 0.0 {
			t.Fatalf("NetPresentValue(%v, empty)=%v want 0", rate, got)
		}
	}
}

func TestNetPresentValueZeroRate(t *testing.T) {
	flows := []Flow{
		{Date: d(2020, 1, 1), Amount: -1000},
		{Date: d(2021, 1, 1), Amount: 1100},
	}
	// 贴现率为 0 时净现值就是金额之和
	if got := NetPresentValue(0, flows); math.Abs(got-100) > 1e-9 {
		t.Fatalf("NetPresentValue(0)=%v want 100", got)
	}
}

func TestNetPresentValueBaseDateIsMinimum(t *testing.T) {
	// 乱序输入，基准日必须取最早日期而不是第一个元素
	flows := []Flow{
		{Date: d(2021, 1, 1), Amount: 1100},
		{Date: d(2020, 1, 1), Amount: -1000},
	}
	ordered := []Flow{flows[1], flows[0]}
	if got, want := NetPresentValue(0.1, flows), NetPresentValue(0.1, ordered); got != want {
		t.Fatalf("order dependence: %v != %v", got, want)
	}
}

func TestInternalRateOfReturnKnownRate(t *testing.T) {
	flows := []Flow{
		{Date: d(2020, 1, 1), Amount: -1000},
		{Date: d(2021, 1, 1), Amount: 1100},
	}
	r := InternalRateOfReturn(flows)
	if r == nil {
		t.Fatal("InternalRateOfReturn returned nil")
	}
	// 一年 1000 -> 1100，约 10%，允许 365.2425 日计数带来的偏差
	if math.Abs(*r-0.10) > 0.001 {
		t.Fatalf("irr=%v want ~0.10", *r)
	}
}

func TestInternalRateOfReturnNegative(t *testing.T) {
	flows := []Flow{
		{Date: d(2020, 1, 1), Amount: -1000},
		{Date: d(2021, 1, 1), Amount: 800},
	}
	r := InternalRateOfReturn(flows)
	if r == nil {
		t.Fatal("InternalRateOfReturn returned nil")
	}
	if math.Abs(*r-(-0.20)) > 0.001 {
		t.Fatalf("irr=%v want ~-0.20", *r)
	}
}

func TestInternalRateOfReturnDegenerate(t *testing.T) {
	if r := InternalRateOfReturn(nil); r != nil {
		t.Fatalf("empty series: irr=%v want nil", *r)
	}
	flows := []Flow{{Date: d(2020, 1, 1), Amount: 0.0}}
	if r := InternalRateOfReturn(flows); r != nil {
		t.Fatalf("all-zero series: irr=%v want nil", *r)
	}
	flows = []Flow{
		{Date: d(2020, 1, 1), Amount: 1e-13},
		{Date: d(2021, 1, 1), Amount: -1e-14},
	}
	if r := InternalRateOfReturn(flows); r != nil {
		t.Fatalf("sub-threshold series: irr=%v want nil", *r)
	}
}

func TestInternalRateOfReturnNoBracketedRoot(t *testing.T) {
	// 全正现金流：NPV 在整个区间内同号，无法夹出根
	flows := []Flow{
		{Date: d(2020, 1, 1), Amount: 100},
		{Date: d(2020, 6, 1), Amount: 50},
	}
	if r := InternalRateOfReturn(flows); r != nil {
		t.Fatalf("all-positive series: irr=%v want nil", *r)
	}
}

func TestInternalRateOfReturnRootIsZeroOfNpv(t *testing.T) {
	flows := []Flow{
		{Date: d(2019, 3, 15), Amount: -5000},
		{Date: d(2020, 7, 1), Amount: -2500},
		{Date: d(2021, 2, 10), Amount: 1000},
		{Date: d(2022, 11, 30), Amount: 8000},
	}
	r := InternalRateOfReturn(flows)
	if r == nil {
		t.Fatal("InternalRateOfReturn returned nil")
	}
	if npv := NetPresentValue(*r, flows); math.Abs(npv) > 1e-6 {
		t.Fatalf("NPV at solved rate = %v, not a root", npv)
	}
}

func TestNavBridge(t *testing.T) {
	b := NavBridge(1000, 1200, 300, 100)
	if b.NetFlows != 200 {
		t.Fatalf("net_flows=%v want 200", b.NetFlows)
	}
	if b.Pnl != 0 {
		t.Fatalf("pnl=%v want 0", b.Pnl)
	}
	if b.EndNav != 1200 {
		t.Fatalf("end_nav=%v want 1200", b.EndNav)
	}
	// 自洽性：期初 + 净流入 + 损益 = 期末
	if got := b.StartNav + b.NetFlows + b.Pnl; got != b.EndNav {
		t.Fatalf("bridge does not close: %v != %v", got, b.EndNav)
	}
}

func TestTimeWeightedReturnTooFewPoints(t *testing.T) {
	if r := TimeWeightedReturn(nil, nil); r != nil {
		t.Fatalf("no points: twr=%v want nil", *r)
	}
	points := []Point{{Date: d(2020, 1, 1), Value: 100}}
	if r := TimeWeightedReturn(points, nil); r != nil {
		t.Fatalf("single point: twr=%v want nil", *r)
	}
}

func TestTimeWeightedReturnBoundaryExclusivity(t *testing.T) {
	d0, d1 := d(2020, 1, 1), d(2020, 7, 1)
	points := []Point{{Date: d0, Value: 100}, {Date: d1, Value: 110}}

	// 起点边界上的流不计入子区间
	r := TimeWeightedReturn(points, []Flow{{Date: d0, Amount: 10}})
	if r == nil {
		t.Fatal("twr returned nil")
	}
	if math.Abs(*r-0.10) > 1e-9 {
		t.Fatalf("flow at start boundary included: twr=%v want 0.10", *r)
	}

	// 终点边界上的流计入子区间
	r = TimeWeightedReturn(points, []Flow{{Date: d1, Amount: 10}})
	if r == nil {
		t.Fatal("twr returned nil")
	}
	if math.Abs(*r-0.0) > 1e-9 {
		t.Fatalf("flow at end boundary excluded: twr=%v want 0.0", *r)
	}
}

func TestTimeWeightedReturnZeroStartValue(t *testing.T) {
	points := []Point{
		{Date: d(2020, 1, 1), Value: 0},
		{Date: d(2020, 7, 1), Value: 110},
	}
	if r := TimeWeightedReturn(points, nil); r != nil {
		t.Fatalf("zero-valued sub-period start: twr=%v want nil", *r)
	}
}

func TestTimeWeightedReturnCompounds(t *testing.T) {
	points := []Point{
		{Date: d(2020, 1, 1), Value: 100},
		{Date: d(2020, 7, 1), Value: 120},
		{Date: d(2021, 1, 1), Value: 132},
	}
	r := TimeWeightedReturn(points, nil)
	if r == nil {
		t.Fatal("twr returned nil")
	}
	// 1.2 * 1.1 - 1 = 0.32
	if math.Abs(*r-0.32) > 1e-9 {
		t.Fatalf("twr=%v want 0.32", *r)
	}
}

func TestTimeWeightedReturnDoesNotMutateInputs(t *testing.T) {
	points := []Point{
		{Date: d(2021, 1, 1), Value: 110},
		{Date: d(2020, 1, 1), Value: 100},
	}
	flows := []Flow{
		{Date: d(2020, 6, 1), Amount: 5},
		{Date: d(2020, 3, 1), Amount: -5},
	}
	TimeWeightedReturn(points, flows)
	if !points[0].Date.Equal(d(2021, 1, 1)) || !flows[0].Date.Equal(d(2020, 6, 1)) {
		t.Fatal("inputs were reordered by TimeWeightedReturn")
	}
}
