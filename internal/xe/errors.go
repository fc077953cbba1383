package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams      = orz.NewError(10400, "参数无效")
	ErrAccountNotFound    = orz.NewError(10000, "账户不存在")
	ErrNoExtractorMatched = orz.NewError(10001, "没有能解析该报告的解析器")
	ErrScanAlreadyRunning = orz.NewError(10002, "目录扫描正在进行中")
	ErrDataDirNotFound    = orz.NewError(10003, "报告目录不存在")
	ErrZeroAmountFlow     = orz.NewError(10004, "现金流金额不能为零")
)
