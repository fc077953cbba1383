package config

type Config struct {
	Data     DataConf     `json:"data"`
	Telegram TelegramConf `json:"telegram"`
}

type DataConf struct {
	Dir             string `json:"dir"`              // PDF 报告目录，默认 data
	ScanOnBoot      bool   `json:"scan_on_boot"`     // 启动时是否自动扫描一次
	IntervalMinutes int    `json:"interval_minutes"` // 定时重扫周期（分钟），0 表示不开启定时扫描
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}
