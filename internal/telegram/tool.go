package telegram

import "strings"

// EscapeMarkdown 转义 Markdown 格式中的特殊字符，文件名里常见 _ 和 *
func EscapeMarkdown(input string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(input)
}
