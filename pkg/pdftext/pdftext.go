package pdftext

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadText 读取 PDF 前 maxPages 页的文本并拼接返回。
// maxPages <= 0 表示读取全部页。识别券商格式时只需要前几页的文本，
// 整本读取留给正式解析。无法提取文本的页直接跳过。
func ReadText(path string, maxPages int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	total := reader.NumPage()
	if maxPages <= 0 || maxPages > total {
		maxPages = total
	}

	var sb strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// ReadTextAll 读取 PDF 全部页的文本
func ReadTextAll(path string) (string, error) {
	return ReadText(path, 0)
}
