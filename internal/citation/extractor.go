package citation

import "regexp"

// 识别Google Drive文档链接，捕获文档ID
// 缺少协议、主机不符或无尾部斜杠的链接一律忽略
var driveURLPattern = regexp.MustCompile(`https://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)/`)

// Citation 从生成文本中提取到的单条引用
type Citation struct {
	FileID string `json:"file_id"`
	RawURL string `json:"raw_url"`
}

// ExtractCitations 按出现顺序提取全部引用，不去重
// 无匹配返回空切片，不是错误
func ExtractCitations(text string) []Citation {
	matches := driveURLPattern.FindAllStringSubmatch(text, -1)
	citations := make([]Citation, 0, len(matches))
	for _, m := range matches {
		citations = append(citations, Citation{
			FileID: m[1],
			RawURL: m[0],
		})
	}
	return citations
}

// ExtractFileIDs 只提取文档ID列表
func ExtractFileIDs(text string) []string {
	citations := ExtractCitations(text)
	ids := make([]string, 0, len(citations))
	for _, c := range citations {
		ids = append(ids, c.FileID)
	}
	return ids
}
