package v1

import (
	"fmt"
	"net/url"
	"strings"
)

// buildContentDisposition attachment 头，附带 RFC 5987 编码的文件名
func buildContentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > 127 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, url.PathEscape(filename))
}
