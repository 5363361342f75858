package model

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]+`)
)

// NormalizeColumnName 清理列名：去首尾空格、去换行制表符、压缩连续空格
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CanonicalColumn 列名的规范形式：转 ASCII、大写、非字母数字折叠为下划线
// 用于跨表列名匹配和目标表列名标准化，如 "Yazaki PN " -> "YAZAKI_PN"
func CanonicalColumn(name string) string {
	s := unidecode.Unidecode(NormalizeColumnName(name))
	s = strings.ToUpper(s)
	s = nonAlnumRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// FoldColumn 列名去重比较用的形式：大小写不敏感
func FoldColumn(name string) string {
	return strings.ToLower(NormalizeColumnName(name))
}

// CanonicalIndex 按规范列名查列下标，不存在返回 -1
func (t *Table) CanonicalIndex(name string) int {
	want := CanonicalColumn(name)
	for i, col := range t.Columns {
		if CanonicalColumn(col) == want {
			return i
		}
	}
	return -1
}
