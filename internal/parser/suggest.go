package parser

import "strings"

// SimilarityRatio 两个字符串的相似度，区间 [0, 1]
//
// 与 difflib 的 ratio 口径一致：递归取最长公共子串，
// 相似度 = 2 * 匹配字符数 / 总长度。
func SimilarityRatio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	m := matchedChars([]rune(a), []rune(b))
	return 2 * float64(m) / float64(len([]rune(a))+len([]rune(b)))
}

// matchedChars 递归统计匹配字符数：最长公共子串 + 其左右两侧的匹配
func matchedChars(a, b []rune) int {
	size, ai, bi := longestCommon(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedChars(a[:ai], b[:bi])
	total += matchedChars(a[ai+size:], b[bi+size:])
	return total
}

// longestCommon 最长公共子串的长度与起点
func longestCommon(a, b []rune) (size, ai, bi int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return size, ai, bi
}

// SuggestColumn 在候选列中找出与输入最接近的列名
//
// 输入形如 J74_V710_B2_PP_YOTK 的多段名称时，先按前三段前缀与末段后缀
// 筛选候选，相似度达到 0.9 以上的直接采用；否则退回全量相似度匹配。
func SuggestColumn(input string, columns []string) (string, float64) {
	input = strings.TrimSpace(input)
	if input == "" {
		if len(columns) > 0 {
			return columns[0], 0
		}
		return "", 0
	}

	parts := strings.Split(input, "_")
	if len(parts) >= 4 {
		prefix := strings.ToUpper(strings.Join(parts[:3], "_"))
		suffix := strings.ToUpper(parts[len(parts)-1])

		best, bestScore := input, 0.0
		for _, col := range columns {
			up := strings.ToUpper(col)
			if !strings.HasPrefix(up, prefix) || !strings.HasSuffix(up, suffix) {
				continue
			}
			score := SimilarityRatio(strings.ToLower(input), strings.ToLower(col))
			if score >= 0.9 && score > bestScore {
				best, bestScore = col, score
			}
		}
		if bestScore > 0 {
			return best, bestScore
		}
	}

	best, bestScore := input, 0.0
	for _, col := range columns {
		score := SimilarityRatio(strings.ToLower(input), strings.ToLower(col))
		if score > bestScore {
			best, bestScore = col, score
		}
	}
	return best, bestScore
}
