package usecase

import "strings"

// stopWords — шумовые слова закупочной лексики, исключаемые при сравнении по ключевым словам.
var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "for": {}, "with": {}, "from": {},
	"supply": {}, "procurement": {}, "various": {}, "including": {}, "such": {},
	"requirement": {}, "requirements": {}, "etc": {}, "across": {}, "multiple": {},
	"quality": {}, "timely": {}, "delivery": {}, "services": {}, "products": {},
	"solutions": {}, "equipment": {}, "materials": {},
}

// genericIndustryTerms — общие отраслевые слова, не несущие различительной информации.
var genericIndustryTerms = map[string]struct{}{
	"manufacturing": {}, "equipment": {}, "processing": {}, "products": {},
	"materials": {}, "services": {}, "solutions": {}, "industries": {},
	"devices": {}, "systems": {}, "tools": {}, "supplies": {},
}

// extractKeywords выделяет значимые ключевые слова из произвольного текста.
func extractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	if text == "" {
		return keywords
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:()[]{}")
		if len(word) > 3 {
			if _, stop := stopWords[word]; !stop {
				keywords[word] = struct{}{}
			}
		}
	}

	return keywords
}

// extractIndustryKeywords выделяет различительные слова из названия отрасли.
func extractIndustryKeywords(industry string) map[string]struct{} {
	keywords := make(map[string]struct{})

	for _, word := range strings.Fields(strings.ToLower(industry)) {
		word = strings.Trim(word, "&,.-()[]{}")
		if len(word) > 3 {
			if _, generic := genericIndustryTerms[word]; !generic {
				keywords[word] = struct{}{}
			}
		}
	}

	return keywords
}

// keywordOverlap возвращает размер пересечения двух наборов ключевых слов.
func keywordOverlap(a, b map[string]struct{}) int {
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}

	return count
}
