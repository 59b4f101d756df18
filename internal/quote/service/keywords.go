package service

import (
	"context"
	"regexp"
	"strings"

	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/logger"
)

// baseStopWords filters articles, prepositions and generic project words that
// carry no product signal. The set is extendable via Params.ExtraStopWords.
var baseStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "onto": true, "over": true, "under": true, "around": true,
	"about": true, "that": true, "this": true, "then": true, "than": true,
	"will": true, "would": true, "want": true, "need": true, "needs": true,
	"please": true, "build": true, "built": true, "make": true, "made": true,
	"install": true, "installed": true, "create": true, "area": true,
	"project": true, "job": true, "work": true, "garden": true, "house": true,
	"home": true, "new": true, "old": true, "approx": true, "approximately": true,
	"roughly": true, "metre": true, "metres": true, "meter": true, "meters": true,
	"using": true, "include": true, "including": true,
}

var (
	rePunctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	reBareNumber  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reDimToken    = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?x\d+(?:\.\d+)?[a-z]*$`)
)

// KeywordExtractor turns a free-text job description into search terms for
// the product catalog.
type KeywordExtractor struct {
	params Params
	ai     textgen.Completer // optional; nil disables the AI-assisted path
	log    *logger.Logger
}

// NewKeywordExtractor creates a keyword extractor. Passing a nil completer
// restricts extraction to the heuristic path.
func NewKeywordExtractor(params Params, ai textgen.Completer, log *logger.Logger) *KeywordExtractor {
	return &KeywordExtractor{params: params, ai: ai, log: log}
}

// Extract returns a non-empty ordered set of unique lowercase keywords.
// The AI-assisted path is tried first when available; on any failure or empty
// result it falls back to the heuristic extractor. Extraction never fails.
func (e *KeywordExtractor) Extract(ctx context.Context, description string) []string {
	if e.ai != nil {
		if keywords := e.aiExtract(ctx, description); len(keywords) > 0 {
			return keywords
		}
	}
	return e.Heuristic(description)
}

// Heuristic tokenizes the description, drops stop words and noise tokens, and
// expands domain synonyms. Expansion is additive: the original token is kept.
func (e *KeywordExtractor) Heuristic(description string) []string {
	stripped := rePunctuation.ReplaceAllString(strings.ToLower(description), " ")

	var keywords []string
	seen := make(map[string]bool)
	add := func(token string) {
		if e.keepToken(token) && !seen[token] {
			seen[token] = true
			keywords = append(keywords, token)
		}
	}

	for _, token := range strings.Fields(stripped) {
		add(token)
		for _, synonym := range e.params.Synonyms[token] {
			add(synonym)
		}
	}
	return keywords
}

func (e *KeywordExtractor) aiExtract(ctx context.Context, description string) []string {
	raw, err := e.ai.Complete(ctx, buildKeywordPrompt(description))
	if err != nil {
		e.log.WithContext(ctx).UpstreamError("textgen", "keyword extraction", err)
		return nil
	}

	var keywords []string
	seen := make(map[string]bool)
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		token := strings.ToLower(strings.Trim(part, " .-*\t"))
		if token == "" || !e.keepToken(token) || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}

// keepToken applies the shared token filter: minimum length, stop words, and
// numeric noise (bare numbers, NxM dimension tokens).
func (e *KeywordExtractor) keepToken(token string) bool {
	if len(token) < 3 {
		return false
	}
	if baseStopWords[token] {
		return false
	}
	for _, extra := range e.params.ExtraStopWords {
		if token == extra {
			return false
		}
	}
	if reBareNumber.MatchString(token) || reDimToken.MatchString(token) {
		return false
	}
	return true
}
