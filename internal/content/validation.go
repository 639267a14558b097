package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const maxListedFindings = 5

// SubScores breaks the overall SEO score into scoring dimensions.
type SubScores struct {
	KeywordCoverage int `json:"keyword_coverage"`
	Structure       int `json:"structure"`
	Readability     int `json:"readability"`
	Engagement      int `json:"engagement"`
	Technical       int `json:"technical"`
}

// ValidationResult is the quality assessment of one draft iteration.
type ValidationResult struct {
	Score           int       `json:"score"`
	SubScores       SubScores `json:"sub_scores"`
	Issues          []string  `json:"issues,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	WordCount       int       `json:"word_count,omitempty"`
	Passed          bool      `json:"passed"`
}

// validationDocument is the wire shape expected back from the validation
// model call. Field names are contract: a renamed or missing field is a
// parse failure, never silently defaulted.
type validationDocument struct {
	Score     *int `json:"score"`
	SubScores *struct {
		KeywordCoverage *int `json:"keyword_coverage"`
		Structure       *int `json:"structure"`
		Readability     *int `json:"readability"`
		Engagement      *int `json:"engagement"`
		Technical       *int `json:"technical"`
	} `json:"sub_scores"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	Metadata        *struct {
		WordCount int `json:"word_count"`
	} `json:"metadata"`
}

// ParseValidationDocument parses model output into a ValidationResult.
// The model may wrap the JSON document in prose or code fences; everything
// outside the outermost braces is discarded, everything inside is parsed
// strictly.
func ParseValidationDocument(raw string, minScore int) (*ValidationResult, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var doc validationDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed validation document: %w", err)
	}

	if doc.Score == nil {
		return nil, fmt.Errorf("validation document missing score")
	}
	if doc.SubScores == nil {
		return nil, fmt.Errorf("validation document missing sub_scores")
	}
	dims := map[string]*int{
		"keyword_coverage": doc.SubScores.KeywordCoverage,
		"structure":        doc.SubScores.Structure,
		"readability":      doc.SubScores.Readability,
		"engagement":       doc.SubScores.Engagement,
		"technical":        doc.SubScores.Technical,
	}
	for name, v := range dims {
		if v == nil {
			return nil, fmt.Errorf("validation document missing sub_scores.%s", name)
		}
		if *v < 0 || *v > 100 {
			return nil, fmt.Errorf("sub_scores.%s out of range: %d", name, *v)
		}
	}
	if *doc.Score < 0 || *doc.Score > 100 {
		return nil, fmt.Errorf("score out of range: %d", *doc.Score)
	}

	result := &ValidationResult{
		Score: *doc.Score,
		SubScores: SubScores{
			KeywordCoverage: *doc.SubScores.KeywordCoverage,
			Structure:       *doc.SubScores.Structure,
			Readability:     *doc.SubScores.Readability,
			Engagement:      *doc.SubScores.Engagement,
			Technical:       *doc.SubScores.Technical,
		},
		Issues:          capList(doc.Issues),
		Recommendations: capList(doc.Recommendations),
		Passed:          *doc.Score >= minScore,
	}
	if doc.Metadata != nil {
		result.WordCount = doc.Metadata.WordCount
	}
	return result, nil
}

func extractJSONObject(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in validation output")
	}
	return []byte(raw[start : end+1]), nil
}

func capList(in []string) []string {
	out := make([]string, 0, maxListedFindings)
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == maxListedFindings {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
