package interview

import (
	"encoding/json"
	"regexp"
	"strings"

	"server/internal/domain"
)

var labelledLine = regexp.MustCompile(`^\[(\w+)\]\s*(.+)$`)

// ParseLabelledQuestions extracts question records from a model response in
// the "[type] text" line format. Malformed lines and unknown type labels are
// dropped silently; the generation loop compensates over more iterations.
func ParseLabelledQuestions(response, industry, role string) []domain.QuestionRecord {
	var questions []domain.QuestionRecord
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := labelledLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		qType := domain.QuestionType(m[1])
		if !domain.ValidQuestionType(qType) {
			continue
		}
		questions = append(questions, domain.QuestionRecord{
			Industry: industry,
			Role:     role,
			Text:     strings.TrimSpace(m[2]),
			Type:     qType,
		})
	}
	return questions
}

var fencedJSON = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// ParseQuestionArray decodes a JSON string-array response, unwrapping a
// fenced ```json code block when present. A nil slice means the response was
// unusable and the caller should fall back.
func ParseQuestionArray(response string) []string {
	raw := response
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		raw = m[1]
	}
	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil
	}
	return questions
}
