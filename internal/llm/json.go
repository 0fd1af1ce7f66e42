package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SetSize is the number of question/answer pairs in every FAQ set.
const SetSize = 5

// QA is one generated question/answer pair.
type QA struct {
	Pregunta  string `json:"pregunta"`
	Respuesta string `json:"respuesta"`
}

// FAQSet holds exactly five pairs, in faq1..faq5 order.
type FAQSet [SetSize]QA

// ParseFAQSet parses the raw model response into an FAQ set. Markdown
// code fences around the JSON are tolerated and stripped. Anything that
// is not a JSON object with five well-formed faq1..faq5 entries is an
// error.
func ParseFAQSet(text string) (*FAQSet, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw map[string]QA
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parsing FAQ JSON: %w", err)
	}

	var set FAQSet
	for i := 0; i < SetSize; i++ {
		key := fmt.Sprintf("faq%d", i+1)
		qa, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("missing %s in response", key)
		}
		if strings.TrimSpace(qa.Pregunta) == "" || strings.TrimSpace(qa.Respuesta) == "" {
			return nil, fmt.Errorf("%s has an empty question or answer", key)
		}
		set[i] = qa
	}
	return &set, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	endIdx := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[1:endIdx], "\n"))
}
