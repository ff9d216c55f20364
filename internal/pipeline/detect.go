package pipeline

import (
	"strings"

	"edoparser/internal/patterns"
	"edoparser/internal/util"
)

type DetectResult struct {
	IsEDO  bool
	Score  float64
	Reason string
}

var detectKeywords = []string{
	"DELIVERY ORDER", "EDO", "E-DO", "EIDO", "RELEASE", "PIN", "EMPTY RETURN", "CONTAINER",
}

const detectThreshold = 0.45

// DetectEDO scores whether an email carries a delivery order: keyword hits in
// subject and body, container codes, and document attachments.
func DetectEDO(subject, text string, attachmentNames []string) DetectResult {
	subject = util.FoldCase(subject)
	body := util.FoldCase(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(body, kw) {
			score += 0.1
		}
	}

	containers := len(patterns.ContainerCandidates(subject + "\n" + text))
	if containers >= 2 {
		score += 0.4
	} else if containers == 1 {
		score += 0.3
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".pdf") || strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".htm") || strings.HasSuffix(ln, ".html") {
			score += 0.25
			break
		}
	}
	if score > 1 {
		score = 1
	}

	isEDO := score >= detectThreshold
	reason := "rules_negative"
	if isEDO {
		reason = "rules_positive"
	}
	return DetectResult{IsEDO: isEDO, Score: score, Reason: reason}
}
