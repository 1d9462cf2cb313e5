package narrative

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

// ContentVersion is one produced text of the narrative. The generate step
// produces exactly one; each edit pass appends another.
type ContentVersion struct {
	VersionID   string     `json:"versionId"`
	Step        model.Step `json:"step"`
	Content     string     `json:"content"`
	WordCount   int        `json:"wordCount"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// NewContentVersion creates a version for the given step.
// The word count is derived from the content at creation time.
func NewContentVersion(step model.Step, content string, generatedAt time.Time) ContentVersion {
	return ContentVersion{
		VersionID:   uuid.New().String(),
		Step:        step,
		Content:     content,
		WordCount:   CountWords(content),
		GeneratedAt: generatedAt.UTC(),
	}
}

// CountWords counts whitespace-separated words in content
func CountWords(content string) int {
	return len(strings.Fields(content))
}
