package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge-backend/internal/llm"
	"github.com/applyforge/applyforge-backend/internal/models"
)

const maxNameLength = 50

const namePrompt = `You are naming a job application inside a career platform.

### INSTRUCTIONS:
1. Produce a short, human-readable label for the application described below.
2. Keep it under %d characters.
3. Prefer concrete details (role, seniority, company or domain) over filler words.

### APPLICATION:
Desired position: %s
Experience level: %s
Work mode: %s
%s`

const nameSchema = `{"name": "the label, a plain string"}`

type nameResponse struct {
	Name string `json:"name"`
}

// displayName asks the gateway for a label and degrades to the
// deterministic fallback on any generation failure. The operation that
// needed the name must still succeed, so no error escapes here.
func (s *ApplicationService) displayName(ctx context.Context, position string, exp models.ExperienceLevel, mode models.WorkMode, jobDescription string) string {
	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	jdSection := ""
	if jobDescription != "" {
		if len(jobDescription) > 4000 {
			jobDescription = jobDescription[:4000]
		}
		jdSection = "Job description:\n" + jobDescription
	}
	prompt := fmt.Sprintf(namePrompt, maxNameLength, position, exp, mode, jdSection)

	resp, err := llm.GenerateStructured[nameResponse](genCtx, s.gateway, llm.Request{
		Prompt:  prompt,
		Options: llm.Options{MaxTokens: 100},
	}, nameSchema)
	if err != nil || strings.TrimSpace(resp.Name) == "" {
		s.log.Warn("display name generation failed, using fallback",
			zap.String("position", position),
			zap.Error(err),
		)
		return clipName(fallbackName(position))
	}
	return clipName(strings.TrimSpace(resp.Name))
}

// fallbackName is the deterministic, generation-free label.
func fallbackName(position string) string {
	return fmt.Sprintf("%s - %s", position, time.Now().Format("2006-01-02"))
}

func clipName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxNameLength {
		return name
	}
	return string(runes[:maxNameLength])
}
