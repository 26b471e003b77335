package llm

import (
	"bytes"
	"fmt"
	"text/template"

	"clementus360/focusflow/types"
)

const breakdownPromptTemplate = `You are an ADHD-friendly task coach. Break down this task into small, actionable subtasks that reduce overwhelm and make it easy to get started.

Task: {{.Title}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
{{- if .EstimatedMinutes}}
Estimated total time: {{.EstimatedMinutes}} minutes
{{- end}}
{{- if .Context}}
Additional context: {{.Context}}
{{- end}}

Provide a breakdown that:
1. Has a very easy first step (2-5 minutes) to overcome starting friction
2. Breaks complex parts into chunks no longer than 15-20 minutes
3. Includes natural break points
4. Suggests the energy level needed for each step (low/medium/high)
5. Adds helpful tips for ADHD brains

Respond in this exact JSON format:
{
  "subtasks": [
    {"title": "step description", "estimated_minutes": 10, "energy_level": "low", "tips": "helpful tip"}
  ],
  "total_estimated_minutes": 45,
  "suggested_approach": "overall strategy in 1-2 sentences",
  "motivation_tip": "encouraging message with emoji"
}`

var breakdownTemplate = template.Must(template.New("breakdown").Parse(breakdownPromptTemplate))

type breakdownPromptData struct {
	Title            string
	Description      string
	EstimatedMinutes int
	Context          string
}

// BuildBreakdownPrompt renders the breakdown prompt for req.
func BuildBreakdownPrompt(req types.BreakdownRequest) (string, error) {
	data := breakdownPromptData{Title: req.TaskTitle}
	if req.TaskDescription != nil {
		data.Description = *req.TaskDescription
	}
	if req.EstimatedMinutes != nil {
		data.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Context != nil {
		data.Context = *req.Context
	}

	var buf bytes.Buffer
	if err := breakdownTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render breakdown prompt: %w", err)
	}
	return buf.String(), nil
}
