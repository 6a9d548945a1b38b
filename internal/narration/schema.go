package narration

import "github.com/abhisek/studyplan/internal/llm"

// DaySchema is the reply expected for one day.
var DaySchema = &llm.Schema{
	Name:        "day-narration",
	Description: "Short coaching commentary for one day of a study plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"commentary": map[string]any{
				"type":        "string",
				"description": "One or two encouraging sentences about the day's plan (max 40 words)",
			},
			"warning": map[string]any{
				"type":        "string",
				"description": "A single-sentence caution if the day looks risky, otherwise an empty string",
			},
		},
		"required":             []any{"commentary", "warning"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a calm, practical study coach. You are shown one day of a
student's generated study plan. Comment on the day in at most two short
sentences: point out what matters most and how to approach it. Only fill
"warning" when something is genuinely risky (an exam is close, the day is
overloaded, or work is being deferred); otherwise leave it empty. Do not
restate the whole timetable and do not invent chapters or times.`
