package vars

// 提示词
var (
	ADVICE_SYSTEM = "You are a legal assistant providing structured advice based on Indian law."

	// ADVICE 主回答提示词，行动步骤由 PLAN 单独生成
	ADVICE = `
You are a legal assistant helping with Indian legal queries. Use the provided legal document context to generate structured advice.

USER QUERY: {{.Query}}

LEGAL CONTEXT:
{{range .Documents}}Source: {{.Source.SourceName}} ({{.Source.SourceType}})
Content: {{.Text}}
{{if .Source.SourceURL}}URL: {{.Source.SourceURL}}
{{end}}---
{{end}}
Please provide a response in the following format:
1. A brief introduction to the legal issue
2. An explanation of the applicable legal principles, citing the relevant laws
3. A "Relevant Laws:" section listing each law, scheme or document on its own line
4. A "Disclaimer:" paragraph

IMPORTANT GUIDELINES:
- Do NOT include numbered action steps; they are generated separately
- Cite relevant laws or regulations by their full name
- Include a disclaimer that this is not legal advice and recommend consulting a lawyer for complex issues
- Do not provide advice that could be legally problematic
`

	PLAN_SYSTEM = "You are a legal assistant who turns legal explanations into short, practical action plans."

	// PLAN 行动计划提示词
	PLAN = `
USER QUERY: {{.Query}}

LEGAL EXPLANATION:
{{.Body}}

Based on the explanation above, write an action plan of 3 to 5 concrete steps the user can take.
Use exactly this format, one step per line:
1. [ACTION TITLE]: Brief description of what to do
2. [ACTION TITLE]: Brief description of what to do
3. [ACTION TITLE]: Brief description of what to do

Output the steps only. No introduction, no closing remarks.
`
)

// 兜底文案
const (
	CanonicalDisclaimer = "This is not legal advice. Please consult a qualified lawyer for specific legal counsel."

	// FallbackAdvice is returned when the advice model call fails. It has no
	// sources section so structuring falls back to the canonical sources.
	FallbackAdvice = `I'm sorry, I could not reach the legal knowledge service right now, so this answer is general guidance only.

Here are some general steps that usually help:
1. Understand your rights under the relevant Indian law.
2. Consult a qualified lawyer about your specific situation.
3. Keep records of all documents and communications related to the matter.

Disclaimer: ` + CanonicalDisclaimer
)
