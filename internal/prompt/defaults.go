package prompt

// Template keys used by the generation pipeline.
const (
	KeyGenerate = "content.generate"
	KeyValidate = "content.validate"
)

func defaultTemplates() []*Template {
	return []*Template{
		{
			Key: KeyGenerate,
			Body: `### Task

Write a complete piece of content titled "{{title}}".

### Requirements

- Target audience: {{target_audience}}
- Tone: {{tone}}
- Work these SEO keywords in naturally: {{seo_keywords}}
- Output clean HTML body markup (headings, paragraphs, lists). No <html> or <body> wrapper.
{{#if has_research}}
### Research

Ground the content in the following source material. Do not copy it verbatim.

{{research_corpus}}
{{/if}}
{{#if is_refinement}}
### Previous Draft

{{previous_draft}}

### Reviewer Feedback

Issues found:
{{feedback_issues}}

Recommendations:
{{feedback_recommendations}}

Revise the draft to address every issue above while keeping what already works.
{{/if}}`,
			Slots: []Slot{
				{Name: "target_audience", Default: "a general professional audience"},
				{Name: "tone", Default: "informative"},
			},
		},
		{
			Key: KeyValidate,
			Body: `### Task

You are an SEO reviewer. Score the content below for the title "{{title}}".
The publishing gate is {{target_score}}/100.

### Output Format

Respond with a single JSON object and nothing else:

{
  "score": <0-100>,
  "sub_scores": {
    "keyword_coverage": <0-100>,
    "structure": <0-100>,
    "readability": <0-100>,
    "engagement": <0-100>,
    "technical": <0-100>
  },
  "issues": ["<up to 5 concrete problems>"],
  "recommendations": ["<up to 5 concrete fixes>"],
  "metadata": {"word_count": <integer>}
}

### Content

{{content}}`,
		},
	}
}
