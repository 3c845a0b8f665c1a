package templates

import (
	"fmt"
	"strings"

	"linear-planner/internal/models"
)

// Guidance is an implementation note appended when Keyword occurs in an
// issue description.
type Guidance struct {
	Keyword string
	Heading string
	Points  []string
}

// Guidance blocks are checked independently; every match is appended, in
// table order.
var guidanceBlocks = []Guidance{
	{
		Keyword: "database",
		Heading: "Database Work",
		Points: []string{
			"Keep schema changes in versioned migrations",
			"Add indexes for the expected query patterns",
			"Plan backups and a rollback path before migrating production data",
		},
	},
	{
		Keyword: "api",
		Heading: "API Development",
		Points: []string{
			"Document endpoints, payloads and error responses",
			"Validate input at the boundary and return consistent error codes",
			"Version the API before introducing breaking changes",
		},
	},
	{
		Keyword: "ui",
		Heading: "UI Implementation",
		Points: []string{
			"Follow the agreed design system components",
			"Cover loading, empty and error states",
			"Check keyboard navigation and screen reader labels",
		},
	},
	{
		Keyword: "test",
		Heading: "Testing Requirements",
		Points: []string{
			"Automate the tests and run them in CI",
			"Cover edge cases and failure paths, not only the happy path",
			"Record manual test results alongside the issue",
		},
	},
	{
		Keyword: "security",
		Heading: "Security Considerations",
		Points: []string{
			"Review authentication and authorization on every entry point",
			"Keep secrets out of source control and logs",
			"Track findings as separate issues with severity",
		},
	},
}

var acceptanceCriteria = []string{
	"Implementation matches the description above",
	"Work has been reviewed by at least one other team member",
	"Documentation is updated where behaviour changed",
	"No open blocking defects remain",
}

var additionalResources = []string{
	"Project plan and milestone overview in the parent project",
	"Team conventions and definition of done",
}

// ExpandDescription turns a template issue description into the full
// Markdown body of a Linear issue.
func ExpandDescription(base string, params models.PlanParams) string {
	var b strings.Builder

	b.WriteString("## Overview\n")
	b.WriteString(base)
	b.WriteString("\n\n")

	b.WriteString("## Context\n")
	b.WriteString(fmt.Sprintf("Part of the **%s** project.\n", params.ProjectName))
	b.WriteString(fmt.Sprintf("Project scope: %s\n\n", params.ProjectScope))

	if len(params.TechnicalRequirements) > 0 {
		b.WriteString("## Technical Considerations\n")
		for _, req := range params.TechnicalRequirements {
			b.WriteString(fmt.Sprintf("- %s\n", req))
		}
		b.WriteString("\n")
	}

	if matched := MatchGuidance(base); len(matched) > 0 {
		b.WriteString("## Implementation Guidance\n\n")
		for _, g := range matched {
			b.WriteString(fmt.Sprintf("### %s\n", g.Heading))
			for _, p := range g.Points {
				b.WriteString(fmt.Sprintf("- %s\n", p))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Acceptance Criteria\n")
	for _, c := range acceptanceCriteria {
		b.WriteString(fmt.Sprintf("- [ ] %s\n", c))
	}
	b.WriteString("\n")

	b.WriteString("## Additional Resources\n")
	for _, r := range additionalResources {
		b.WriteString(fmt.Sprintf("- %s\n", r))
	}

	return b.String()
}

// MatchGuidance returns the guidance blocks whose keyword occurs in text,
// case-insensitively, as a plain substring.
func MatchGuidance(text string) []Guidance {
	lower := strings.ToLower(text)
	var matched []Guidance
	for _, g := range guidanceBlocks {
		if strings.Contains(lower, g.Keyword) {
			matched = append(matched, g)
		}
	}
	return matched
}
