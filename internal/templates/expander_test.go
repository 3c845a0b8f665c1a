package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"linear-planner/internal/models"
)

func TestExpandDescription_DatabaseIssue(t *testing.T) {
	params := models.PlanParams{ProjectName: "Acme Portal", ProjectScope: "internal tooling"}

	out := ExpandDescription("Set up the database schema", params)

	assert.Contains(t, out, "## Overview\nSet up the database schema\n")
	assert.Contains(t, out, "## Context\n")
	assert.Contains(t, out, "Acme Portal")
	assert.Contains(t, out, "internal tooling")
	assert.Contains(t, out, "### Database Work")
	assert.NotContains(t, out, "### API Development")
	assert.NotContains(t, out, "## Technical Considerations")
}

func TestExpandDescription_SectionOrder(t *testing.T) {
	params := models.PlanParams{
		ProjectName:           "Orbit",
		ProjectScope:          "payments",
		TechnicalRequirements: []string{"Go", "gRPC"},
	}

	out := ExpandDescription("Harden the API and add security tests", params)

	headings := []string{
		"## Overview",
		"## Context",
		"## Technical Considerations",
		"## Implementation Guidance",
		"### API Development",
		"### Testing Requirements",
		"### Security Considerations",
		"## Acceptance Criteria",
		"## Additional Resources",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(out, h)
		if assert.GreaterOrEqual(t, idx, 0, "missing %q", h) {
			assert.Greater(t, idx, last, "%q out of order", h)
			last = idx
		}
	}

	assert.Contains(t, out, "- Go\n- gRPC\n")
	assert.NotContains(t, out, "### Database Work")
}

func TestMatchGuidance_TableOrderNotTextOrder(t *testing.T) {
	matched := MatchGuidance("SECURITY review of the Database")

	headings := make([]string, 0, len(matched))
	for _, g := range matched {
		headings = append(headings, g.Heading)
	}
	assert.Equal(t, []string{"Database Work", "Security Considerations"}, headings)
}

func TestMatchGuidance_NoKeywords(t *testing.T) {
	assert.Empty(t, MatchGuidance("Write the press release"))
	assert.NotContains(t, ExpandDescription("Write the press release", models.PlanParams{}), "## Implementation Guidance")
}
