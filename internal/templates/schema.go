package templates

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v2"
)

// Schema is the top-level YAML plan template structure.
type Schema struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Milestones  []MilestoneConfig `yaml:"milestones"`
}

type MilestoneConfig struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Issues      []IssueConfig `yaml:"issues"`
}

type IssueConfig struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Priority       int      `yaml:"priority"`
	EstimatedHours int      `yaml:"estimated_hours"`
	Labels         []string `yaml:"labels"`
}

// Placeholders recognised in template text.
const (
	PlaceholderProjectName           = "{projectName}"
	PlaceholderProjectScope          = "{projectScope}"
	PlaceholderTechnicalRequirements = "{technicalRequirements}"
	PlaceholderTargetAudience        = "{targetAudience}"
	PlaceholderTimeline              = "{timeline}"
)

var (
	knownPlaceholders = map[string]bool{
		PlaceholderProjectName:           true,
		PlaceholderProjectScope:          true,
		PlaceholderTechnicalRequirements: true,
		PlaceholderTargetAudience:        true,
		PlaceholderTimeline:              true,
	}
	placeholderRe = regexp.MustCompile(`\{[A-Za-z]+\}`)
)

// ParseSchema decodes a YAML template.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.UnmarshalStrict(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &schema, nil
}

// ValidateSchema checks a Schema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *Schema) []error {
	var errs []error

	if schema.ID == "" {
		errs = append(errs, fmt.Errorf("template id is required"))
	}
	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if len(schema.Milestones) == 0 {
		errs = append(errs, fmt.Errorf("at least one milestone is required"))
	}
	errs = append(errs, checkPlaceholders("description", schema.Description)...)

	for i, m := range schema.Milestones {
		if m.Title == "" {
			errs = append(errs, fmt.Errorf("milestone[%d]: title is required", i))
		}
		if len(m.Issues) == 0 {
			errs = append(errs, fmt.Errorf("milestone[%d]: at least one issue is required", i))
		}
		errs = append(errs, checkPlaceholders(fmt.Sprintf("milestone[%d]", i), m.Title, m.Description)...)

		for j, issue := range m.Issues {
			where := fmt.Sprintf("milestone[%d].issue[%d]", i, j)
			if issue.Title == "" {
				errs = append(errs, fmt.Errorf("%s: title is required", where))
			}
			if issue.Priority < 1 || issue.Priority > 3 {
				errs = append(errs, fmt.Errorf("%s: priority %d outside 1..3", where, issue.Priority))
			}
			if issue.EstimatedHours < 0 {
				errs = append(errs, fmt.Errorf("%s: estimated_hours must not be negative", where))
			}
			errs = append(errs, checkPlaceholders(where, issue.Title, issue.Description)...)
		}
	}

	return errs
}

func checkPlaceholders(where string, texts ...string) []error {
	var errs []error
	for _, text := range texts {
		for _, p := range placeholderRe.FindAllString(text, -1) {
			if !knownPlaceholders[p] {
				errs = append(errs, fmt.Errorf("%s: unknown placeholder %s", where, p))
			}
		}
	}
	return errs
}
