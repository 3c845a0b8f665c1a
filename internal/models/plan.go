package models

import "time"

// PlanParams describes the project a plan is generated for
type PlanParams struct {
	ProjectName           string   `json:"project_name" yaml:"project_name"`
	ProjectScope          string   `json:"project_scope" yaml:"project_scope"`
	Industry              string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Timeline              string   `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	TechnicalRequirements []string `json:"technical_requirements,omitempty" yaml:"technical_requirements,omitempty"`
	TargetAudience        string   `json:"target_audience,omitempty" yaml:"target_audience,omitempty"`
}

// Plan is a generated project plan prior to any Linear calls
type Plan struct {
	Template           string      `json:"template" yaml:"template"`
	ProjectDescription string      `json:"project_description" yaml:"project_description"`
	Milestones         []Milestone `json:"milestones" yaml:"milestones"`
}

// Milestone groups the issues of one project phase
type Milestone struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Issues      []IssueTemplate `json:"issues" yaml:"issues"`
}

// IssueTemplate is a planned issue. Priority ranges from 1 (highest) to 3.
type IssueTemplate struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Priority       int      `json:"priority" yaml:"priority"`
	EstimatedHours int      `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Labels         []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// TotalIssues counts the issue templates across all milestones
func (p *Plan) TotalIssues() int {
	total := 0
	for _, m := range p.Milestones {
		total += len(m.Issues)
	}
	return total
}

// TotalEstimatedHours sums the estimates of every issue template
func (p *Plan) TotalEstimatedHours() int {
	total := 0
	for _, m := range p.Milestones {
		for _, issue := range m.Issues {
			total += issue.EstimatedHours
		}
	}
	return total
}

// PlanResult is the set of Linear entities created from a plan
type PlanResult struct {
	Project    *Project           `json:"project"`
	Milestones []CreatedMilestone `json:"milestones"`
}

// CreatedMilestone pairs a milestone marker issue with its child issues
type CreatedMilestone struct {
	Milestone *Issue   `json:"milestone"`
	Issues    []*Issue `json:"issues"`
}

// SavedPlan is the on-disk form of a generated plan
type SavedPlan struct {
	Params      PlanParams `json:"params" yaml:"params"`
	Plan        Plan       `json:"plan" yaml:"plan"`
	GeneratedAt time.Time  `json:"generated_at" yaml:"generated_at"`
}
