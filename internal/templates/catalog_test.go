package templates

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linear-planner/internal/models"
)

func TestSelect_Industry(t *testing.T) {
	tests := []struct {
		industry string
		want     string
	}{
		{"", SoftwareID},
		{"   ", SoftwareID},
		{"Software Engineering", SoftwareID},
		{"SOFTWARE", SoftwareID},
		{"enterprise software", SoftwareID},
		{"Digital Marketing", MarketingID},
		{"Graphic Design", DesignID},
		{"Healthcare", GenericID},
		{"Design and Marketing Agency", MarketingID},
		{"software design", SoftwareID},
	}

	for _, tt := range tests {
		t.Run(tt.industry, func(t *testing.T) {
			assert.Equal(t, tt.want, Default().Select(tt.industry).ID)
		})
	}
}

func TestGeneratePlan_AcmePortal(t *testing.T) {
	plan := GeneratePlan(models.PlanParams{
		ProjectName:  "Acme Portal",
		ProjectScope: "internal tooling",
		Industry:     "software",
	})

	assert.Equal(t, SoftwareID, plan.Template)
	require.NotEmpty(t, plan.Milestones)
	assert.Equal(t, "Discovery & Analysis", plan.Milestones[0].Title)
	assert.Contains(t, plan.ProjectDescription, "Acme Portal")
	assert.Contains(t, plan.ProjectDescription, "internal tooling")
}

func TestGeneratePlan_Deterministic(t *testing.T) {
	params := models.PlanParams{
		ProjectName:           "Atlas",
		ProjectScope:          "billing rewrite",
		Industry:              "Healthcare",
		Timeline:              "Q3",
		TechnicalRequirements: []string{"Go", "PostgreSQL"},
		TargetAudience:        "finance staff",
	}

	first := GeneratePlan(params)
	second := GeneratePlan(params)
	assert.Equal(t, first, second)

	// Mutating one plan must not leak into the catalog or later plans.
	first.Milestones[0].Issues[0].Labels = append(first.Milestones[0].Issues[0].Labels, "mutated")
	first.Milestones[0].Issues[0].Labels[0] = "changed"
	assert.Equal(t, second, GeneratePlan(params))
}

func TestGeneratePlan_MilestonesAndPriorities(t *testing.T) {
	for _, industry := range []string{"", "marketing", "design", "retail"} {
		t.Run(industry, func(t *testing.T) {
			plan := GeneratePlan(models.PlanParams{ProjectName: "P", ProjectScope: "S", Industry: industry})

			require.GreaterOrEqual(t, len(plan.Milestones), 5)
			require.LessOrEqual(t, len(plan.Milestones), 7)
			for _, m := range plan.Milestones {
				assert.NotEmpty(t, m.Title)
				require.NotEmpty(t, m.Issues, "milestone %q has no issues", m.Title)
				for _, issue := range m.Issues {
					assert.Contains(t, []int{1, 2, 3}, issue.Priority, "issue %q", issue.Title)
				}
			}
		})
	}
}

func TestGeneratePlan_Interpolation(t *testing.T) {
	plan := GeneratePlan(models.PlanParams{
		ProjectName:           "Orbit",
		ProjectScope:          "mobile banking",
		TechnicalRequirements: []string{"Kotlin", "Swift"},
		TargetAudience:        "retail customers",
		Timeline:              "six months",
	})

	assert.Contains(t, plan.ProjectDescription, "Kotlin, Swift")
	assert.Contains(t, plan.ProjectDescription, "retail customers")
	assert.Contains(t, plan.ProjectDescription, "six months")
	assert.NotContains(t, plan.ProjectDescription, "{")

	for _, m := range plan.Milestones {
		assert.NotContains(t, m.Description, "{")
		for _, issue := range m.Issues {
			assert.NotContains(t, issue.Description, "{", "issue %q", issue.Title)
		}
	}
}

func TestGeneratePlan_DefaultsForMissingOptionalFields(t *testing.T) {
	plan := GeneratePlan(models.PlanParams{ProjectName: "Orbit", ProjectScope: "mobile banking"})

	assert.Contains(t, plan.ProjectDescription, defaultAudience)
	assert.Contains(t, plan.ProjectDescription, defaultTimeline)
	assert.Contains(t, plan.ProjectDescription, "Technologies in scope: "+defaultTechnology+".")
	assert.NotContains(t, plan.ProjectDescription, "Technologies in scope: .")
}

func TestPlanTotals(t *testing.T) {
	plan := GeneratePlan(models.PlanParams{ProjectName: "P", ProjectScope: "S"})

	issues, hours := 0, 0
	for _, m := range plan.Milestones {
		issues += len(m.Issues)
		for _, i := range m.Issues {
			hours += i.EstimatedHours
		}
	}
	assert.Equal(t, issues, plan.TotalIssues())
	assert.Equal(t, hours, plan.TotalEstimatedHours())
	assert.Positive(t, plan.TotalEstimatedHours())
}

const minimalTemplate = `id: %s
name: Minimal
description: "{projectName}"
milestones:
  - title: One
    description: first
    issues:
      - title: Task
        description: do it
        priority: 2
`

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys["tpl/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoadCatalog_MissingRuleTarget(t *testing.T) {
	fsys := mapFS(map[string]string{"a.yaml": fmt.Sprintf(minimalTemplate, "a")})

	_, err := LoadCatalog(fsys, "tpl", []Rule{{Keyword: "b", TemplateID: "b"}}, "a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template "b"`)
}

func TestLoadCatalog_DuplicateID(t *testing.T) {
	fsys := mapFS(map[string]string{
		"a.yaml": fmt.Sprintf(minimalTemplate, "a"),
		"b.yaml": fmt.Sprintf(minimalTemplate, "a"),
	})

	_, err := LoadCatalog(fsys, "tpl", nil, "a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestLoadCatalog_RejectsInvalidTemplate(t *testing.T) {
	fsys := mapFS(map[string]string{
		"a.yaml": "id: a\nname: A\nmilestones: []\n",
	})

	_, err := LoadCatalog(fsys, "tpl", nil, "a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one milestone")
}

func TestLoadCatalog_CustomRules(t *testing.T) {
	fsys := mapFS(map[string]string{
		"a.yaml":     fmt.Sprintf(minimalTemplate, "a"),
		"b.yaml":     fmt.Sprintf(minimalTemplate, "b"),
		"readme.txt": "ignored",
	})

	c, err := LoadCatalog(fsys, "tpl", []Rule{{Keyword: "bee", TemplateID: "b"}}, "a", "a")
	require.NoError(t, err)

	assert.Equal(t, "b", c.Select("Beekeeping").ID)
	assert.Equal(t, "a", c.Select("fishing").ID)
	assert.Len(t, c.Templates(), 2)
	assert.Equal(t, "X", c.Generate(models.PlanParams{ProjectName: "X"}).ProjectDescription)
}

func TestCatalogListing(t *testing.T) {
	ids := make([]string, 0)
	for _, s := range Default().Templates() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{SoftwareID, MarketingID, DesignID, GenericID}, ids)
	assert.Equal(t, defaultRules, Default().Rules())
}
