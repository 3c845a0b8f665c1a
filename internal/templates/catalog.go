// Package templates holds the built-in plan templates and turns them into plans.
//
// Templates are YAML documents embedded in the binary and parsed once at
// package initialisation. A template is chosen from the industry string by
// an ordered list of keyword rules; the first rule whose keyword occurs in
// the industry (case-insensitively) wins.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"linear-planner/internal/models"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Rule maps an industry keyword to a template id.
type Rule struct {
	Keyword    string
	TemplateID string
}

// Template ids of the built-in catalog.
const (
	SoftwareID  = "software"
	MarketingID = "marketing"
	DesignID    = "design"
	GenericID   = "generic"
)

// Rules are evaluated in order. "marketing" precedes "design", so an
// industry mentioning both resolves to marketing.
var defaultRules = []Rule{
	{Keyword: "software", TemplateID: SoftwareID},
	{Keyword: "marketing", TemplateID: MarketingID},
	{Keyword: "design", TemplateID: DesignID},
}

const (
	defaultAudience   = "its intended users"
	defaultTimeline   = "the agreed timeline"
	defaultTechnology = "to be decided"
)

// Catalog is an immutable set of templates plus the rules selecting them.
type Catalog struct {
	templates map[string]*Schema
	order     []string
	rules     []Rule
	// emptyID is used when no industry is given, fallbackID when no rule matches.
	emptyID    string
	fallbackID string
}

var builtin = mustLoadBuiltin()

func mustLoadBuiltin() *Catalog {
	c, err := LoadCatalog(builtinFS, "data", defaultRules, SoftwareID, GenericID)
	if err != nil {
		panic(fmt.Sprintf("templates: built-in catalog: %v", err))
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}

// LoadCatalog parses every .yaml file in dir and checks that the rules only
// reference loaded templates.
func LoadCatalog(fsys fs.FS, dir string, rules []Rule, emptyID, fallbackID string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir: %w", err)
	}

	c := &Catalog{
		templates:  make(map[string]*Schema),
		rules:      append([]Rule(nil), rules...),
		emptyID:    emptyID,
		fallbackID: fallbackID,
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		schema, err := ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if errs := ValidateSchema(schema); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", entry.Name(), errs[0])
		}
		if _, dup := c.templates[schema.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate template id %q", entry.Name(), schema.ID)
		}
		c.templates[schema.ID] = schema
	}

	for _, r := range c.rules {
		c.order = appendUnique(c.order, r.TemplateID)
	}
	c.order = appendUnique(c.order, emptyID)
	c.order = appendUnique(c.order, fallbackID)

	for _, id := range c.order {
		if _, ok := c.templates[id]; !ok {
			return nil, fmt.Errorf("template %q referenced by selection rules is missing", id)
		}
	}

	return c, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Select picks the template for an industry.
func (c *Catalog) Select(industry string) *Schema {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return c.templates[c.emptyID]
	}
	for _, r := range c.rules {
		if strings.Contains(industry, r.Keyword) {
			return c.templates[r.TemplateID]
		}
	}
	return c.templates[c.fallbackID]
}

// Templates lists the templates reachable through the selection rules, in rule order.
func (c *Catalog) Templates() []*Schema {
	out := make([]*Schema, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// Rules returns a copy of the selection rules.
func (c *Catalog) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Generate instantiates the selected template with params. It performs no
// I/O and returns equal plans for equal params.
func (c *Catalog) Generate(params models.PlanParams) models.Plan {
	schema := c.Select(params.Industry)
	r := newReplacer(params)

	plan := models.Plan{
		Template:           schema.ID,
		ProjectDescription: r.Replace(schema.Description),
		Milestones:         make([]models.Milestone, 0, len(schema.Milestones)),
	}

	for _, mc := range schema.Milestones {
		m := models.Milestone{
			Title:       r.Replace(mc.Title),
			Description: r.Replace(mc.Description),
			Issues:      make([]models.IssueTemplate, 0, len(mc.Issues)),
		}
		for _, ic := range mc.Issues {
			m.Issues = append(m.Issues, models.IssueTemplate{
				Title:          r.Replace(ic.Title),
				Description:    r.Replace(ic.Description),
				Priority:       ic.Priority,
				EstimatedHours: ic.EstimatedHours,
				Labels:         append([]string(nil), ic.Labels...),
			})
		}
		plan.Milestones = append(plan.Milestones, m)
	}

	return plan
}

// GeneratePlan generates a plan from the built-in catalog.
func GeneratePlan(params models.PlanParams) models.Plan {
	return builtin.Generate(params)
}

func newReplacer(params models.PlanParams) *strings.Replacer {
	return strings.NewReplacer(
		PlaceholderProjectName, params.ProjectName,
		PlaceholderProjectScope, params.ProjectScope,
		PlaceholderTechnicalRequirements, orDefault(strings.Join(params.TechnicalRequirements, ", "), defaultTechnology),
		PlaceholderTargetAudience, orDefault(params.TargetAudience, defaultAudience),
		PlaceholderTimeline, orDefault(params.Timeline, defaultTimeline),
	)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
