package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"linear-planner/internal/models"
	"linear-planner/internal/templates"
)

const (
	// MilestoneLabel marks the issues standing in for milestones
	MilestoneLabel = "milestone"
	// MilestonePriority is the priority given to milestone issues
	MilestonePriority = 1
)

// ErrProjectIDMissing is returned when Linear creates a project without returning its id
var ErrProjectIDMissing = errors.New("created project response lacks an id")

// ProjectIssueCreator creates the entities a plan is materialised into
type ProjectIssueCreator interface {
	CreateProject(ctx context.Context, spec models.ProjectSpec) (*models.Project, error)
	CreateIssue(ctx context.Context, spec models.IssueSpec) (*models.Issue, error)
	EnsureLabel(ctx context.Context, teamID, name string) (string, error)
}

// ProgressFunc is called before each issue is created
type ProgressFunc func(current, total int, title string)

// PlanService generates plans and creates them in Linear
type PlanService struct {
	creator  ProjectIssueCreator
	catalog  *templates.Catalog
	log      *zap.SugaredLogger
	progress ProgressFunc
}

// NewPlanService creates a plan service using the built-in template catalog
func NewPlanService(creator ProjectIssueCreator, log *zap.SugaredLogger) *PlanService {
	return &PlanService{
		creator: creator,
		catalog: templates.Default(),
		log:     log,
	}
}

// WithProgress registers a progress callback and returns the service
func (s *PlanService) WithProgress(fn ProgressFunc) *PlanService {
	s.progress = fn
	return s
}

// GeneratePlan builds a plan for params without calling Linear
func (s *PlanService) GeneratePlan(params models.PlanParams) models.Plan {
	return s.catalog.Generate(params)
}

// CreateProjectWithPlan generates a plan for params and creates it with
// CreateProjectFromPlan.
func (s *PlanService) CreateProjectWithPlan(ctx context.Context, teamID string, params models.PlanParams) (*models.PlanResult, error) {
	return s.CreateProjectFromPlan(ctx, teamID, params, s.GeneratePlan(params))
}

// CreateProjectFromPlan makes sure the team has a milestone label, creates
// the project, then creates one milestone issue per milestone followed by
// that milestone's issues. Creation is sequential and stops at the first
// failure; entities created before the failure are left in place.
func (s *PlanService) CreateProjectFromPlan(ctx context.Context, teamID string, params models.PlanParams, plan models.Plan) (*models.PlanResult, error) {
	total := len(plan.Milestones) + plan.TotalIssues()

	s.log.Infow("creating project from plan",
		"project", params.ProjectName,
		"template", plan.Template,
		"milestones", len(plan.Milestones),
		"issues", total,
	)

	if _, err := s.creator.EnsureLabel(ctx, teamID, MilestoneLabel); err != nil {
		return nil, err
	}

	project, err := s.creator.CreateProject(ctx, models.ProjectSpec{
		Name:        params.ProjectName,
		TeamID:      teamID,
		Description: plan.ProjectDescription,
	})
	if err != nil {
		return nil, err
	}
	if project == nil || project.ID == "" {
		s.log.Errorw("project created without id", "project", params.ProjectName)
		return nil, ErrProjectIDMissing
	}

	result := &models.PlanResult{
		Project:    project,
		Milestones: make([]models.CreatedMilestone, 0, len(plan.Milestones)),
	}

	step := 0
	for _, milestone := range plan.Milestones {
		step++
		title := fmt.Sprintf("Milestone: %s", milestone.Title)
		s.report(step, total, title)

		marker, err := s.creator.CreateIssue(ctx, models.IssueSpec{
			Title:       title,
			Description: milestone.Description,
			TeamID:      teamID,
			ProjectID:   project.ID,
			Priority:    MilestonePriority,
			Labels:      []string{MilestoneLabel},
		})
		if err != nil {
			s.log.Errorw("plan creation aborted", "project_id", project.ID, "milestone", milestone.Title, "created", step-1)
			return nil, err
		}

		created := models.CreatedMilestone{
			Milestone: marker,
			Issues:    make([]*models.Issue, 0, len(milestone.Issues)),
		}

		for _, tmpl := range milestone.Issues {
			step++
			s.report(step, total, tmpl.Title)

			issue, err := s.creator.CreateIssue(ctx, models.IssueSpec{
				Title:       tmpl.Title,
				Description: templates.ExpandDescription(tmpl.Description, params),
				TeamID:      teamID,
				ProjectID:   project.ID,
				Priority:    tmpl.Priority,
				Labels:      tmpl.Labels,
			})
			if err != nil {
				s.log.Errorw("plan creation aborted", "project_id", project.ID, "issue", tmpl.Title, "created", step-1)
				return nil, err
			}
			created.Issues = append(created.Issues, issue)
		}

		result.Milestones = append(result.Milestones, created)
		s.log.Debugw("milestone created", "milestone", milestone.Title, "issues", len(created.Issues))
	}

	s.log.Infow("project created from plan", "project_id", project.ID, "issues", step)
	return result, nil
}

func (s *PlanService) report(current, total int, title string) {
	if s.progress != nil {
		s.progress(current, total, title)
	}
}
