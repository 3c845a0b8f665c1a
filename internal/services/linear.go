package services

import (
	"context"

	"go.uber.org/zap"

	"linear-planner/internal/models"
)

// LinearClient is the Linear API surface used by LinearService
type LinearClient interface {
	CreateTeam(ctx context.Context, spec models.TeamSpec) (*models.Team, error)
	CreateProject(ctx context.Context, spec models.ProjectSpec) (*models.Project, error)
	CreateIssue(ctx context.Context, spec models.IssueSpec, labelIDs []string) (*models.Issue, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	TeamProjects(ctx context.Context, teamID string) ([]models.Project, error)
	ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
	UpdateIssue(ctx context.Context, id string, update models.IssueUpdate, labelIDs []string) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id string) (bool, error)
	FindLabels(ctx context.Context, teamID string, names []string) ([]models.Label, error)
	CreateLabel(ctx context.Context, teamID, name string) (*models.Label, error)
}

// LinearService handles team, project and issue operations against Linear.
// Failures are logged and returned unchanged.
type LinearService struct {
	client LinearClient
	log    *zap.SugaredLogger
}

// NewLinearService creates a new Linear service
func NewLinearService(client LinearClient, log *zap.SugaredLogger) *LinearService {
	return &LinearService{
		client: client,
		log:    log,
	}
}

// CreateTeam creates a team
func (s *LinearService) CreateTeam(ctx context.Context, spec models.TeamSpec) (*models.Team, error) {
	team, err := s.client.CreateTeam(ctx, spec)
	if err != nil {
		s.log.Errorw("failed to create team", "name", spec.Name, "key", spec.Key, "error", err)
		return nil, err
	}
	return team, nil
}

// CreateProject creates a project owned by a single team
func (s *LinearService) CreateProject(ctx context.Context, spec models.ProjectSpec) (*models.Project, error) {
	project, err := s.client.CreateProject(ctx, spec)
	if err != nil {
		s.log.Errorw("failed to create project", "name", spec.Name, "team_id", spec.TeamID, "error", err)
		return nil, err
	}
	return project, nil
}

// CreateIssue creates an issue, attaching the named labels that exist for its team
func (s *LinearService) CreateIssue(ctx context.Context, spec models.IssueSpec) (*models.Issue, error) {
	labelIDs, err := s.resolveLabels(ctx, spec.TeamID, spec.Labels)
	if err != nil {
		s.log.Errorw("failed to create issue", "title", spec.Title, "team_id", spec.TeamID, "error", err)
		return nil, err
	}

	issue, err := s.client.CreateIssue(ctx, spec, labelIDs)
	if err != nil {
		s.log.Errorw("failed to create issue", "title", spec.Title, "team_id", spec.TeamID, "error", err)
		return nil, err
	}
	return issue, nil
}

// GetTeams lists the teams visible to the API key
func (s *LinearService) GetTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.client.ListTeams(ctx)
	if err != nil {
		s.log.Errorw("failed to get teams", "error", err)
		return nil, err
	}
	return teams, nil
}

// GetProjects resolves the team first, then lists its projects
func (s *LinearService) GetProjects(ctx context.Context, teamID string) ([]models.Project, error) {
	team, err := s.client.GetTeam(ctx, teamID)
	if err != nil {
		s.log.Errorw("failed to get projects", "team_id", teamID, "error", err)
		return nil, err
	}

	projects, err := s.client.TeamProjects(ctx, team.ID)
	if err != nil {
		s.log.Errorw("failed to get projects", "team_id", teamID, "error", err)
		return nil, err
	}
	return projects, nil
}

// GetIssues lists the issues of a team, narrowed to a project when projectID is set
func (s *LinearService) GetIssues(ctx context.Context, teamID, projectID string) ([]models.Issue, error) {
	issues, err := s.client.ListIssues(ctx, models.NewIssueFilter(teamID, projectID))
	if err != nil {
		s.log.Errorw("failed to get issues", "team_id", teamID, "project_id", projectID, "error", err)
		return nil, err
	}
	return issues, nil
}

// UpdateIssue fetches the issue, then applies the partial update
func (s *LinearService) UpdateIssue(ctx context.Context, issueID string, update models.IssueUpdate) (*models.Issue, error) {
	existing, err := s.client.GetIssue(ctx, issueID)
	if err != nil {
		s.log.Errorw("failed to update issue", "issue_id", issueID, "error", err)
		return nil, err
	}

	var labelIDs []string
	if update.Labels != nil {
		teamID := ""
		if update.TeamID != nil {
			teamID = *update.TeamID
		} else if existing.Team != nil {
			teamID = existing.Team.ID
		}
		labelIDs, err = s.resolveLabels(ctx, teamID, update.Labels)
		if err != nil {
			s.log.Errorw("failed to update issue", "issue_id", issueID, "error", err)
			return nil, err
		}
	}

	issue, err := s.client.UpdateIssue(ctx, existing.ID, update, labelIDs)
	if err != nil {
		s.log.Errorw("failed to update issue", "issue_id", issueID, "error", err)
		return nil, err
	}
	return issue, nil
}

// DeleteIssue fetches the issue, then deletes it. An id that no longer
// resolves fails with models.ErrNotFound.
func (s *LinearService) DeleteIssue(ctx context.Context, issueID string) (bool, error) {
	existing, err := s.client.GetIssue(ctx, issueID)
	if err != nil {
		s.log.Errorw("failed to delete issue", "issue_id", issueID, "error", err)
		return false, err
	}

	ok, err := s.client.DeleteIssue(ctx, existing.ID)
	if err != nil {
		s.log.Errorw("failed to delete issue", "issue_id", issueID, "error", err)
		return false, err
	}
	return ok, nil
}

// EnsureLabel returns the id of the label named name that the team can use,
// creating it on the team when neither the team nor the workspace has one.
func (s *LinearService) EnsureLabel(ctx context.Context, teamID, name string) (string, error) {
	labels, err := s.client.FindLabels(ctx, teamID, []string{name})
	if err != nil {
		s.log.Errorw("failed to look up label", "label", name, "team_id", teamID, "error", err)
		return "", err
	}
	if id, ok := labelIDsByName(labels)[name]; ok {
		return id, nil
	}

	label, err := s.client.CreateLabel(ctx, teamID, name)
	if err != nil {
		s.log.Errorw("failed to create label", "label", name, "team_id", teamID, "error", err)
		return "", err
	}
	s.log.Infow("label created", "label", name, "team_id", teamID, "label_id", label.ID)
	return label.ID, nil
}

// resolveLabels maps label names to ids in the order given. Names with no
// matching label are skipped.
func (s *LinearService) resolveLabels(ctx context.Context, teamID string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	labels, err := s.client.FindLabels(ctx, teamID, names)
	if err != nil {
		return nil, err
	}
	byName := labelIDsByName(labels)

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			s.log.Warnw("label not found, skipping", "label", name, "team_id", teamID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func labelIDsByName(labels []models.Label) map[string]string {
	byName := make(map[string]string, len(labels))
	for _, l := range labels {
		// Team labels shadow workspace labels of the same name.
		if _, seen := byName[l.Name]; !seen || l.Team != nil {
			byName[l.Name] = l.ID
		}
	}
	return byName
}
