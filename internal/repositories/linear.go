package repositories

import (
	"context"
	"fmt"

	"linear-planner/internal/models"
)

const (
	teamFields    = `id name key description`
	projectFields = `id name description icon color url`
	issueFields   = `id identifier title description priority url dueDate
		team { id name key }
		project { id name }
		assignee { id name email }
		labels { nodes { id name } }`
)

var (
	createTeamMutation = `mutation TeamCreate($input: TeamCreateInput!) {
	teamCreate(input: $input) { success team { ` + teamFields + ` } }
}`
	createProjectMutation = `mutation ProjectCreate($input: ProjectCreateInput!) {
	projectCreate(input: $input) { success project { ` + projectFields + ` } }
}`
	createIssueMutation = `mutation IssueCreate($input: IssueCreateInput!) {
	issueCreate(input: $input) { success issue { ` + issueFields + ` } }
}`
	updateIssueMutation = `mutation IssueUpdate($id: String!, $input: IssueUpdateInput!) {
	issueUpdate(id: $id, input: $input) { success issue { ` + issueFields + ` } }
}`
	deleteIssueMutation = `mutation IssueDelete($id: String!) {
	issueDelete(id: $id) { success }
}`
	teamsQuery = `query Teams {
	teams { nodes { ` + teamFields + ` } }
}`
	teamQuery = `query Team($id: String!) {
	team(id: $id) { ` + teamFields + ` }
}`
	teamProjectsQuery = `query TeamProjects($id: String!) {
	team(id: $id) { projects { nodes { ` + projectFields + ` } } }
}`
	issuesQuery = `query Issues($filter: IssueFilter) {
	issues(filter: $filter) { nodes { ` + issueFields + ` } }
}`
	issueQuery = `query Issue($id: String!) {
	issue(id: $id) { ` + issueFields + ` }
}`
	createLabelMutation = `mutation IssueLabelCreate($input: IssueLabelCreateInput!) {
	issueLabelCreate(input: $input) { success issueLabel { id name team { id } } }
}`
	labelsQuery = `query IssueLabels($filter: IssueLabelFilter) {
	issueLabels(filter: $filter) { nodes { id name team { id } } }
}`
)

// CreateTeam creates a new Linear team
func (r *LinearRepository) CreateTeam(ctx context.Context, spec models.TeamSpec) (*models.Team, error) {
	input := map[string]interface{}{
		"name": spec.Name,
		"key":  spec.Key,
	}
	setIfNotEmpty(input, "description", spec.Description)

	var data struct {
		TeamCreate struct {
			Success bool         `json:"success"`
			Team    *models.Team `json:"team"`
		} `json:"teamCreate"`
	}
	if err := r.execute(ctx, createTeamMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.TeamCreate.Success || data.TeamCreate.Team == nil {
		return nil, fmt.Errorf("teamCreate was not successful")
	}
	return data.TeamCreate.Team, nil
}

// CreateProject creates a project associated with a single team. A
// successful payload without a project yields (nil, nil) so the caller
// decides how to treat it.
func (r *LinearRepository) CreateProject(ctx context.Context, spec models.ProjectSpec) (*models.Project, error) {
	input := map[string]interface{}{
		"name":    spec.Name,
		"teamIds": []string{spec.TeamID},
	}
	setIfNotEmpty(input, "description", spec.Description)
	setIfNotEmpty(input, "icon", spec.Icon)
	setIfNotEmpty(input, "color", spec.Color)

	var data struct {
		ProjectCreate struct {
			Success bool            `json:"success"`
			Project *models.Project `json:"project"`
		} `json:"projectCreate"`
	}
	if err := r.execute(ctx, createProjectMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.ProjectCreate.Success {
		return nil, fmt.Errorf("projectCreate was not successful")
	}
	return data.ProjectCreate.Project, nil
}

// CreateIssue creates an issue. labelIDs are the already resolved ids of spec.Labels.
func (r *LinearRepository) CreateIssue(ctx context.Context, spec models.IssueSpec, labelIDs []string) (*models.Issue, error) {
	input := map[string]interface{}{
		"title":  spec.Title,
		"teamId": spec.TeamID,
	}
	setIfNotEmpty(input, "description", spec.Description)
	setIfNotEmpty(input, "projectId", spec.ProjectID)
	setIfNotEmpty(input, "assigneeId", spec.AssigneeID)
	if spec.Priority != 0 {
		input["priority"] = spec.Priority
	}
	if spec.DueDate != nil {
		input["dueDate"] = spec.DueDate.Format(dateLayout)
	}
	if len(labelIDs) > 0 {
		input["labelIds"] = labelIDs
	}

	var data struct {
		IssueCreate struct {
			Success bool          `json:"success"`
			Issue   *models.Issue `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := r.execute(ctx, createIssueMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("issueCreate was not successful")
	}
	return data.IssueCreate.Issue, nil
}

// ListTeams returns the teams visible to the API key. Only the first page is read.
func (r *LinearRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	var data struct {
		Teams struct {
			Nodes []models.Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := r.execute(ctx, teamsQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.Teams.Nodes, nil
}

// GetTeam fetches a team by id
func (r *LinearRepository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var data struct {
		Team *models.Team `json:"team"`
	}
	if err := r.execute(ctx, teamQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Team == nil {
		return nil, notFound("team", id)
	}
	return data.Team, nil
}

// TeamProjects lists the projects associated with a team
func (r *LinearRepository) TeamProjects(ctx context.Context, teamID string) ([]models.Project, error) {
	var data struct {
		Team *struct {
			Projects struct {
				Nodes []models.Project `json:"nodes"`
			} `json:"projects"`
		} `json:"team"`
	}
	if err := r.execute(ctx, teamProjectsQuery, map[string]interface{}{"id": teamID}, &data); err != nil {
		return nil, err
	}
	if data.Team == nil {
		return nil, notFound("team", teamID)
	}
	return data.Team.Projects.Nodes, nil
}

// ListIssues returns the issues matching filter. Only the first page is read.
func (r *LinearRepository) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	var data struct {
		Issues struct {
			Nodes []models.Issue `json:"nodes"`
		} `json:"issues"`
	}
	if err := r.execute(ctx, issuesQuery, map[string]interface{}{"filter": filter}, &data); err != nil {
		return nil, err
	}
	return data.Issues.Nodes, nil
}

// GetIssue fetches an issue by id or identifier
func (r *LinearRepository) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	var data struct {
		Issue *models.Issue `json:"issue"`
	}
	if err := r.execute(ctx, issueQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Issue == nil {
		return nil, notFound("issue", id)
	}
	return data.Issue, nil
}

// UpdateIssue applies a partial update. labelIDs replace the issue labels
// when update.Labels is not nil.
func (r *LinearRepository) UpdateIssue(ctx context.Context, id string, update models.IssueUpdate, labelIDs []string) (*models.Issue, error) {
	input := map[string]interface{}{}
	setIfNotNil(input, "title", update.Title)
	setIfNotNil(input, "description", update.Description)
	setIfNotNil(input, "teamId", update.TeamID)
	setIfNotNil(input, "projectId", update.ProjectID)
	setIfNotNil(input, "assigneeId", update.AssigneeID)
	if update.Priority != nil {
		input["priority"] = *update.Priority
	}
	if update.DueDate != nil {
		input["dueDate"] = update.DueDate.Format(dateLayout)
	}
	if update.Labels != nil {
		input["labelIds"] = append([]string{}, labelIDs...)
	}

	var data struct {
		IssueUpdate struct {
			Success bool          `json:"success"`
			Issue   *models.Issue `json:"issue"`
		} `json:"issueUpdate"`
	}
	vars := map[string]interface{}{"id": id, "input": input}
	if err := r.execute(ctx, updateIssueMutation, vars, &data); err != nil {
		return nil, err
	}
	if !data.IssueUpdate.Success || data.IssueUpdate.Issue == nil {
		return nil, fmt.Errorf("issueUpdate was not successful")
	}
	return data.IssueUpdate.Issue, nil
}

// DeleteIssue deletes an issue and reports whether Linear accepted it
func (r *LinearRepository) DeleteIssue(ctx context.Context, id string) (bool, error) {
	var data struct {
		IssueDelete struct {
			Success bool `json:"success"`
		} `json:"issueDelete"`
	}
	if err := r.execute(ctx, deleteIssueMutation, map[string]interface{}{"id": id}, &data); err != nil {
		return false, err
	}
	return data.IssueDelete.Success, nil
}

// FindLabels returns the labels named in names that are usable by the team:
// labels owned by the team and workspace labels.
func (r *LinearRepository) FindLabels(ctx context.Context, teamID string, names []string) ([]models.Label, error) {
	if len(names) == 0 {
		return nil, nil
	}

	filter := map[string]interface{}{
		"name": map[string]interface{}{"in": names},
	}
	var data struct {
		IssueLabels struct {
			Nodes []models.Label `json:"nodes"`
		} `json:"issueLabels"`
	}
	if err := r.execute(ctx, labelsQuery, map[string]interface{}{"filter": filter}, &data); err != nil {
		return nil, err
	}

	labels := make([]models.Label, 0, len(data.IssueLabels.Nodes))
	for _, l := range data.IssueLabels.Nodes {
		if l.Team == nil || l.Team.ID == teamID {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

// CreateLabel creates a label owned by the team
func (r *LinearRepository) CreateLabel(ctx context.Context, teamID, name string) (*models.Label, error) {
	input := map[string]interface{}{
		"name": name,
	}
	setIfNotEmpty(input, "teamId", teamID)

	var data struct {
		IssueLabelCreate struct {
			Success    bool          `json:"success"`
			IssueLabel *models.Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}
	if err := r.execute(ctx, createLabelMutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueLabelCreate.Success || data.IssueLabelCreate.IssueLabel == nil {
		return nil, fmt.Errorf("issueLabelCreate was not successful")
	}
	return data.IssueLabelCreate.IssueLabel, nil
}

const dateLayout = "2006-01-02"

func setIfNotEmpty(input map[string]interface{}, key, value string) {
	if value != "" {
		input[key] = value
	}
}

func setIfNotNil(input map[string]interface{}, key string, value *string) {
	if value != nil {
		input[key] = *value
	}
}
