package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"linear-planner/internal/models"
	"linear-planner/internal/templates"
)

type creatorMock struct{ mock.Mock }

var _ ProjectIssueCreator = (*creatorMock)(nil)
var _ ProjectIssueCreator = (*LinearService)(nil)

func (m *creatorMock) CreateProject(ctx context.Context, spec models.ProjectSpec) (*models.Project, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *creatorMock) CreateIssue(ctx context.Context, spec models.IssueSpec) (*models.Issue, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

func (m *creatorMock) EnsureLabel(ctx context.Context, teamID, name string) (string, error) {
	args := m.Called(ctx, teamID, name)
	return args.String(0), args.Error(1)
}

var acmePortal = models.PlanParams{
	ProjectName:           "Acme Portal",
	ProjectScope:          "customer self-service",
	Industry:              "Software",
	TechnicalRequirements: []string{"Go", "Postgres"},
}

func ensureMilestoneLabel(m *creatorMock) {
	m.On("EnsureLabel", mock.Anything, "t1", MilestoneLabel).Return("label-milestone", nil).Once()
}

// recordIssues makes every CreateIssue call succeed and appends the spec to specs.
func recordIssues(m *creatorMock, specs *[]models.IssueSpec) {
	m.On("CreateIssue", mock.Anything, mock.AnythingOfType("models.IssueSpec")).
		Run(func(args mock.Arguments) {
			*specs = append(*specs, args.Get(1).(models.IssueSpec))
		}).
		Return(&models.Issue{ID: uuid.NewString()}, nil)
}

func TestCreateProjectWithPlan_CreatesMilestonesThenIssues(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())
	plan := svc.GeneratePlan(acmePortal)

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, models.ProjectSpec{
		Name:        "Acme Portal",
		TeamID:      "t1",
		Description: plan.ProjectDescription,
	}).Return(&models.Project{ID: "p1", Name: "Acme Portal"}, nil).Once()

	var specs []models.IssueSpec
	recordIssues(creator, &specs)

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.NoError(t, err)
	require.Equal(t, "p1", result.Project.ID)
	require.Len(t, result.Milestones, len(plan.Milestones))

	creator.AssertNumberOfCalls(t, "CreateProject", 1)
	creator.AssertNumberOfCalls(t, "CreateIssue", len(plan.Milestones)+plan.TotalIssues())

	var want []string
	for _, m := range plan.Milestones {
		want = append(want, "Milestone: "+m.Title)
		for _, issue := range m.Issues {
			want = append(want, issue.Title)
		}
	}
	got := make([]string, 0, len(specs))
	for _, s := range specs {
		got = append(got, s.Title)
		assert.Equal(t, "t1", s.TeamID)
		assert.Equal(t, "p1", s.ProjectID)
	}
	require.Equal(t, want, got)
	require.Equal(t, "Milestone: Discovery & Analysis", specs[0].Title)

	for i, m := range result.Milestones {
		require.NotNil(t, m.Milestone)
		require.Len(t, m.Issues, len(plan.Milestones[i].Issues))
	}
}

func TestCreateProjectWithPlan_MilestoneAndIssueFields(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())
	plan := svc.GeneratePlan(acmePortal)

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	var specs []models.IssueSpec
	recordIssues(creator, &specs)

	_, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.NoError(t, err)

	first := plan.Milestones[0]
	marker := specs[0]
	assert.Equal(t, first.Description, marker.Description)
	assert.Equal(t, MilestonePriority, marker.Priority)
	assert.Equal(t, []string{MilestoneLabel}, marker.Labels)

	child := specs[1]
	tmpl := first.Issues[0]
	assert.Equal(t, tmpl.Priority, child.Priority)
	assert.Equal(t, tmpl.Labels, child.Labels)
	assert.Equal(t, templates.ExpandDescription(tmpl.Description, acmePortal), child.Description)
	assert.Contains(t, child.Description, "## Overview")
	assert.Contains(t, child.Description, "## Acceptance Criteria")
}

func TestCreateProjectWithPlan_ProjectWithoutID(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewPlanService(creator, zap.New(core).Sugar())

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(&models.Project{Name: "Acme Portal"}, nil).Once()

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.Nil(t, result)
	require.ErrorIs(t, err, ErrProjectIDMissing)
	require.Equal(t, 1, logs.FilterMessage("project created without id").Len())
	creator.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestCreateProjectWithPlan_ProjectFailure(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())

	boom := errors.New("team not found")
	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(nil, boom).Once()

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.Nil(t, result)
	require.Same(t, boom, err)
	creator.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestCreateProjectWithPlan_StopsAtFirstIssueFailure(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewPlanService(creator, zap.New(core).Sugar())

	boom := errors.New("rate limited")
	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	creator.On("CreateIssue", ctx, mock.Anything).Return(&models.Issue{ID: uuid.NewString()}, nil).Twice()
	creator.On("CreateIssue", ctx, mock.Anything).Return(nil, boom).Once()

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.Nil(t, result)
	require.Same(t, boom, err)
	creator.AssertNumberOfCalls(t, "CreateIssue", 3)

	aborted := logs.FilterMessage("plan creation aborted").All()
	require.Len(t, aborted, 1)
	assert.EqualValues(t, 2, aborted[0].ContextMap()["created"])
}

func TestCreateProjectWithPlan_ReportsProgress(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)

	type step struct{ current, total int }
	var steps []step
	svc := NewPlanService(creator, zap.NewNop().Sugar()).
		WithProgress(func(current, total int, _ string) {
			steps = append(steps, step{current, total})
		})
	params := models.PlanParams{ProjectName: "Spring Launch", ProjectScope: "campaign", Industry: "marketing"}
	plan := svc.GeneratePlan(params)
	total := len(plan.Milestones) + plan.TotalIssues()

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(&models.Project{ID: "p1"}, nil).Once()
	var specs []models.IssueSpec
	recordIssues(creator, &specs)

	_, err := svc.CreateProjectWithPlan(ctx, "t1", params)
	require.NoError(t, err)

	require.Len(t, steps, total)
	for i, s := range steps {
		assert.Equal(t, i+1, s.current)
		assert.Equal(t, total, s.total)
	}
}

func TestCreateProjectWithPlan_NullProject(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, mock.Anything).Return(nil, nil).Once()

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.Nil(t, result)
	require.ErrorIs(t, err, ErrProjectIDMissing)
	creator.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestCreateProjectWithPlan_MilestoneLabelFailure(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())

	boom := errors.New("forbidden")
	creator.On("EnsureLabel", ctx, "t1", MilestoneLabel).Return("", boom).Once()

	result, err := svc.CreateProjectWithPlan(ctx, "t1", acmePortal)
	require.Nil(t, result)
	require.Same(t, boom, err)
	creator.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
	creator.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestCreateProjectFromPlan_UsesGivenPlan(t *testing.T) {
	ctx := context.Background()
	creator := new(creatorMock)
	svc := NewPlanService(creator, zap.NewNop().Sugar())

	plan := svc.GeneratePlan(acmePortal)
	plan.ProjectDescription = "Edited description"
	plan.Milestones = plan.Milestones[:1]
	plan.Milestones[0].Title = "Kickoff"
	plan.Milestones[0].Issues = []models.IssueTemplate{
		{Title: "Hand-written task", Description: "Agree on the database schema", Priority: 3, Labels: []string{"backend"}},
	}

	ensureMilestoneLabel(creator)
	creator.On("CreateProject", ctx, models.ProjectSpec{
		Name:        "Acme Portal",
		TeamID:      "t1",
		Description: "Edited description",
	}).Return(&models.Project{ID: "p1"}, nil).Once()
	var specs []models.IssueSpec
	recordIssues(creator, &specs)

	result, err := svc.CreateProjectFromPlan(ctx, "t1", acmePortal, plan)
	require.NoError(t, err)
	require.Len(t, result.Milestones, 1)
	creator.AssertExpectations(t)

	require.Len(t, specs, 2)
	assert.Equal(t, "Milestone: Kickoff", specs[0].Title)
	assert.Equal(t, "Hand-written task", specs[1].Title)
	assert.Equal(t, 3, specs[1].Priority)
	assert.Equal(t, []string{"backend"}, specs[1].Labels)
	assert.Equal(t, templates.ExpandDescription("Agree on the database schema", acmePortal), specs[1].Description)
}
