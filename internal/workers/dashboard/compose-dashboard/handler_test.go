package composedashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:            5 * time.Second,
		MaxConcurrentReads: 3,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// the three reads run concurrently
	mock.MatchExpectationsInOrder(false)

	log := createTestLogger(t)
	resolver := identity.NewResolver(db, nil, 0, log)
	return NewHandler(createTestConfig(), db, resolver, log), mock
}

var (
	profileCols   = []string{"id", "email", "first_name", "last_name", "role", "company_id", "location"}
	jobCols       = []string{"id", "company_id", "title", "description", "location", "remote_ok", "salary_min", "salary_max", "skills", "status", "created_at"}
	appCols       = []string{"id", "job_id", "candidate_id", "status", "ai_match_score", "applied_at"}
	candidateCols = []string{"id", "summary", "skills", "experience_years", "salary_expectation", "resume_url"}
)

func expectProfile(mock sqlmock.Sqlmock, id, firstName, role string, companyID interface{}) {
	mock.ExpectQuery(`FROM profiles`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow(id, id+"@mail.io", firstName, "Doe", role, companyID, nil))
}

func jobRows(n int) *sqlmock.Rows {
	rows := sqlmock.NewRows(jobCols)
	for i := 0; i < n; i++ {
		rows.AddRow("job", "company-1", "Title", "Desc", nil, false, nil, nil, []byte(`[]`), "active", time.Now())
	}
	return rows
}

func candidateRows(n int) *sqlmock.Rows {
	rows := sqlmock.NewRows(candidateCols)
	for i := 0; i < n; i++ {
		rows.AddRow("cand", "summary", []byte(`["go"]`), 3, nil, nil)
	}
	return rows
}

// ==========================
// Loading State
// ==========================

func TestHandler_Execute_EmptyUserIssuesNoQuery(t *testing.T) {
	handler, mock := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, models.ViewStateLoading, output.View.State)
	assert.Equal(t, models.DefaultDashboardStats(), output.View.Stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MissingProfileIsLoading(t *testing.T) {
	handler, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("new-user").
		WillReturnRows(sqlmock.NewRows(profileCols))

	output, err := handler.Execute(context.Background(), &Input{UserID: "new-user"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewStateLoading, output.View.State)
	// no dashboard reads were expected, so any would have failed
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Aggregation
// ==========================

func TestHandler_Execute_RecruiterDashboard(t *testing.T) {
	handler, mock := newTestHandler(t)

	expectProfile(mock, "rec-1", "Rita", "recruiter", "company-1")
	mock.ExpectQuery(`FROM jobs j\s+WHERE j.company_id = \$1`).
		WithArgs("company-1").
		WillReturnRows(jobRows(2))
	mock.ExpectQuery(`FROM applications a`).
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows(appCols).
			AddRow("a1", "job", "c1", "applied", nil, time.Now()).
			AddRow("a2", "job", "c2", "hired", nil, time.Now()).
			AddRow("a3", "job", "c3", "rejected", nil, time.Now()).
			AddRow("a4", "job", "c4", "interview", 77, time.Now()))
	mock.ExpectQuery(`FROM candidates c`).
		WillReturnRows(candidateRows(3))

	output, err := handler.Execute(context.Background(), &Input{UserID: "rec-1"})
	require.NoError(t, err)

	view := output.View
	assert.Equal(t, models.ViewStateLoaded, view.State)
	assert.True(t, view.IsRecruiter)
	assert.Equal(t, "Welcome back, Rita!", view.Greeting)
	assert.Equal(t, models.DashboardStats{
		TotalJobs:          2,
		ActiveApplications: 2,
		TotalCandidates:    3,
		TimeToHire:         "5.2 days",
	}, view.Stats)
	assert.Equal(t, "Active Jobs", view.Cards[0].Label)
	assert.Equal(t, "2", view.Cards[1].Value)
	assert.Equal(t, "Hiring Metrics", view.MetricsTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ReadsRunConcurrently(t *testing.T) {
	handler, mock := newTestHandler(t)

	const delay = 200 * time.Millisecond
	expectProfile(mock, "rec-1", "Rita", "recruiter", "company-1")
	mock.ExpectQuery(`FROM jobs j`).
		WithArgs("company-1").
		WillDelayFor(delay).
		WillReturnRows(jobRows(1))
	mock.ExpectQuery(`FROM applications a`).
		WithArgs("company-1").
		WillDelayFor(delay).
		WillReturnRows(sqlmock.NewRows(appCols).
			AddRow("a1", "job", "c1", "applied", nil, time.Now()))
	mock.ExpectQuery(`FROM candidates c`).
		WillDelayFor(delay).
		WillReturnRows(candidateRows(2))

	start := time.Now()
	output, err := handler.Execute(context.Background(), &Input{UserID: "rec-1"})
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, elapsed, delay)
	assert.Less(t, elapsed, 2*delay, "reads ran one after another")
	assert.Equal(t, 1, output.View.Stats.TotalJobs)
	assert.Equal(t, 1, output.View.Stats.ActiveApplications)
	assert.Equal(t, 2, output.View.Stats.TotalCandidates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ZeroRows(t *testing.T) {
	handler, mock := newTestHandler(t)

	expectProfile(mock, "admin-1", "Ada", "enterprise_admin", "company-9")
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(jobRows(0))
	mock.ExpectQuery(`FROM applications a`).WillReturnRows(sqlmock.NewRows(appCols))
	mock.ExpectQuery(`FROM candidates c`).WillReturnRows(candidateRows(0))

	output, err := handler.Execute(context.Background(), &Input{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDashboardStats(), output.View.Stats)
	assert.Equal(t, "0 days", output.View.Cards[3].Value)
}

func TestHandler_Execute_CandidateWithoutCompany(t *testing.T) {
	handler, mock := newTestHandler(t)

	expectProfile(mock, "cand-1", "Cam", "candidate", nil)
	mock.ExpectQuery(`FROM candidates c`).WillReturnRows(candidateRows(4))

	output, err := handler.Execute(context.Background(), &Input{UserID: "cand-1"})
	require.NoError(t, err)

	view := output.View
	assert.False(t, view.IsRecruiter)
	assert.Equal(t, 4, view.Stats.TotalCandidates)
	assert.Equal(t, "Match Rate", view.Cards[2].Label)
	assert.Equal(t, "92%", view.Cards[2].Value)
	assert.Equal(t, "2.4h", view.Cards[3].Value)
	assert.Equal(t, "Your Progress", view.MetricsTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ReadFailureFallsBackToDefaults(t *testing.T) {
	handler, mock := newTestHandler(t)

	expectProfile(mock, "rec-1", "Rita", "recruiter", "company-1")
	mock.ExpectQuery(`FROM jobs j`).WillReturnRows(jobRows(5))
	mock.ExpectQuery(`FROM applications a`).WillReturnError(errors.New("statement timeout"))
	mock.ExpectQuery(`FROM candidates c`).WillReturnRows(candidateRows(2))

	output, err := handler.Execute(context.Background(), &Input{UserID: "rec-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ViewStateLoaded, output.View.State)
	assert.Equal(t, models.DefaultDashboardStats(), output.View.Stats)
}

func TestHandler_Execute_ProfileLookupError(t *testing.T) {
	handler, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM profiles`).WillReturnError(errors.New("connection refused"))

	_, err := handler.Execute(context.Background(), &Input{UserID: "rec-1"})
	assert.Error(t, err)
}

// ==========================
// Stats & Views
// ==========================

func TestComputeStats_ActiveApplications(t *testing.T) {
	apps := []models.Application{
		{Status: models.ApplicationStatusApplied},
		{Status: models.ApplicationStatusScreening},
		{Status: models.ApplicationStatusAssessment},
		{Status: models.ApplicationStatusOffer},
		{Status: models.ApplicationStatusHired},
		{Status: models.ApplicationStatusRejected},
	}

	stats := ComputeStats(nil, apps, nil)
	assert.Equal(t, 4, stats.ActiveApplications)
	assert.Equal(t, "0 days", stats.TimeToHire)
}

func TestBuildView_SameShapeForBothRoles(t *testing.T) {
	stats := models.DefaultDashboardStats()
	recruiter := BuildView(&models.Profile{FirstName: "R", Role: models.RoleRecruiter}, stats)
	candidate := BuildView(&models.Profile{FirstName: "C", Role: models.RoleCandidate}, stats)
	unknown := BuildView(&models.Profile{FirstName: "U", Role: "hiring_manager"}, stats)

	for _, v := range []models.DashboardView{recruiter, candidate, unknown} {
		assert.Len(t, v.Cards, 4)
		assert.Len(t, v.QuickActions, 4)
		assert.Len(t, v.Metrics, 2)
		assert.Equal(t, "Recent Activity", v.ActivityTitle)
	}

	assert.Equal(t, []string{"Create Job Posting", "Search Candidates", "View Analytics", "Messages"}, recruiter.QuickActions)
	assert.Equal(t, []string{"Browse Jobs", "Complete Profile", "Practice Interview", "Skill Assessment"}, candidate.QuickActions)
	assert.Equal(t, "Discover your next opportunity", candidate.Subtitle)
	assert.False(t, unknown.IsRecruiter)
}
