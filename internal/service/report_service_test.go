package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/class-rewards-api/internal/models"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/export"
)

func newTestReportService(repo *mockLeaderboardRepo, classes *mockClassRepo) *ReportService {
	return NewReportService(repo, classes, export.NewCSVExporter(), export.NewPDFExporter(), nil)
}

func TestClassReportCSVRanksStudents(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{
		"c1": {
			{ID: "s1", Name: "Ana", Points: 9, ClassID: "c1"},
			{ID: "s2", Name: "Ben", Points: 4, ClassID: "c1"},
		},
	}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t1"},
	}}
	svc := newTestReportService(repo, classes)

	report, err := svc.ClassReport(context.Background(), "t1", "c1", ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "class-c1-standings.csv", report.FileName)
	assert.Equal(t, "text/csv", report.ContentType)

	lines := strings.Split(strings.TrimSpace(string(report.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rank,Student,Points", lines[0])
	assert.Equal(t, "1,Ana,9", lines[1])
	assert.Equal(t, "2,Ben,4", lines[2])
}

func TestClassReportDefaultsToCSV(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{"c1": {}}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t1"},
	}}
	svc := newTestReportService(repo, classes)

	report, err := svc.ClassReport(context.Background(), "t1", "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
}

func TestClassReportPDF(t *testing.T) {
	repo := &mockLeaderboardRepo{standings: map[string][]models.Student{
		"c1": {{ID: "s1", Name: "Ana", Points: 9, ClassID: "c1"}},
	}}
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", Name: "Grade 3B", TeacherID: "t1"},
	}}
	svc := newTestReportService(repo, classes)

	report, err := svc.ClassReport(context.Background(), "t1", "c1", ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "class-c1-standings.pdf", report.FileName)
	assert.True(t, len(report.Payload) > 0)
}

func TestClassReportRejectsUnknownFormat(t *testing.T) {
	svc := newTestReportService(&mockLeaderboardRepo{}, &mockClassRepo{})

	_, err := svc.ClassReport(context.Background(), "t1", "c1", "xlsx")
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestClassReportForeignClassIsNotFound(t *testing.T) {
	classes := &mockClassRepo{owned: map[string]*models.Class{
		"c1": {ID: "c1", TeacherID: "t2"},
	}}
	svc := newTestReportService(&mockLeaderboardRepo{}, classes)

	_, err := svc.ClassReport(context.Background(), "t1", "c1", ReportFormatCSV)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
