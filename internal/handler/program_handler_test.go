package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/phdstats-api/internal/dto"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/service"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Pagination map[string]interface{} `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

type fakeProgramSrv struct {
	names        []string
	summaries    []models.ProgramSummary
	summary      models.ProgramSummary
	students     *service.StudentList
	snapshots    []models.SnapshotPoint
	points       []models.StatisticsPoint
	err          error
	lastStudents service.StudentListRequest
	lastMetric   string
}

func (f *fakeProgramSrv) Search(context.Context, service.ProgramSearchRequest) ([]string, error) {
	return f.names, f.err
}

func (f *fakeProgramSrv) Index(context.Context) ([]models.ProgramSummary, error) {
	return f.summaries, f.err
}

func (f *fakeProgramSrv) Summary(context.Context, string) (models.ProgramSummary, error) {
	return f.summary, f.err
}

func (f *fakeProgramSrv) Students(_ context.Context, req service.StudentListRequest) (*service.StudentList, error) {
	f.lastStudents = req
	return f.students, f.err
}

func (f *fakeProgramSrv) Snapshots(context.Context, service.SnapshotListRequest) ([]models.SnapshotPoint, error) {
	return f.snapshots, f.err
}

func (f *fakeProgramSrv) Statistics(_ context.Context, req service.StatisticsRequest) (models.StatisticsMetric, []models.StatisticsPoint, error) {
	f.lastMetric = req.Metric
	return models.MetricPlacement, f.points, f.err
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, rec
}

func studentFixture(names ...string) []models.StudentRecord {
	records := make([]models.StudentRecord, 0, len(names))
	for _, name := range names {
		records = append(records, models.StudentRecord{Name: name, University: "Rutgers"})
	}
	return records
}

func TestProgramHandlerSearch(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{names: []string{"NYU", "Rutgers"}})
	c, rec := newTestContext(http.MethodGet, "/programs?q=u")

	handler.Search(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var names []string
	require.NoError(t, json.Unmarshal(envelope.Data, &names))
	assert.Equal(t, []string{"NYU", "Rutgers"}, names)
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestProgramHandlerIndex(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{summaries: []models.ProgramSummary{{Program: "Rutgers", TotalEntries: 4, PercentageOfPlacements: 50}}})
	c, rec := newTestContext(http.MethodGet, "/programs/index")

	handler.Index(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload dto.ProgramIndexResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "50%", payload.Rows[0].PlacementRate)
	assert.Equal(t, "Host Institution", payload.Columns[0].Label)
}

func TestProgramHandlerSummaryNotFound(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{err: appErrors.Clone(appErrors.ErrNotFound, "program not found")})
	c, rec := newTestContext(http.MethodGet, "/programs/summary?program=Princeton")

	handler.Summary(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "program not found", envelope.Error.Message)
}

func TestProgramHandlerSummaryRows(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{summary: models.ProgramSummary{Program: "Rutgers", CurrentlyActive: 2}})
	c, rec := newTestContext(http.MethodGet, "/programs/summary?program=Rutgers")

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload dto.ProgramSummaryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	assert.Equal(t, "Rutgers", payload.Summary.Program)
	assert.Equal(t, dto.LabeledValue{Label: "Currently Enrolled", Value: "2"}, payload.Rows[0])
}

func TestProgramHandlerStudentsPaginates(t *testing.T) {
	srv := &fakeProgramSrv{students: &service.StudentList{Program: "Rutgers", Records: studentFixture("Ada", "Ben", "Cy")}}
	handler := NewProgramHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/programs/students?program=Rutgers&sort=NAME&order=desc&page=2&limit=2")

	handler.Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StudentListRequest{Program: "Rutgers", Sort: "name", Order: "desc"}, srv.lastStudents)
	envelope := decodeEnvelope(t, rec)
	var payload dto.StudentListResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "Cy", payload.Rows[0].Name)
	assert.Equal(t, float64(3), envelope.Pagination["total_count"])
}

func TestProgramHandlerStudentsWithoutPaging(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{students: &service.StudentList{Program: "All Programs", Mixed: true, Records: studentFixture("Ada", "Ben")}})
	c, rec := newTestContext(http.MethodGet, "/programs/students")

	handler.Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Nil(t, envelope.Pagination)
	var payload dto.StudentListResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Len(t, payload.Rows, 2)
	assert.Equal(t, dto.ColumnUniversity, payload.Columns[1].ID)
}

func TestProgramHandlerStudentsRejectsBadPage(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{})
	c, rec := newTestContext(http.MethodGet, "/programs/students?page=zero")

	handler.Students(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgramHandlerSnapshots(t *testing.T) {
	day := time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)
	handler := NewProgramHandler(&fakeProgramSrv{snapshots: []models.SnapshotPoint{{Date: day, FormattedDate: "03/15/2020", SourceURL: "https://web.archive.org/web/20200315120000/x", AssociatedStudentCount: 3}}})
	c, rec := newTestContext(http.MethodGet, "/programs/snapshots?program=Rutgers")

	handler.Snapshots(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []dto.SnapshotRow
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rows))
	assert.Equal(t, []dto.SnapshotRow{{Date: "03/15/2020", Students: 3, URL: "https://web.archive.org/web/20200315120000/x"}}, rows)
}

func TestProgramHandlerStatistics(t *testing.T) {
	srv := &fakeProgramSrv{points: []models.StatisticsPoint{{Program: "Rutgers", Value: 50}}}
	handler := NewProgramHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/statistics?metric=Placement")

	handler.Statistics(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "placement", srv.lastMetric)
	var payload dto.StatisticsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	assert.Equal(t, "Placement Rate", payload.Label)
	assert.Len(t, payload.Points, 1)
	assert.Equal(t, models.RankingStatistics{TotalPrograms: 1, Mean: 50, Median: 50, Min: 50, Max: 50}, payload.Summary)
	assert.Len(t, payload.SummaryRows, 6)
}

func TestProgramHandlerDatasetUnavailable(t *testing.T) {
	handler := NewProgramHandler(&fakeProgramSrv{err: appErrors.ErrDatasetUnavailable})
	c, rec := newTestContext(http.MethodGet, "/programs/index")

	handler.Index(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProgramHandlerWithoutService(t *testing.T) {
	handler := NewProgramHandler(nil)
	c, rec := newTestContext(http.MethodGet, "/programs")

	handler.Search(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaginate(t *testing.T) {
	records := studentFixture("a", "b", "c")

	page, pagination := paginate(records, 5, 2)
	assert.Empty(t, page)
	require.NotNil(t, pagination)
	assert.Equal(t, 3, pagination.TotalCount)

	all, pagination := paginate(records, 1, 0)
	assert.Len(t, all, 3)
	assert.Nil(t, pagination)
}
