package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	groupsfeature "github.com/dalemusser/remindhub/internal/app/features/groups"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/dalemusser/remindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) *groupsfeature.Handler {
	t.Helper()
	return groupsfeature.NewHandler(testutil.SetupTestStore(t), zap.NewNop())
}

func TestCreate(t *testing.T) {
	h := newHandler(t)
	teacher := testutil.TeacherUser()

	body := `{"name":"Period 2 <script>x()</script>","student_ids":["s1","s2"]}`
	req := httptest.NewRequest("POST", "/groups", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, teacher)

	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var g models.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Period 2", g.Name)
	assert.Equal(t, teacher.ID, g.CreatedBy)
	assert.Equal(t, []string{"s1", "s2"}, g.StudentIDs)
}

func TestCreate_EmptyName(t *testing.T) {
	h := newHandler(t)
	teacher := testutil.TeacherUser()

	req := httptest.NewRequest("POST", "/groups", strings.NewReader(`{"name":"  "}`))
	req = testutil.WithUser(req, teacher)

	rec := httptest.NewRecorder()
	h.Create(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestList(t *testing.T) {
	h := newHandler(t)
	teacher := testutil.TeacherUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := h.Store.Create(ctx, models.Group{Name: "Period 1", CreatedBy: teacher.ID})
	require.NoError(t, err)
	_, err = h.Store.Create(ctx, models.Group{Name: "Period 2", CreatedBy: teacher.ID})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest("GET", "/groups", teacher))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestRoutes_TeacherOnly(t *testing.T) {
	h := newHandler(t)
	router := groupsfeature.Routes(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.StudentUser()))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.TeacherUser()))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
