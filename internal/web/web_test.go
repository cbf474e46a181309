package web

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
)

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	pages := []string{
		"login", "error", "dashboard",
		"accounts/list", "accounts/form",
		"students/list", "students/form",
		"teachers/list", "teachers/form", "teachers/subjects",
		"subjects/list", "subjects/form",
		"schedules/list", "schedules/form", "schedules/show", "schedules/assign", "schedules/edit",
		"grades/list", "grades/form", "grades/summary",
		"disciplinary/list", "disciplinary/form", "disciplinary/summary",
		"reports/index", "reports/view", "reports/exports",
	}
	for _, page := range pages {
		assert.True(t, r.Has(page), page)
	}
	assert.False(t, r.Has("layout"))
}

func renderHTML(t *testing.T, name string, data gin.H) string {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, MustRenderer().Instance(name, data).Render(rec))
	return rec.Body.String()
}

func TestLayoutShowsNavigationByRole(t *testing.T) {
	admin := renderHTML(t, "dashboard", gin.H{"User": &models.SessionUser{Name: "Ana", UserType: models.UserTypeAdmin}})
	assert.Contains(t, admin, `href="/accounts"`)
	assert.Contains(t, admin, "Log out Ana")

	teacher := renderHTML(t, "dashboard", gin.H{"User": &models.SessionUser{Name: "Tia", UserType: models.UserTypeTeacher}})
	assert.NotContains(t, teacher, `href="/accounts"`)

	anonymous := renderHTML(t, "login", gin.H{"User": (*models.SessionUser)(nil)})
	assert.NotContains(t, anonymous, "<nav>")
	assert.Contains(t, anonymous, `action="/login"`)
}

func TestAssignPageAsksForConfirmation(t *testing.T) {
	view := &dto.AssignTeacherView{
		ScheduleID:  "sch1",
		Entry:       models.ScheduleEntry{ID: "e1", CourseCode: "MATH101"},
		SubjectCode: "MATH101",
		Teachers:    []dto.TeacherOption{{ID: "t1", Name: "Budi", Day: "Mon", Time: "08:00", Selected: true}},
		Form:        dto.AssignmentForm{TeacherID: "t1", Day: "Mon", Time: "08:00", Room: "R1"},
		ClassFull:   true,

		NeedsConfirmation: true,
	}
	body := renderHTML(t, "schedules/assign", gin.H{"View": view, "Error": "confirmation required"})
	assert.Contains(t, body, `name="confirm"`)
	assert.Contains(t, body, "This class is full.")
	assert.Contains(t, body, `value="R1"`)
}

func TestPagerKeepsQuery(t *testing.T) {
	body := renderHTML(t, "subjects/list", gin.H{
		"User":       &models.SessionUser{UserType: models.UserTypeTeacher},
		"Filter":     models.SubjectFilter{Department: "CS"},
		"Subjects":   []models.Subject{{ID: "s1", Code: "CS101"}},
		"Pagination": &models.Pagination{Page: 2, PageSize: 10, TotalCount: 35},
		"Query":      url.Values{"department": {"CS"}},
	})
	assert.Contains(t, body, "Page 2 of 4")
	assert.Contains(t, body, "department=CS&amp;page=1")
	assert.Contains(t, body, "department=CS&amp;page=3")
	assert.Contains(t, body, "CS101")
	assert.NotContains(t, body, "/subjects/s1/edit")
}

func TestMissingPageRendersPlaceholder(t *testing.T) {
	body := renderHTML(t, "nope", nil)
	assert.Contains(t, body, "missing page nope")
}

func TestWithQuery(t *testing.T) {
	query := url.Values{"search": {"ana"}, "page": {"1"}}
	assert.Equal(t, "?page=3&search=ana", withQuery(query, "page", 3))
	assert.Equal(t, []string{"1"}, query["page"])
}
