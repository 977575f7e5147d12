package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/models"
	"go.uber.org/zap"
)

type fakeQuizRepo struct {
	quizzes map[int64]models.Quiz
	nextID  int64
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[int64]models.Quiz)}
}

func (f *fakeQuizRepo) Create(_ context.Context, title, description string, questions json.RawMessage, createdBy int64) (*models.Quiz, error) {
	f.nextID++
	if len(questions) == 0 {
		questions = json.RawMessage(`[]`)
	}
	q := models.Quiz{ID: f.nextID, Title: title, Description: description, Questions: questions, CreatedBy: createdBy, CreatedAt: time.Now()}
	f.quizzes[q.ID] = q
	return &q, nil
}

func (f *fakeQuizRepo) GetByID(_ context.Context, quizID int64) (*models.Quiz, error) {
	q, ok := f.quizzes[quizID]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (f *fakeQuizRepo) List(_ context.Context) ([]models.Quiz, error) {
	out := make([]models.Quiz, 0, len(f.quizzes))
	for _, q := range f.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuizRepo) Update(_ context.Context, quizID int64, title, description string, questions json.RawMessage) (*models.Quiz, error) {
	q, ok := f.quizzes[quizID]
	if !ok {
		return nil, nil
	}
	q.Title = title
	q.Description = description
	if len(questions) == 0 {
		questions = json.RawMessage(`[]`)
	}
	q.Questions = questions
	f.quizzes[quizID] = q
	return &q, nil
}

func (f *fakeQuizRepo) Delete(_ context.Context, quizID int64) error {
	delete(f.quizzes, quizID)
	return nil
}

func newQuizRouter(userID int64, role string, repo *fakeQuizRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewQuizHandler(repo, zap.NewNop())

	r := gin.New()
	authed := r.Group("/api", withIdentity(userID, role))
	authed.POST("/quizzes", h.Create)
	authed.GET("/quizzes", h.List)
	authed.GET("/quizzes/:id", h.GetByID)
	authed.PUT("/quizzes/:id", h.Update)
	authed.DELETE("/quizzes/:id", h.Delete)
	return r
}

func TestQuizCreateRequiresTeacher(t *testing.T) {
	repo := newFakeQuizRepo()
	r := newQuizRouter(1, models.RoleStudent, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quizzes", strings.NewReader(`{"title":"Algebra"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if len(repo.quizzes) != 0 {
		t.Error("quiz created despite role gate")
	}
}

func TestQuizCreateAsTeacher(t *testing.T) {
	repo := newFakeQuizRepo()
	r := newQuizRouter(2, models.RoleTeacher, repo)

	body := `{"title":"Algebra","description":"mid-term","questions":[{"q":"2+2?","a":"4"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quizzes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var got models.Quiz
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Title != "Algebra" || got.CreatedBy != 2 {
		t.Errorf("quiz = %+v", got)
	}
	var questions []map[string]string
	if err := json.Unmarshal(got.Questions, &questions); err != nil {
		t.Fatalf("questions not preserved: %v", err)
	}
	if len(questions) != 1 || questions[0]["q"] != "2+2?" {
		t.Errorf("questions = %v", questions)
	}
}

func TestQuizReadOpenToStudents(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.Create(context.Background(), "Algebra", "", nil, 2)

	r := newQuizRouter(1, models.RoleStudent, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quizzes/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quizzes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
}

func TestQuizGetUnknownIs404(t *testing.T) {
	r := newQuizRouter(1, models.RoleStudent, newFakeQuizRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quizzes/99", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestQuizDeleteRequiresTeacher(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.Create(context.Background(), "Algebra", "", nil, 2)

	r := newQuizRouter(1, models.RoleStudent, repo)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/quizzes/1", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	r = newQuizRouter(2, models.RoleTeacher, repo)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/quizzes/1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(repo.quizzes) != 0 {
		t.Error("quiz not deleted")
	}
}
