package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/mx-space/portfolio/internal/middleware"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/content/resource"
	"github.com/mx-space/portfolio/internal/pkg/repository/repotest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *repotest.Collection[models.BlogModel]) {
	t.Helper()
	coll := repotest.New[models.BlogModel]("id", "slug")
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	coll.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	r := gin.New()
	NewHandler(NewService(coll), resource.Options{}).RegisterRoutes(r.Group("/api"))
	return r, coll
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func post(id, slug string) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       "  Post " + id + "  ",
		"slug":        slug,
		"screens":     "s.png",
		"bSingle":     "b.png",
		"description": "about " + id,
		"author":      "Ada",
		"authorTitle": "Editor",
		"create_at":   "May 1",
		"thumb":       "Design",
	}
}

func mustCreate(t *testing.T, r http.Handler, id, slug string) models.BlogModel {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/blogs", post(id, slug))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s status = %d, body %s", id, rec.Code, rec.Body.String())
	}
	return decode[models.BlogModel](t, rec)
}

func TestCreateAppliesDefaults(t *testing.T) {
	r, _ := newRouter(t)
	body := post("b1", "first-post")
	body["createdAt"] = "1999-01-01T00:00:00Z"
	body["_id"] = "65f000000000000000000000"

	rec := do(r, http.MethodPost, "/api/blogs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[models.BlogModel](t, rec)

	if got.Title != "Post b1" {
		t.Errorf("title = %q, want trimmed", got.Title)
	}
	if got.Comment != "0" || got.BlClass != "format-standard-image" || !got.IsPublished || got.Views != 0 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if got.CreatedAt.Year() == 1999 {
		t.Error("client createdAt was kept")
	}
	if got.ObjectID.Hex() == "65f000000000000000000000" {
		t.Error("client _id was kept")
	}
}

func TestGetByIDOrSlug(t *testing.T) {
	r, _ := newRouter(t)
	created := mustCreate(t, r, "b1", "first-post")

	for _, key := range []string{"b1", "first-post"} {
		rec := do(r, http.MethodGet, "/api/blogs/"+key, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", key, rec.Code)
		}
		if got := decode[models.BlogModel](t, rec); got.ObjectID != created.ObjectID {
			t.Errorf("GET %s returned %s, want %s", key, got.ObjectID.Hex(), created.ObjectID.Hex())
		}
	}

	rec := do(r, http.MethodGet, "/api/blogs/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}
	if msg := decode[map[string]any](t, rec)["message"]; msg != "Blog not found" {
		t.Errorf("message = %v", msg)
	}
}

func TestViewCounter(t *testing.T) {
	r, _ := newRouter(t)
	mustCreate(t, r, "b1", "first-post")

	const reads = 4
	var last models.BlogModel
	for i := 0; i < reads; i++ {
		last = decode[models.BlogModel](t, do(r, http.MethodGet, "/api/blogs/first-post", nil))
	}
	if last.Views != reads {
		t.Errorf("views = %d after %d reads", last.Views, reads)
	}
}

func TestDuplicateConflict(t *testing.T) {
	r, coll := newRouter(t)
	mustCreate(t, r, "b1", "first-post")

	tests := map[string]map[string]any{
		"same slug": post("b2", "first-post"),
		"same id":   post("b1", "other-post"),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/blogs", body)
			if rec.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
	if n := coll.Len(); n != 1 {
		t.Errorf("stored %d blogs, want 1", n)
	}
}

func TestCreateValidation(t *testing.T) {
	r, coll := newRouter(t)
	body := post("b1", "first-post")
	delete(body, "title")
	delete(body, "thumb")

	rec := do(r, http.MethodPost, "/api/blogs", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	got := decode[struct {
		Errors []string `json:"errors"`
	}](t, rec)
	want := []string{"title is required", "thumb is required"}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if coll.Len() != 0 {
		t.Error("invalid blog was stored")
	}
}

func TestCreateBodyDecoding(t *testing.T) {
	tests := map[string]struct {
		set        map[string]any
		wantStatus int
		wantErrors []string
	}{
		"unparseable _id is ignored": {
			set:        map[string]any{"_id": "abc"},
			wantStatus: http.StatusCreated,
		},
		"unparseable createdAt is ignored": {
			set:        map[string]any{"createdAt": "yesterday", "updatedAt": 7},
			wantStatus: http.StatusCreated,
		},
		"views of the wrong type": {
			set:        map[string]any{"views": "ten"},
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"views must be of type int64"},
		},
		"title of the wrong type": {
			set:        map[string]any{"title": []string{"a"}},
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"title must be of type string"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, _ := newRouter(t)
			body := post("b1", "first-post")
			for k, v := range tc.set {
				body[k] = v
			}

			rec := do(r, http.MethodPost, "/api/blogs", body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantErrors == nil {
				return
			}
			got := decode[struct {
				Errors []string `json:"errors"`
			}](t, rec)
			if diff := cmp.Diff(tc.wantErrors, got.Errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplaceIgnoresStoreFields(t *testing.T) {
	r, _ := newRouter(t)
	created := mustCreate(t, r, "b1", "first-post")

	rec := do(r, http.MethodPut, "/api/blogs/b1", map[string]any{"_id": "abc", "createdAt": "yesterday", "title": "Renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[models.BlogModel](t, rec); got.ObjectID != created.ObjectID || got.Title != "Renamed" {
		t.Errorf("replace result = %+v", got)
	}
}

func TestCreateOversizeBody(t *testing.T) {
	coll := repotest.New[models.BlogModel]("id", "slug")
	r := gin.New()
	r.Use(middleware.BodyLimit(256))
	NewHandler(NewService(coll), resource.Options{}).RegisterRoutes(r.Group("/api"))

	body := post("b1", "first-post")
	body["description"] = strings.Repeat("x", 1024)
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)

	for name, length := range map[string]int64{"declared": int64(buf.Len()), "chunked": -1} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/blogs", bytes.NewReader(buf.Bytes()))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = length
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Errorf("status = %d, want 413 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
	if coll.Len() != 0 {
		t.Error("oversize blog was stored")
	}
}

type listPage struct {
	Blogs       []models.BlogModel `json:"blogs"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	Total       int64              `json:"total"`
}

func TestListPagination(t *testing.T) {
	r, _ := newRouter(t)
	for i := 1; i <= 23; i++ {
		mustCreate(t, r, fmt.Sprintf("b%d", i), fmt.Sprintf("post-%d", i))
	}

	seen := 0
	for page := 1; page <= 3; page++ {
		got := decode[listPage](t, do(r, http.MethodGet, fmt.Sprintf("/api/blogs?page=%d&limit=10", page), nil))
		if got.Total != 23 || got.TotalPages != 3 || got.CurrentPage != page {
			t.Errorf("page %d envelope = total %d pages %d current %d", page, got.Total, got.TotalPages, got.CurrentPage)
		}
		seen += len(got.Blogs)
	}
	if seen != 23 {
		t.Errorf("pages returned %d items, want 23", seen)
	}

	first := decode[listPage](t, do(r, http.MethodGet, "/api/blogs?limit=2", nil))
	if len(first.Blogs) != 2 || first.Blogs[0].ID != "b23" {
		t.Errorf("first page not newest first: %+v", first.Blogs)
	}

	rec := do(r, http.MethodGet, "/api/blogs?page=9", nil)
	past := decode[map[string]any](t, rec)
	if items, ok := past["blogs"].([]any); !ok || len(items) != 0 {
		t.Errorf("page past the end blogs = %v, want []", past["blogs"])
	}
}

func createBody(t *testing.T, r http.Handler, body map[string]any) {
	t.Helper()
	if rec := do(r, http.MethodPost, "/api/blogs", body); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestListFilters(t *testing.T) {
	r, _ := newRouter(t)

	a := post("b1", "go-tips")
	a["title"] = "Go (1.22) tips"
	a["author"] = "Grace Hopper"
	createBody(t, r, a)

	b := post("b2", "rust-notes")
	b["title"] = "Rust notes"
	b["thumb"] = "Engineering"
	createBody(t, r, b)

	hidden := post("b3", "draft")
	hidden["title"] = "Go draft"
	hidden["isPublished"] = false
	createBody(t, r, hidden)

	tests := map[string]struct {
		query string
		want  []string
	}{
		"published only":      {query: "", want: []string{"b2", "b1"}},
		"author substring":    {query: "?author=hopper", want: []string{"b1"}},
		"thumb substring":     {query: "?thumb=engine", want: []string{"b2"}},
		"search title":        {query: "?search=GO", want: []string{"b1"}},
		"search description":  {query: "?search=about+b2", want: []string{"b2"}},
		"search is not regex": {query: "?search=(1.22)", want: []string{"b1"}},
		"regex chars escaped": {query: "?search=.%2A", want: nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := decode[listPage](t, do(r, http.MethodGet, "/api/blogs"+tc.query, nil))
			var ids []string
			for _, b := range got.Blogs {
				ids = append(ids, b.ID)
			}
			if diff := cmp.Diff(tc.want, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCategoryAndRecent(t *testing.T) {
	r, _ := newRouter(t)
	for i := 1; i <= 7; i++ {
		body := post(fmt.Sprintf("b%d", i), fmt.Sprintf("post-%d", i))
		if i%2 == 0 {
			body["thumb"] = "Travel"
		}
		createBody(t, r, body)
	}

	travel := decode[[]models.BlogModel](t, do(r, http.MethodGet, "/api/blogs/category/trav", nil))
	if len(travel) != 3 {
		t.Errorf("category returned %d blogs, want 3", len(travel))
	}

	tests := map[string]struct {
		count string
		want  int
	}{
		"explicit": {count: "2", want: 2},
		"invalid":  {count: "lots", want: 5},
		"zero":     {count: "0", want: 5},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := decode[[]models.BlogModel](t, do(r, http.MethodGet, "/api/blogs/recent/"+tc.count, nil))
			if len(got) != tc.want {
				t.Errorf("recent/%s returned %d, want %d", tc.count, len(got), tc.want)
			}
			if len(got) > 0 && got[0].ID != "b7" {
				t.Errorf("recent/%s first = %s, want b7", tc.count, got[0].ID)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	r, _ := newRouter(t)
	created := mustCreate(t, r, "b1", "first-post")

	rec := do(r, http.MethodPut, "/api/blogs/b1", map[string]any{"title": "  Renamed ", "createdAt": "2001-01-01T00:00:00Z"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[models.BlogModel](t, rec)
	if got.Title != "Renamed" || got.Slug != "first-post" {
		t.Errorf("replace result = %+v", got)
	}
	if got.ObjectID != created.ObjectID || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("identity or createdAt changed")
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updatedAt not bumped")
	}

	rec = do(r, http.MethodPut, "/api/blogs/b1", map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("clearing a required field status = %d, want 400", rec.Code)
	}
	rec = do(r, http.MethodPut, "/api/blogs/nope", map[string]any{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	r, coll := newRouter(t)
	mustCreate(t, r, "b1", "first-post")

	rec := do(r, http.MethodDelete, "/api/blogs/first-post", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decode[map[string]any](t, rec)["message"]; msg != "Blog deleted successfully" {
		t.Errorf("message = %v", msg)
	}
	if coll.Len() != 0 {
		t.Error("blog still stored")
	}
	if rec := do(r, http.MethodDelete, "/api/blogs/first-post", nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestStoreFailure(t *testing.T) {
	r, coll := newRouter(t)
	coll.Err = fmt.Errorf("connection refused")

	rec := do(r, http.MethodGet, "/api/blogs", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if _, ok := decode[map[string]any](t, rec)["error"]; ok {
		t.Error("error detail exposed")
	}
}
