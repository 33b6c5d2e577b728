package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"blogserver/database"
	"blogserver/middleware"
	"blogserver/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "handler-test-secret"

// countingCollection counts every call that reaches the wrapped collection.
type countingCollection struct {
	database.Collection
	calls atomic.Int32
}

func (c *countingCollection) InsertOne(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	c.calls.Add(1)
	return c.Collection.InsertOne(ctx, doc)
}

func (c *countingCollection) FindAll(ctx context.Context) ([]models.Document, error) {
	c.calls.Add(1)
	return c.Collection.FindAll(ctx)
}

func (c *countingCollection) FindByID(ctx context.Context, id string) (models.Document, error) {
	c.calls.Add(1)
	return c.Collection.FindByID(ctx, id)
}

func (c *countingCollection) FindByField(ctx context.Context, field string, value any) ([]models.Document, error) {
	c.calls.Add(1)
	return c.Collection.FindByField(ctx, field, value)
}

func (c *countingCollection) UpsertFields(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	c.calls.Add(1)
	return c.Collection.UpsertFields(ctx, id, fields)
}

func (c *countingCollection) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	c.calls.Add(1)
	return c.Collection.DeleteByID(ctx, id)
}

// failingCollection answers every call with err.
type failingCollection struct{ err error }

func (f failingCollection) InsertOne(context.Context, models.Document) (*models.InsertResult, error) {
	return nil, f.err
}

func (f failingCollection) FindAll(context.Context) ([]models.Document, error) { return nil, f.err }

func (f failingCollection) FindByID(context.Context, string) (models.Document, error) {
	return nil, f.err
}

func (f failingCollection) FindByField(context.Context, string, any) ([]models.Document, error) {
	return nil, f.err
}

func (f failingCollection) UpsertFields(context.Context, string, models.Document) (*models.UpdateResult, error) {
	return nil, f.err
}

func (f failingCollection) DeleteByID(context.Context, string) (*models.DeleteResult, error) {
	return nil, f.err
}

func newTestRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.POST("/jwt", h.IssueToken)
	router.POST("/logout", h.Logout)
	router.POST("/comments", h.CreateComment)
	router.GET("/comments", h.ListComments)
	router.POST("/blogs", h.CreatePost)
	router.GET("/blogs", h.ListPosts)
	router.GET("/blogs/:id", h.GetPost)
	router.PUT("/blogs/:id", h.UpdatePost)
	router.POST("/user", h.CreateUser)
	router.POST("/userData", h.CreateUserData)
	router.GET("/userData/:key", h.GetUserData)
	router.DELETE("/userData/:id", h.DeleteUserData)
	return router
}

func serve(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func tokenCookie(t *testing.T, tokens *middleware.TokenService, email string) *http.Cookie {
	t.Helper()

	token, err := tokens.Issue(map[string]any{"email": email})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return &http.Cookie{Name: middleware.TokenCookie, Value: token}
}

func TestGetUserDataByEmail(t *testing.T) {
	t.Parallel()

	newFixture := func() (*gin.Engine, *countingCollection, *middleware.TokenService) {
		store := database.NewMemoryStore()
		spy := &countingCollection{Collection: store.UserData}
		store.UserData = spy
		tokens := middleware.NewTokenService(testSecret)
		return newTestRouter(New(store, tokens)), spy, tokens
	}

	t.Run("mismatched identity is forbidden and never reaches the store", func(t *testing.T) {
		t.Parallel()

		router, spy, tokens := newFixture()
		w := serve(router, http.MethodGet, "/userData/owner@example.com", "", tokenCookie(t, tokens, "intruder@example.com"))

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
		if got := message(t, w); got != "forbidden access" {
			t.Errorf("message = %q, want %q", got, "forbidden access")
		}
		if n := spy.calls.Load(); n != 0 {
			t.Errorf("store calls = %d, want 0", n)
		}
	})

	t.Run("no cookie is unauthorized and never reaches the store", func(t *testing.T) {
		t.Parallel()

		router, spy, _ := newFixture()
		w := serve(router, http.MethodGet, "/userData/owner@example.com", "")

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if got := message(t, w); got != "Unauthorized access" {
			t.Errorf("message = %q, want %q", got, "Unauthorized access")
		}
		if n := spy.calls.Load(); n != 0 {
			t.Errorf("store calls = %d, want 0", n)
		}
	})

	t.Run("owner sees only their own records", func(t *testing.T) {
		t.Parallel()

		router, _, tokens := newFixture()
		serve(router, http.MethodPost, "/userData", `{"email":"owner@example.com","blog":"one"}`)
		serve(router, http.MethodPost, "/userData", `{"email":"other@example.com","blog":"two"}`)
		serve(router, http.MethodPost, "/userData", `{"email":"owner@example.com","blog":"three"}`)

		w := serve(router, http.MethodGet, "/userData/owner@example.com", "", tokenCookie(t, tokens, "owner@example.com"))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
		}

		var docs []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &docs); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("len = %d, want 2", len(docs))
		}
		if docs[0]["blog"] != "one" || docs[1]["blog"] != "three" {
			t.Errorf("blogs = %v, %v, want one, three", docs[0]["blog"], docs[1]["blog"])
		}
	})

	t.Run("owner without records gets an empty array", func(t *testing.T) {
		t.Parallel()

		router, _, tokens := newFixture()
		w := serve(router, http.MethodGet, "/userData/owner@example.com", "", tokenCookie(t, tokens, "owner@example.com"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(w.Body.String()); got != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})
}

func TestGetUserDataByID(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore()
	router := newTestRouter(New(store, middleware.NewTokenService(testSecret)))

	ins, err := store.UserData.InsertOne(context.Background(), models.Document{"email": "a@example.com", "note": "saved"})
	if err != nil {
		t.Fatalf("InsertOne error: %v", err)
	}
	id := ins.InsertedID.(primitive.ObjectID).Hex()

	w := serve(router, http.MethodGet, "/userData/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if doc["_id"] != id || doc["note"] != "saved" {
		t.Errorf("doc = %v, want _id %s note saved", doc, id)
	}

	w = serve(router, http.MethodGet, "/userData/"+primitive.NewObjectID().Hex(), "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("missing record = %d %s, want 200 null", w.Code, w.Body.String())
	}
}

func TestStoreErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "invalid argument", err: fmt.Errorf("find: %w", database.ErrInvalidArgument), wantStatus: http.StatusBadRequest, wantMsg: "Invalid argument"},
		{name: "not found", err: database.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "Not found"},
		{name: "unavailable", err: database.ErrUnavailable, wantStatus: http.StatusServiceUnavailable, wantMsg: "Database unavailable"},
		{name: "anything else", err: errors.New("write conflict"), wantStatus: http.StatusInternalServerError, wantMsg: "Database error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			down := failingCollection{err: tt.err}
			store := database.Store{Posts: down, Comments: down, Users: down, UserData: down}
			router := newTestRouter(New(store, middleware.NewTokenService(testSecret)))

			for _, r := range []struct{ method, path, body string }{
				{http.MethodGet, "/blogs", ""},
				{http.MethodPost, "/comments", `{"text":"x"}`},
				{http.MethodDelete, "/userData/" + primitive.NewObjectID().Hex(), ""},
			} {
				w := serve(router, r.method, r.path, r.body)
				if w.Code != tt.wantStatus {
					t.Errorf("%s %s status = %d, want %d", r.method, r.path, w.Code, tt.wantStatus)
				}
				if got := message(t, w); got != tt.wantMsg {
					t.Errorf("%s %s message = %q, want %q", r.method, r.path, got, tt.wantMsg)
				}
			}
		})
	}
}

func TestMalformedIdentifiers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(New(database.NewMemoryStore(), middleware.NewTokenService(testSecret)))

	for _, r := range []struct{ method, path, body string }{
		{http.MethodGet, "/blogs/not-an-id", ""},
		{http.MethodPut, "/blogs/not-an-id", `{"title":"t"}`},
		{http.MethodDelete, "/userData/not-an-id", ""},
	} {
		w := serve(router, r.method, r.path, r.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s status = %d, want %d", r.method, r.path, w.Code, http.StatusBadRequest)
		}
	}
}

func TestBindDocument(t *testing.T) {
	t.Parallel()

	router := newTestRouter(New(database.NewMemoryStore(), middleware.NewTokenService(testSecret)))

	t.Run("malformed json is rejected", func(t *testing.T) {
		t.Parallel()

		w := serve(router, http.MethodPost, "/comments", `{"text":`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if got := message(t, w); got != "Invalid JSON body" {
			t.Errorf("message = %q, want %q", got, "Invalid JSON body")
		}
	})

	t.Run("empty body stores an empty record", func(t *testing.T) {
		t.Parallel()

		w := serve(router, http.MethodPost, "/user", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
		}
	})
}

func TestIssueTokenRejectsNonObjectBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(New(database.NewMemoryStore(), middleware.NewTokenService(testSecret)))

	w := serve(router, http.MethodPost, "/jwt", `[1,2]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-object body status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestEmptySigningSecret(t *testing.T) {
	t.Parallel()

	router := newTestRouter(New(database.NewMemoryStore(), middleware.NewTokenService("")))

	t.Run("token issue fails", func(t *testing.T) {
		t.Parallel()

		w := serve(router, http.MethodPost, "/jwt", `{"email":"a@example.com"}`)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if got := message(t, w); got != "Failed to generate token" {
			t.Errorf("message = %q, want %q", got, "Failed to generate token")
		}
		if len(w.Result().Cookies()) != 0 {
			t.Errorf("cookies = %v, want none", w.Result().Cookies())
		}
	})

	t.Run("guard rejects every token", func(t *testing.T) {
		t.Parallel()

		forged := tokenCookie(t, middleware.NewTokenService("some-other-key"), "victim@example.com")
		w := serve(router, http.MethodGet, "/userData/victim@example.com", "", forged)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}
