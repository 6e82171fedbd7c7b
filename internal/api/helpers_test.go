package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/testhelpers"
)

const testBaseURL = "https://foodgram.example"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	images := storage.NewLocalStore(t.TempDir(), "/media")
	catalog := service.NewCatalogService(db)
	auth := service.NewAuthService(db, "test-secret", time.Hour, service.NewMemoryRevocationStore())

	router := gin.New()
	SetupAPI(router, Services{
		Auth:      auth,
		Users:     service.NewUserService(db, images),
		Follows:   service.NewFollowService(db),
		Catalog:   catalog,
		Recipes:   service.NewRecipeService(db, catalog, images),
		Relations: service.NewRelationService(db),
	}, Options{PublicBaseURL: testBaseURL, PageSize: 6})

	return &testServer{t: t, router: router, db: db, auth: auth}
}

// login creates a user and returns it with a valid token
func (s *testServer) login(username string) (*model.User, string) {
	s.t.Helper()
	user := testhelpers.CreateUser(s.t, s.db, username)
	token, err := s.auth.GenerateToken(user)
	require.NoError(s.t, err)
	return user, token
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["code"].(string)
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}

