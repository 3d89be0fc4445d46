package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/catalog"
	"github.com/Skotchmaster/favorite_api/internal/favorites"
	"github.com/Skotchmaster/favorite_api/internal/handlers"
	"github.com/Skotchmaster/favorite_api/internal/models"
	"github.com/Skotchmaster/favorite_api/internal/queue"
	"github.com/Skotchmaster/favorite_api/internal/token"
	httpserver "github.com/Skotchmaster/favorite_api/internal/transport/http"
)

type fakeSource struct {
	products map[int]*catalog.Product
}

func (f *fakeSource) Product(_ context.Context, id int) *catalog.Product {
	return f.products[id]
}

type fakePublisher struct {
	published []queue.Message
}

func (f *fakePublisher) PublishFavorite(_ context.Context, clientID, productID uint) error {
	f.published = append(f.published, queue.Message{ClientID: clientID, ProductID: productID})
	return nil
}

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Tokens    *token.Service
	Source    *fakeSource
	Publisher *fakePublisher
}

func testProduct(id int) *catalog.Product {
	return &catalog.Product{
		ID:     id,
		Title:  fmt.Sprintf("Product %d", id),
		Image:  "https://example.com/p.jpg",
		Price:  109.95,
		Rating: catalog.Rating{Rate: 4.5, Count: 120},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Favorite{}))

	tokens := &token.Service{
		DB:        db,
		Secret:    []byte("test-secret"),
		Algorithm: "HS256",
		Expiry:    30 * time.Minute,
	}

	source := &fakeSource{products: map[int]*catalog.Product{
		1: testProduct(1),
		2: testProduct(2),
	}}
	publisher := &fakePublisher{}

	service := &favorites.Service{
		DB:        db,
		Store:     &favorites.Store{DB: db},
		Products:  source,
		Publisher: publisher,
	}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens},
		ClientHandler:   &handlers.ClientHandler{DB: db},
		FavoriteHandler: &handlers.FavoriteHandler{Service: service},
		QueueHandler:    &handlers.FavoriteQueueHandler{Service: service},
		QueryHandler:    &handlers.QueryHandler{Service: service},
		Tokens:          tokens,
	})

	return &testEnv{T: t, E: e, DB: db, Tokens: tokens, Source: source, Publisher: publisher}
}

func (env *testEnv) do(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder, dest any) {
	env.T.Helper()
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), dest))
}

func (env *testEnv) signup(name, email, password string) uint {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":             name,
		"email":            email,
		"password":         password,
		"confirm_password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	env.decode(rec, &resp)
	require.NotZero(env.T, resp.ID)
	return resp.ID
}

func (env *testEnv) login(email, password string) string {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	env.decode(rec, &resp)
	require.NotEmpty(env.T, resp.AccessToken)
	require.Equal(env.T, "bearer", resp.TokenType)
	return resp.AccessToken
}
