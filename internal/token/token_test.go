package token

import (
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

	"github.com/Skotchmaster/favorite_api/internal/models"
)

func newTestService(t *testing.T) (*Service, *models.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Client{}))

	client := models.Client{Name: "Test Client", Email: "client@example.com", HashedPassword: "x"}
	require.NoError(t, db.Create(&client).Error)

	service := &Service{
		DB:        db,
		Secret:    []byte("test-secret"),
		Algorithm: "HS256",
		Expiry:    30 * time.Minute,
	}
	return service, &client
}

func TestEncodeVerify(t *testing.T) {
	service, client := newTestService(t)

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	ident, err := service.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, client.ID, ident.ID)
	require.Equal(t, client.Email, ident.Email)
}

func TestVerifyExpired(t *testing.T) {
	service, client := newTestService(t)
	service.Expiry = -time.Minute

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	_, err = service.Verify(raw)
	require.Error(t, err)
}

func TestVerifyTampered(t *testing.T) {
	service, client := newTestService(t)

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	_, err = service.Verify(raw + "x")
	require.Error(t, err)

	_, err = service.Verify("not.a.token")
	require.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	service, client := newTestService(t)

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	other := &Service{DB: service.DB, Secret: []byte("other-secret"), Algorithm: "HS256", Expiry: time.Minute}
	_, err = other.Verify(raw)
	require.Error(t, err)
}

func TestVerifyDeletedClient(t *testing.T) {
	service, client := newTestService(t)

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	require.NoError(t, service.DB.Delete(client).Error)

	_, err = service.Verify(raw)
	require.Error(t, err)
}

func TestEncodeRejectsNonHMAC(t *testing.T) {
	service, client := newTestService(t)
	service.Algorithm = "RS256"

	_, err := service.Encode(client.Email)
	require.Error(t, err)
}

func TestVerifyStoreFailure(t *testing.T) {
	service, client := newTestService(t)

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	sqlDB, err := service.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = service.Verify(raw)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMiddlewareStoreFailure(t *testing.T) {
	service, client := newTestService(t)
	e := echo.New()

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	sqlDB, err := service.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()

	err = service.Middleware(next)(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestMiddleware(t *testing.T) {
	service, client := newTestService(t)
	e := echo.New()

	next := func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		require.True(t, ok)
		require.Equal(t, client.ID, ident.ID)
		return c.NoContent(http.StatusOK)
	}

	raw, err := service.Encode(client.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	require.NoError(t, service.Middleware(next)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, header := range []string{"", "Bearer ", "Bearer bogus", raw} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		err := service.Middleware(next)(e.NewContext(req, rec))
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError for header %q", header)
		require.Equal(t, http.StatusUnauthorized, he.Code)
	}
}
