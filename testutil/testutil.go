// Package testutil wires a file-backed sqlite company database, a signed token and the
// full fiber app for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"outward-wms/config"
	"outward-wms/database"
	"outward-wms/middleware"
	"outward-wms/routes"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret  = "outward-wms-test-secret"
	TestUserID = 7
)

// TestEnv holds the resources of one test.
type TestEnv struct {
	DB      *gorm.DB
	App     *fiber.App
	Company string
	Token   string
	T       *testing.T
}

func init() {
	config.MAIN_ROUTES = "/api/v1"
	config.JWTSecret = JWTSecret
}

// OpenDB opens an empty sqlite database in the test's temp dir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// SetupCompanyDB migrates and seeds a company database and registers it in the pool
// under a name unique to the test.
func SetupCompanyDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()

	db := OpenDB(t)
	require.NoError(t, database.SetupCompany(db))

	company := fmt.Sprintf("test_%d", time.Now().UnixNano())
	database.RegisterConnection(company, db)
	return db, company
}

// GenerateTestToken signs a token valid for one hour.
func GenerateTestToken(t *testing.T, userID int, company string) string {
	t.Helper()
	token, err := middleware.SignToken(userID, company, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	return token
}

// Setup returns a ready app bound to a fresh company database.
func Setup(t *testing.T, deps routes.Dependencies) *TestEnv {
	t.Helper()

	db, company := SetupCompanyDB(t)
	return &TestEnv{
		DB:      db,
		App:     routes.NewApp(deps),
		Company: company,
		Token:   GenerateTestToken(t, TestUserID, company),
		T:       t,
	}
}

// Path prefixes p with the API root.
func Path(p string) string {
	return config.MAIN_ROUTES + p
}

// Do sends a JSON request through the app and returns the response.
func (e *TestEnv) Do(method, path string, body interface{}) *http.Response {
	e.T.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, Path(path), reader)
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}
	return e.Send(req)
}

// Send runs a prepared request through the app.
func (e *TestEnv) Send(req *http.Request) *http.Response {
	e.T.Helper()
	resp, err := e.App.Test(req, -1)
	require.NoError(e.T, err)
	return resp
}

// Envelope is the response shape of every JSON endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

// Decode reads the envelope and, when data is non-nil, its data member.
func Decode(t *testing.T, resp *http.Response, data interface{}) Envelope {
	t.Helper()
	defer resp.Body.Close()

	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
