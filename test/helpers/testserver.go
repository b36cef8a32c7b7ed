package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bookreview_backend/internal/app"
	"bookreview_backend/internal/config"
	"bookreview_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer hosts the full application against a test database. Requests are
// dispatched in-process so each test can run inside its own rollback-only
// transaction.
type TestServer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	uploads string
}

// NewTestServer connects to TEST_DATABASE_URL, migrates the schema and mounts
// the router. Call via GetTestServer so the setup runs once per package.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	uploads, err := os.MkdirTemp("", "bookreview-test-uploads-*")
	if err != nil {
		t.Fatalf("failed to create uploads dir: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.DSN = dsn
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = uploads
	cfg.Storage.BaseURL = "/api/v1/files"
	cfg.Upload.MaxSize = 2048 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/jpg", "image/gif"}
	cfg.Upload.ImageQuality = 90
	config.AppConfig = cfg

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", dsn, err)
	}

	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := app.SetupRouter(cfg, db)

	return &TestServer{
		Router:  router,
		DB:      db,
		uploads: uploads,
	}
}

func (ts *TestServer) Close() {
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
	os.RemoveAll(ts.uploads)
}

// BeginTransaction opens a transaction that the test must roll back.
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin transaction: %v", tx.Error)
	}
	return tx
}

func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil && err != gorm.ErrInvalidTransaction {
		t.Logf("rollback failed: %v", err)
	}
}

// SendRequest dispatches a JSON request through the router. When tx is not
// nil the request runs inside that transaction.
func (ts *TestServer) SendRequest(t *testing.T, tx *gorm.DB, method, path, token string, body interface{}) (*httptest.ResponseRecorder, string) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.dispatch(t, tx, req)
}

// SendMultipart dispatches a prepared multipart request through the router.
func (ts *TestServer) SendMultipart(t *testing.T, tx *gorm.DB, method, path, token, contentType string, body *bytes.Buffer) (*httptest.ResponseRecorder, string) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.dispatch(t, tx, req)
}

func (ts *TestServer) dispatch(t *testing.T, tx *gorm.DB, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	if tx != nil {
		ctx := context.WithValue(req.Context(), contextkeys.DBContextKey, tx)
		req = req.WithContext(ctx)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w, w.Body.String()
}
