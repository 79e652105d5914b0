//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"expense-ledger-go/internal/config"
	"expense-ledger-go/internal/db"
	ledgerdomain "expense-ledger-go/internal/domain/ledger"
	"expense-ledger-go/internal/repository/inmemory"
	ledgerrepo "expense-ledger-go/internal/repository/ledger"
	"expense-ledger-go/internal/transport/httpserver"
	"expense-ledger-go/internal/transport/httpserver/handler"
	authmw "expense-ledger-go/internal/transport/httpserver/middleware"
	"expense-ledger-go/pkg/logger"
)

const e2eSecret = "e2e-secret"

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		DB:                 config.DBConfig{Driver: config.DriverPostgres, DSN: dsn},
		Auth:               config.AuthConfig{JWTSecret: e2eSecret},
		CORSAllowedOrigins: []string{"*"},
	}
	log := logger.NewNop()

	if err := db.MigratePostgres(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	service := ledgerdomain.NewServiceWithCache(ledgerrepo.NewGorm(dbConn), inmemory.NewCategoriesCache(), time.Minute)
	router := httpserver.NewRouter(cfg, handler.New(service, log), log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = db.Close(e.db)
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec("TRUNCATE TABLE records, categories").Error
}

func issueToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := authmw.SignToken(e2eSecret, "", authmw.User{ID: userID}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type categoryBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recordBody struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Date     string        `json:"date"`
	Item     string        `json:"item"`
	Quantity string        `json:"quantity"`
	Cost     string        `json:"cost"`
	Category *categoryBody `json:"category"`
}

type listBody[T any] struct {
	Items []T `json:"items"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		t.Fatalf("decode %s: %v", string(data), err)
	}
	return value
}

func TestE2ELedgerFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := env.server.Client()
	base := env.server.URL + "/api"
	owner := issueToken(t, "owner-1")
	other := issueToken(t, "owner-2")

	resp, body := requestJSON(t, client, http.MethodPost, base+"/records", owner, map[string]interface{}{
		"type":         "expense",
		"date":         "2024-05-17",
		"item":         "food for cat",
		"quantity":     "2",
		"cost":         "15",
		"new_category": "pet supplies",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create record: status %d body %s", resp.StatusCode, string(body))
	}
	first := decode[recordBody](t, body)
	if first.Category == nil || first.Category.Name != "Pet Supplies" {
		t.Fatalf("expected category Pet Supplies, got %+v", first.Category)
	}
	if first.Item != "Food For Cat" || first.Cost != "15.00" {
		t.Fatalf("unexpected normalized record %+v", first)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/records", owner, map[string]interface{}{
		"type":         "Expense",
		"date":         "2024-05-18",
		"item":         "litter",
		"quantity":     "1 bag",
		"cost":         "9.99",
		"new_category": "PET SUPPLIES",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create second record: status %d body %s", resp.StatusCode, string(body))
	}
	second := decode[recordBody](t, body)
	if second.Category == nil || second.Category.ID != first.Category.ID {
		t.Fatalf("expected shared category %s, got %+v", first.Category.ID, second.Category)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/categories", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list categories: status %d", resp.StatusCode)
	}
	if categories := decode[listBody[categoryBody]](t, body); len(categories.Items) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories.Items))
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/records", other, map[string]interface{}{
		"type":        "Expense",
		"date":        "2024-05-18",
		"item":        "stolen",
		"quantity":    "1",
		"cost":        "1",
		"category_id": first.Category.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("foreign category: expected 400, got %d body %s", resp.StatusCode, string(body))
	}
	if errBody := decode[errorEnvelope](t, body); errBody.Error.Field != "category_id" {
		t.Fatalf("foreign category: expected field category_id, got %q", errBody.Error.Field)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, base+"/records/"+first.ID, other, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign record: expected 404, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodPut, base+"/records/"+first.ID, owner, map[string]interface{}{
		"type":         "Expense",
		"date":         "2024-05-17",
		"item":         "food for cat",
		"quantity":     "2",
		"cost":         "15",
		"new_category": "groceries",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update record: status %d body %s", resp.StatusCode, string(body))
	}

	resp, _ = requestJSON(t, client, http.MethodDelete, base+"/records/"+second.ID, owner, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete record: expected 204, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/categories", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list categories after delete: status %d", resp.StatusCode)
	}
	categories := decode[listBody[categoryBody]](t, body)
	if len(categories.Items) != 1 || categories.Items[0].Name != "Groceries" {
		t.Fatalf("expected only Groceries to remain, got %+v", categories.Items)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/summary", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d", resp.StatusCode)
	}
	summary := decode[struct {
		TotalExpense string `json:"total_expense"`
		RecordCount  int    `json:"record_count"`
	}](t, body)
	if summary.TotalExpense != "15.00" || summary.RecordCount != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/records/purge", owner, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purge: status %d body %s", resp.StatusCode, string(body))
	}
	purged := decode[struct {
		RecordsDeleted    int64 `json:"records_deleted"`
		CategoriesDeleted int64 `json:"categories_deleted"`
	}](t, body)
	if purged.RecordsDeleted != 1 || purged.CategoriesDeleted != 1 {
		t.Fatalf("unexpected purge result %+v", purged)
	}

	var remaining int64
	if err := env.db.Table("categories").Where("owner_id = ?", "owner-1").Count(&remaining).Error; err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected no categories left, got %d", remaining)
	}
}
