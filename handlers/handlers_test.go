package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"studysync-backend/auth"
	"studysync-backend/database"
	"studysync-backend/middleware"
	"studysync-backend/models"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminEmail = "wiktoria.role@admin.com"

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *mux.Router
	jwt    *auth.JWTService
}

// newTestEnv поднимает in-memory sqlite и собирает роутер
// с теми же маршрутами, что и в main
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// Одно соединение, иначе каждый коннект видит свою :memory: базу
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dbx := sqlx.NewDb(sqlDB, "sqlite3")

	jwtService := auth.NewJWTService("test-secret", 1)
	am := middleware.NewAuthMiddleware(jwtService)

	authHandler := NewAuthHandler(db, jwtService, testAdminEmail)
	sessionHandler := NewSessionHandler(db)
	taskHandler := NewTaskHandler(db, dbx)
	adminHandler := NewAdminHandler(db)
	helperHandler := NewHelperHandler()

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/me", am.RequireAuth(authHandler.Me)).Methods("GET")
	api.HandleFunc("/sessions", am.RequireAuth(sessionHandler.ListSessions)).Methods("GET")
	api.HandleFunc("/sessions", am.RequireAuth(sessionHandler.CreateSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.GetSession)).Methods("GET")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.UpdateSession)).Methods("PUT")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.DeleteSession)).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/join", am.RequireAuth(sessionHandler.JoinSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}/messages", am.RequireAuth(sessionHandler.PostMessage)).Methods("POST")
	api.HandleFunc("/tasks", am.RequireAuth(taskHandler.ListTasks)).Methods("GET")
	api.HandleFunc("/tasks", am.RequireAuth(taskHandler.CreateTask)).Methods("POST")
	api.HandleFunc("/tasks/{id}", am.RequireAuth(taskHandler.UpdateTask)).Methods("PUT")
	api.HandleFunc("/tasks/{id}", am.RequireAuth(taskHandler.DeleteTask)).Methods("DELETE")
	api.HandleFunc("/admin/users", am.RequireAdmin(adminHandler.ListUsers)).Methods("GET")
	api.HandleFunc("/admin/users/{id}", am.RequireAdmin(adminHandler.DeleteUser)).Methods("DELETE")
	api.HandleFunc("/ai/study-helper", am.RequireAuth(helperHandler.StudyHelper)).Methods("POST")

	return &testEnv{t: t, db: db, router: r, jwt: jwtService}
}

// createUser заводит пользователя напрямую в базе и выдает ему токен
func (e *testEnv) createUser(name, email, role string) (*models.User, string) {
	e.t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		e.t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := e.db.Create(user).Error; err != nil {
		e.t.Fatalf("create user: %v", err)
	}

	token, err := e.jwt.GenerateToken(user)
	if err != nil {
		e.t.Fatalf("generate token: %v", err)
	}

	return user, token
}

// request выполняет запрос через роутер
func (e *testEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
