package handlers

import (
	"net/http"
	"strings"
	"testing"

	"studysync-backend/models"
)

func TestRegisterAssignsRoles(t *testing.T) {
	env := newTestEnv(t)

	// Закрепленный email становится администратором
	rec := env.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Wiktoria",
		"email":    testAdminEmail,
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var admin models.PublicUser
	decodeBody(t, rec, &admin)
	if admin.Role != models.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", admin.Role)
	}

	// Любой другой email - обычный пользователь
	rec = env.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var user models.PublicUser
	decodeBody(t, rec, &user)
	if user.Role != models.RoleUser {
		t.Fatalf("expected USER role, got %s", user.Role)
	}

	// Хэш пароля не должен попадать в ответ
	if body := rec.Body.String(); strings.Contains(body, "password") {
		t.Fatalf("response leaks password fields: %s", body)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"email": "a@b.com", "password": "secret"},
		{"name": "A", "password": "secret"},
		{"name": "A", "email": "a@b.com"},
	}
	for _, body := range cases {
		rec := env.request(http.MethodPost, "/api/auth/register", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, rec.Code)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"name": "A", "email": "dup@example.com", "password": "secret"}
	if rec := env.request(http.MethodPost, "/api/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", rec.Code)
	}

	// Повтор с тем же email - конфликт, даже с другими полями
	body["name"] = "Other"
	body["password"] = "different"
	rec := env.request(http.MethodPost, "/api/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Known", "known@example.com", models.RoleUser)

	wrongPassword := env.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "known@example.com",
		"password": "not-the-password",
	})
	unknownEmail := env.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}

	// Оба отказа обязаны выглядеть одинаково
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("login failures differ: %q vs %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Alice", "alice@example.com", models.RoleUser)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var loginResp models.LoginResponse
	decodeBody(t, rec, &loginResp)
	if loginResp.Token == "" {
		t.Fatalf("expected token in login response")
	}
	if loginResp.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user in login response: %+v", loginResp.User)
	}

	rec = env.request(http.MethodGet, "/api/me", loginResp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me failed: %d", rec.Code)
	}

	var me models.PublicUser
	decodeBody(t, rec, &me)
	if me.Email != "alice@example.com" || me.Name != "Alice" {
		t.Fatalf("unexpected me response: %+v", me)
	}
}
