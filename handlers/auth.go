package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"studysync-backend/auth"
	"studysync-backend/models"

	"gorm.io/gorm"
)

type AuthHandler struct {
	db         *gorm.DB
	jwtService *auth.JWTService
	adminEmail string
}

func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService, adminEmail string) *AuthHandler {
	return &AuthHandler{
		db:         db,
		jwtService: jwtService,
		adminEmail: adminEmail,
	}
}

// Register регистрирует нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var registerReq models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Printf("❌ Error decoding register request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if registerReq.Name == "" || registerReq.Email == "" || registerReq.Password == "" {
		log.Printf("❌ Register validation failed: missing fields")
		http.Error(w, `{"error": "Missing fields"}`, http.StatusBadRequest)
		return
	}

	// Проверяем, существует ли пользователь
	var existingUser models.User
	if err := h.db.Where("email = ?", registerReq.Email).First(&existingUser).Error; err == nil {
		log.Printf("❌ User already exists: %s", registerReq.Email)
		http.Error(w, `{"error": "Email already in use"}`, http.StatusConflict)
		return
	}

	// Хэшируем пароль
	hashedPassword, err := auth.HashPassword(registerReq.Password)
	if err != nil {
		log.Printf("❌ Error hashing password: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Роль назначается при регистрации: один закрепленный email
	// становится администратором, все остальные - обычные пользователи
	role := models.RoleUser
	if registerReq.Email == h.adminEmail {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:         registerReq.Name,
		Email:        registerReq.Email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("❌ Error creating user: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User registered successfully: %s (role: %s)", user.Email, user.Role)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user.Public())
}

// Login обрабатывает вход пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var loginReq models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Printf("❌ Error decoding login request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Ищем пользователя. Неизвестный email и неверный пароль дают
	// одинаковый ответ, чтобы не раскрывать существование аккаунта
	var user models.User
	if err := h.db.Where("email = ?", loginReq.Email).First(&user).Error; err != nil {
		log.Printf("❌ User not found: %s", loginReq.Email)
		http.Error(w, `{"error": "Invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if !auth.CheckPassword(loginReq.Password, user.PasswordHash) {
		log.Printf("❌ Invalid password for user: %s", loginReq.Email)
		http.Error(w, `{"error": "Invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	// Генерируем токен
	token, err := h.jwtService.GenerateToken(&user)
	if err != nil {
		log.Printf("❌ Error generating token for user %s: %v", user.Email, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		Token: token,
		User:  user.Public(),
	}

	log.Printf("✅ User logged in successfully: %s (role: %s)", user.Email, user.Role)
	json.NewEncoder(w).Encode(response)
}

// Me возвращает текущего пользователя
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		log.Printf("❌ Error fetching user %d: %v", claims.UserID, err)
		http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(user.Public())
}
