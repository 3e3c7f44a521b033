package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"studysync-backend/auth"
	"studysync-backend/models"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListUsers возвращает всех пользователей (только публичные поля)
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		log.Printf("❌ Error fetching users: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	publicUsers := make([]models.PublicUser, 0, len(users))
	for i := range users {
		publicUsers = append(publicUsers, users[i].Public())
	}

	json.NewEncoder(w).Encode(publicUsers)
}

// DeleteUser удаляет пользователя. Себя удалить нельзя.
// Несуществующий пользователь - 404, а не тихий успех.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid user id"}`, http.StatusBadRequest)
		return
	}

	// Запрещаем удалять самого себя
	if uint(id) == claims.UserID {
		log.Printf("❌ Admin %s tried to delete own account", claims.Email)
		http.Error(w, `{"error": "You cannot delete yourself"}`, http.StatusBadRequest)
		return
	}

	var user models.User
	result := h.db.First(&user, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ User with ID %d not found", id)
			http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking user existence: %v", result.Error)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		log.Printf("❌ Error deleting user %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ User %d deleted successfully (by admin %s)", id, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}
