package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"studysync-backend/auth"
	"studysync-backend/models"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionHandler struct {
	db *gorm.DB
}

func NewSessionHandler(db *gorm.DB) *SessionHandler {
	return &SessionHandler{db: db}
}

// parseTime разбирает дату из запроса: RFC3339 или просто дата
func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ListSessions возвращает предстоящие сессии по возрастанию времени начала
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	sessions := []models.StudySession{}
	err := h.db.Where("start_time >= ?", time.Now()).
		Order("start_time ASC").
		Preload("CreatedBy").
		Preload("Participants").
		Find(&sessions).Error
	if err != nil {
		log.Printf("❌ Error fetching sessions: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(sessions)
}

// CreateSession создает сессию и сразу добавляет создателя участником-хостом
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	var createReq struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		StartTime       string `json:"startTime"`
		EndTime         string `json:"endTime"`
		Mode            string `json:"mode"`
		MaxParticipants *int   `json:"maxParticipants"`
		IsPublic        *bool  `json:"isPublic"`
	}

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		log.Printf("❌ Error decoding session request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if createReq.Title == "" || createReq.StartTime == "" || createReq.EndTime == "" {
		log.Printf("❌ Session validation failed: title, startTime or endTime missing")
		http.Error(w, `{"error": "title, startTime, endTime are required"}`, http.StatusBadRequest)
		return
	}

	startTime, err := parseTime(createReq.StartTime)
	if err != nil {
		log.Printf("❌ Invalid startTime %q: %v", createReq.StartTime, err)
		http.Error(w, `{"error": "Invalid startTime"}`, http.StatusBadRequest)
		return
	}

	endTime, err := parseTime(createReq.EndTime)
	if err != nil {
		log.Printf("❌ Invalid endTime %q: %v", createReq.EndTime, err)
		http.Error(w, `{"error": "Invalid endTime"}`, http.StatusBadRequest)
		return
	}

	// isPublic по умолчанию true
	isPublic := true
	if createReq.IsPublic != nil {
		isPublic = *createReq.IsPublic
	}

	session := models.StudySession{
		Title:           createReq.Title,
		Description:     createReq.Description,
		StartTime:       startTime,
		EndTime:         endTime,
		Mode:            createReq.Mode,
		MaxParticipants: createReq.MaxParticipants,
		IsPublic:        isPublic,
		CreatedByID:     claims.UserID,
	}

	// Сессия и участник-хост создаются в одной транзакции
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		host := models.SessionParticipant{
			UserID:    claims.UserID,
			SessionID: session.ID,
			Role:      models.ParticipantHost,
		}
		return tx.Create(&host).Error
	})
	if err != nil {
		log.Printf("❌ Error creating session: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Перечитываем с создателем и участниками для ответа
	if err := h.db.Preload("CreatedBy").Preload("Participants").First(&session, session.ID).Error; err != nil {
		log.Printf("❌ Error reloading session %d: %v", session.ID, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Session created successfully with ID: %d (by user %s)", session.ID, claims.Email)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// GetSession возвращает сессию с участниками и сообщениями чата
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid session ID"}`, http.StatusBadRequest)
		return
	}

	var session models.StudySession
	result := h.db.Preload("CreatedBy").
		Preload("Participants.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			// Сообщения по возрастанию времени создания
			return db.Order("created_at ASC")
		}).
		Preload("Messages.User").
		First(&session, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching session %d: %v", id, result.Error)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(session)
}

// UpdateSession обновляет сессию. Разрешено создателю и администратору.
// Отсутствующие в запросе поля не изменяются.
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid session ID"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование сессии
	var existing models.StudySession
	result := h.db.First(&existing, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking session existence: %v", result.Error)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Проверяем права: только создатель или администратор
	if existing.CreatedByID != claims.UserID && claims.Role != models.RoleAdmin {
		log.Printf("❌ User %s tried to update session %d without permission", claims.Email, id)
		http.Error(w, `{"error": "Not allowed"}`, http.StatusForbidden)
		return
	}

	var updateReq struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		StartTime       *string `json:"startTime"`
		EndTime         *string `json:"endTime"`
		Mode            *string `json:"mode"`
		MaxParticipants *int    `json:"maxParticipants"`
		IsPublic        *bool   `json:"isPublic"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Собираем только присланные поля. Присланное пустое значение
	// перезаписывает, отсутствующее поле сохраняет старое.
	updates := map[string]interface{}{}
	if updateReq.Title != nil {
		updates["title"] = *updateReq.Title
	}
	if updateReq.Description != nil {
		updates["description"] = *updateReq.Description
	}
	if updateReq.StartTime != nil {
		startTime, err := parseTime(*updateReq.StartTime)
		if err != nil {
			log.Printf("❌ Invalid startTime %q: %v", *updateReq.StartTime, err)
			http.Error(w, `{"error": "Invalid startTime"}`, http.StatusBadRequest)
			return
		}
		updates["start_time"] = startTime
	}
	if updateReq.EndTime != nil {
		endTime, err := parseTime(*updateReq.EndTime)
		if err != nil {
			log.Printf("❌ Invalid endTime %q: %v", *updateReq.EndTime, err)
			http.Error(w, `{"error": "Invalid endTime"}`, http.StatusBadRequest)
			return
		}
		updates["end_time"] = endTime
	}
	if updateReq.Mode != nil {
		updates["mode"] = *updateReq.Mode
	}
	if updateReq.MaxParticipants != nil {
		updates["max_participants"] = *updateReq.MaxParticipants
	}
	if updateReq.IsPublic != nil {
		updates["is_public"] = *updateReq.IsPublic
	}

	if len(updates) > 0 {
		if err := h.db.Model(&existing).Updates(updates).Error; err != nil {
			log.Printf("❌ Error updating session %d: %v", id, err)
			http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
			return
		}
	}

	// Возвращаем обновленную сессию
	var updated models.StudySession
	if err := h.db.First(&updated, id).Error; err != nil {
		log.Printf("❌ Error reloading session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Session %d updated successfully (by user %s)", id, claims.Email)
	json.NewEncoder(w).Encode(updated)
}

// DeleteSession удаляет сессию вместе с участниками и сообщениями.
// Сначала дочерние строки, потом сама сессия - внешних ключей с каскадом нет.
// Три отдельных запроса, не транзакция: при падении посередине могут
// остаться осиротевшие строки.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid session ID"}`, http.StatusBadRequest)
		return
	}

	var existing models.StudySession
	result := h.db.First(&existing, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking session existence: %v", result.Error)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	if existing.CreatedByID != claims.UserID && claims.Role != models.RoleAdmin {
		log.Printf("❌ User %s tried to delete session %d without permission", claims.Email, id)
		http.Error(w, `{"error": "Not allowed"}`, http.StatusForbidden)
		return
	}

	log.Printf("🗑️ Deleting session %d with participants and messages (by user %s)", id, claims.Email)

	if err := h.db.Where("session_id = ?", id).Delete(&models.SessionParticipant{}).Error; err != nil {
		log.Printf("❌ Error deleting participants for session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.db.Where("session_id = ?", id).Delete(&models.Message{}).Error; err != nil {
		log.Printf("❌ Error deleting messages for session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.db.Delete(&models.StudySession{}, id).Error; err != nil {
		log.Printf("❌ Error deleting session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Session %d deleted successfully", id)
	w.WriteHeader(http.StatusNoContent)
}

// JoinSession добавляет пользователя в сессию.
// Повторный join - не ошибка, вернется существующая строка участника.
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid session ID"}`, http.StatusBadRequest)
		return
	}

	var session models.StudySession
	result := h.db.First(&session, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Session not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching session %d: %v", id, result.Error)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Проверка заполненности - до upsert, как и проверка лимита
	if session.MaxParticipants != nil {
		var count int64
		if err := h.db.Model(&models.SessionParticipant{}).
			Where("session_id = ?", id).Count(&count).Error; err != nil {
			log.Printf("❌ Error counting participants for session %d: %v", id, err)
			http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
			return
		}
		if count >= int64(*session.MaxParticipants) {
			log.Printf("❌ Session %d is full (%d participants)", id, count)
			http.Error(w, `{"error": "Session is full"}`, http.StatusBadRequest)
			return
		}
	}

	// Upsert по уникальной паре (user_id, session_id): повторный join
	// ничего не меняет и не дублирует
	participant := models.SessionParticipant{
		UserID:    claims.UserID,
		SessionID: session.ID,
		Role:      models.ParticipantMember,
	}
	err = h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "session_id"}},
		DoNothing: true,
	}).Create(&participant).Error
	if err != nil {
		log.Printf("❌ Error joining session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Перечитываем строку участника: при конфликте Create ее не заполняет
	if err := h.db.Where("user_id = ? AND session_id = ?", claims.UserID, session.ID).
		First(&participant).Error; err != nil {
		log.Printf("❌ Error fetching participant for session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User %s joined session %d", claims.Email, id)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(participant)
}

// PostMessage добавляет сообщение в чат сессии.
// Членство в сессии не проверяется: писать может любой
// аутентифицированный пользователь.
func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid session ID"}`, http.StatusBadRequest)
		return
	}

	var messageReq struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&messageReq); err != nil {
		log.Printf("❌ Error decoding message request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if messageReq.Content == "" {
		http.Error(w, `{"error": "Content required"}`, http.StatusBadRequest)
		return
	}

	message := models.Message{
		Content:   messageReq.Content,
		UserID:    claims.UserID,
		SessionID: uint(id),
	}

	if err := h.db.Create(&message).Error; err != nil {
		log.Printf("❌ Error creating message in session %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	// Подгружаем автора для ответа
	if err := h.db.Preload("User").First(&message, message.ID).Error; err != nil {
		log.Printf("❌ Error reloading message %d: %v", message.ID, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Message %d posted to session %d by %s", message.ID, id, claims.Email)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}
