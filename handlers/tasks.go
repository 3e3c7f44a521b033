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
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db  *gorm.DB
	dbx *sqlx.DB
}

func NewTaskHandler(db *gorm.DB, dbx *sqlx.DB) *TaskHandler {
	return &TaskHandler{db: db, dbx: dbx}
}

// Сортировка задач: статус в порядке объявления (TODO, IN_PROGRESS, DONE),
// затем срок по возрастанию (без срока - в конец), затем новые раньше.
// Алфавитная сортировка по статусу дала бы DONE первым, поэтому CASE.
const listTasksQuery = `
SELECT id, title, description, type, subject, due_date, status, priority, user_id, created_at, updated_at
FROM tasks
WHERE user_id = ?
ORDER BY
	CASE status WHEN 'TODO' THEN 0 WHEN 'IN_PROGRESS' THEN 1 WHEN 'DONE' THEN 2 ELSE 3 END ASC,
	due_date ASC NULLS LAST,
	created_at DESC`

// parseDueDate разбирает срок задачи, пустая строка - без срока
func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// ListTasks возвращает задачи текущего пользователя в отсортированном виде
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	tasks := []models.Task{}
	query := h.dbx.Rebind(listTasksQuery)
	if err := h.dbx.Select(&tasks, query, claims.UserID); err != nil {
		log.Printf("❌ Error fetching tasks for user %d: %v", claims.UserID, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(tasks)
}

// CreateTask создает задачу текущего пользователя
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	var createReq struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Subject     string `json:"subject"`
		DueDate     string `json:"dueDate"`
		Priority    string `json:"priority"`
	}

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		log.Printf("❌ Error decoding task request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if createReq.Title == "" {
		http.Error(w, `{"error": "Title is required"}`, http.StatusBadRequest)
		return
	}

	dueDate, err := parseDueDate(createReq.DueDate)
	if err != nil {
		log.Printf("❌ Invalid dueDate %q: %v", createReq.DueDate, err)
		http.Error(w, `{"error": "Invalid dueDate"}`, http.StatusBadRequest)
		return
	}

	taskType := createReq.Type
	if taskType == "" {
		taskType = models.TaskTypeTask
	}

	task := models.Task{
		Title:       createReq.Title,
		Description: createReq.Description,
		Type:        taskType,
		Subject:     createReq.Subject,
		DueDate:     dueDate,
		Status:      models.TaskStatusTodo,
		Priority:    createReq.Priority,
		UserID:      claims.UserID,
	}

	if err := h.db.Create(&task).Error; err != nil {
		log.Printf("❌ Error creating task: %v", err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task created successfully with ID: %d (user %s)", task.ID, claims.Email)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// UpdateTask обновляет задачу. Чужая или несуществующая задача - всегда 404,
// чтобы не раскрывать существование задач других пользователей.
// Администратору доступ к чужим задачам тоже не дается.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid id"}`, http.StatusBadRequest)
		return
	}

	// Проверяем, что задача существует и принадлежит пользователю
	var existing models.Task
	result := h.db.First(&existing, id)
	if result.Error != nil || existing.UserID != claims.UserID {
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			log.Printf("❌ Error checking task existence: %v", result.Error)
			http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
			return
		}
		http.Error(w, `{"error": "Task not found"}`, http.StatusNotFound)
		return
	}

	var updateReq struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Type        *string `json:"type"`
		Subject     *string `json:"subject"`
		DueDate     *string `json:"dueDate"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Отсутствующие поля не трогаем
	updates := map[string]interface{}{}
	if updateReq.Title != nil {
		updates["title"] = *updateReq.Title
	}
	if updateReq.Description != nil {
		updates["description"] = *updateReq.Description
	}
	if updateReq.Type != nil {
		updates["type"] = *updateReq.Type
	}
	if updateReq.Subject != nil {
		updates["subject"] = *updateReq.Subject
	}
	if updateReq.Status != nil {
		updates["status"] = *updateReq.Status
	}
	if updateReq.Priority != nil {
		updates["priority"] = *updateReq.Priority
	}
	if updateReq.DueDate != nil {
		// Срок перечитывается только если прислан, иначе остается прежним
		dueDate, err := parseDueDate(*updateReq.DueDate)
		if err != nil {
			log.Printf("❌ Invalid dueDate %q: %v", *updateReq.DueDate, err)
			http.Error(w, `{"error": "Invalid dueDate"}`, http.StatusBadRequest)
			return
		}
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := h.db.Model(&existing).Updates(updates).Error; err != nil {
			log.Printf("❌ Error updating task %d: %v", id, err)
			http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
			return
		}
	}

	var updated models.Task
	if err := h.db.First(&updated, id).Error; err != nil {
		log.Printf("❌ Error reloading task %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task %d updated successfully (user %s)", id, claims.Email)
	json.NewEncoder(w).Encode(updated)
}

// DeleteTask удаляет задачу пользователя. Чужая задача - 404.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("❌ Error converting id to int: %v", err)
		http.Error(w, `{"error": "Invalid id"}`, http.StatusBadRequest)
		return
	}

	var existing models.Task
	result := h.db.First(&existing, id)
	if result.Error != nil || existing.UserID != claims.UserID {
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			log.Printf("❌ Error checking task existence: %v", result.Error)
			http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
			return
		}
		http.Error(w, `{"error": "Task not found"}`, http.StatusNotFound)
		return
	}

	if err := h.db.Delete(&existing).Error; err != nil {
		log.Printf("❌ Error deleting task %d: %v", id, err)
		http.Error(w, `{"error": "Server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ Task %d deleted successfully (user %s)", id, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}
