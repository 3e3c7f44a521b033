package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"studysync-backend/auth"
	"studysync-backend/studyhelper"
)

type HelperHandler struct{}

func NewHelperHandler() *HelperHandler {
	return &HelperHandler{}
}

// StudyHelper - детерминированный учебный помощник: советы по ключевым
// словам или выжимка первых предложений. Никакой модели, чистые строки.
func (h *HelperHandler) StudyHelper(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Text json.RawMessage `json:"text"`
		Mode string          `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding study helper request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// text обязан быть строкой; отсутствие поля или другой тип - ошибка
	var text string
	if len(req.Text) == 0 || json.Unmarshal(req.Text, &text) != nil {
		http.Error(w, `{"error": "Text is required"}`, http.StatusBadRequest)
		return
	}

	var result string
	switch req.Mode {
	case studyhelper.ModeTips:
		result = studyhelper.Tips(text)
	case studyhelper.ModeSummary:
		result = studyhelper.Summarize(text)
	default:
		http.Error(w, `{"error": "Invalid mode"}`, http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"result": result})
}
