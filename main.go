package main

import (
	"encoding/json"
	"log"
	"net/http"
	"studysync-backend/auth"
	"studysync-backend/config"
	"studysync-backend/database"
	"studysync-backend/handlers"
	"studysync-backend/middleware"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	log.Println("🚀 Starting StudySync Backend Server...")

	// Загрузка конфигурации
	cfg := config.Load()
	log.Printf("📋 Configuration loaded: Server Port %s", cfg.ServerPort)

	// Инициализация подключения к базе данных
	db, dbx, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("❌ Error initializing database:", err)
	}

	// Получаем низкоуровневое соединение для закрытия
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("❌ Error getting SQL DB:", err)
	}
	defer sqlDB.Close()

	// Миграция схемы
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Error migrating database:", err)
	}

	// Инициализация JWT сервиса
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализация обработчиков
	authHandler := handlers.NewAuthHandler(db, jwtService, cfg.AdminEmail)
	sessionHandler := handlers.NewSessionHandler(db)
	taskHandler := handlers.NewTaskHandler(db, dbx)
	adminHandler := handlers.NewAdminHandler(db)
	helperHandler := handlers.NewHelperHandler()

	// Создание роутера
	r := mux.NewRouter()

	// Добавление middleware CORS для всех маршрутов
	r.Use(middleware.CORS)
	r.Use(loggingMiddleware)

	// Маршруты
	setupRoutes(r, authHandler, sessionHandler, taskHandler, adminHandler, helperHandler, authMiddleware)

	serverAddr := ":" + cfg.ServerPort
	log.Printf("✅ Server successfully started on %s", serverAddr)
	log.Printf("🌐 Available at: http://localhost%s", serverAddr)
	log.Printf("🔐 JWT Expiry: %d hours", cfg.JWTExpiry)

	log.Fatal(http.ListenAndServe(serverAddr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обертку для response writer для захвата статуса
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("📨 %s %s - %d (%v)", r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func setupRoutes(r *mux.Router, authHandler *handlers.AuthHandler,
	sessionHandler *handlers.SessionHandler,
	taskHandler *handlers.TaskHandler,
	adminHandler *handlers.AdminHandler,
	helperHandler *handlers.HelperHandler,
	am *middleware.AuthMiddleware) {

	api := r.PathPrefix("/api").Subrouter()

	// Публичные маршруты API (без аутентификации)
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/health", healthHandler).Methods("GET")

	// Текущий пользователь
	api.HandleFunc("/me", am.RequireAuth(authHandler.Me)).Methods("GET")

	// Учебные сессии
	api.HandleFunc("/sessions", am.RequireAuth(sessionHandler.ListSessions)).Methods("GET")
	api.HandleFunc("/sessions", am.RequireAuth(sessionHandler.CreateSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.GetSession)).Methods("GET")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.UpdateSession)).Methods("PUT")
	api.HandleFunc("/sessions/{id}", am.RequireAuth(sessionHandler.DeleteSession)).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/join", am.RequireAuth(sessionHandler.JoinSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}/messages", am.RequireAuth(sessionHandler.PostMessage)).Methods("POST")

	// Задачи
	api.HandleFunc("/tasks", am.RequireAuth(taskHandler.ListTasks)).Methods("GET")
	api.HandleFunc("/tasks", am.RequireAuth(taskHandler.CreateTask)).Methods("POST")
	api.HandleFunc("/tasks/{id}", am.RequireAuth(taskHandler.UpdateTask)).Methods("PUT")
	api.HandleFunc("/tasks/{id}", am.RequireAuth(taskHandler.DeleteTask)).Methods("DELETE")

	// Администрирование - ТОЛЬКО для админа
	api.HandleFunc("/admin/users", am.RequireAdmin(adminHandler.ListUsers)).Methods("GET")
	api.HandleFunc("/admin/users/{id}", am.RequireAdmin(adminHandler.DeleteUser)).Methods("DELETE")

	// Учебный помощник
	api.HandleFunc("/ai/study-helper", am.RequireAuth(helperHandler.StudyHelper)).Methods("POST")

	// Публичные маршруты (без API префикса)
	r.HandleFunc("/", rootHandler).Methods("GET")

	// OPTIONS handlers для всех маршрутов
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin")
		w.WriteHeader(http.StatusOK)
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `
<!DOCTYPE html>
<html>
<head>
    <title>StudySync API</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 0;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            display: flex;
            justify-content: center;
            align-items: center;
        }
        .container {
            background: white;
            padding: 3rem;
            border-radius: 15px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.2);
            text-align: center;
            max-width: 600px;
        }
        h1 {
            color: #333;
            margin-bottom: 1.5rem;
        }
        .status {
            background: #4CAF50;
            color: white;
            padding: 0.5rem 1rem;
            border-radius: 25px;
            display: inline-block;
            margin-bottom: 1rem;
        }
        .endpoints {
            text-align: left;
            background: #f1f3f4;
            padding: 1rem;
            border-radius: 8px;
            margin-top: 1rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>📚 StudySync API</h1>
        <div class="status">✅ Сервер работает корректно</div>
        <div class="endpoints">
            <p><strong>Public Endpoints:</strong></p>
            <ul>
                <li><code>POST /api/auth/register</code> - Register</li>
                <li><code>POST /api/auth/login</code> - Login</li>
                <li><code>GET /api/health</code> - Health check</li>
            </ul>
            <p><strong>Protected Endpoints:</strong></p>
            <ul>
                <li><code>GET /api/me</code> - Current user</li>
                <li><code>GET/POST /api/sessions</code> - Study sessions</li>
                <li><code>GET/PUT/DELETE /api/sessions/{id}</code> - One session</li>
                <li><code>POST /api/sessions/{id}/join</code> - Join a session</li>
                <li><code>POST /api/sessions/{id}/messages</code> - Session chat</li>
                <li><code>GET/POST /api/tasks</code> - Personal tasks</li>
                <li><code>PUT/DELETE /api/tasks/{id}</code> - One task</li>
                <li><code>GET/DELETE /api/admin/users</code> - Admin only</li>
                <li><code>POST /api/ai/study-helper</code> - Study tips / summary</li>
            </ul>
        </div>
    </div>
</body>
</html>`
	w.Write([]byte(html))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
