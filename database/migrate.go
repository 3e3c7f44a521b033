package database

import (
	"log"
	"studysync-backend/models"

	"gorm.io/gorm"
)

// Migrate создает/обновляет таблицы и индексы
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Starting database migration...")

	// Создаем таблицы с использованием GORM AutoMigrate
	// В правильном порядке: сначала независимые таблицы, потом зависимые
	tables := []interface{}{
		&models.User{},
		&models.StudySession{},
		&models.SessionParticipant{},
		&models.Message{},
		&models.Task{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			log.Printf("❌ Error migrating table %T: %v", table, err)
			return err
		}
		log.Printf("✅ Created/Updated table for: %T", table)
	}

	// Создаем индексы вручную (если нужно)
	createIndexes(db)

	log.Println("✅ Database migration completed successfully!")
	return nil
}

func createIndexes(db *gorm.DB) {
	log.Println("📊 Creating indexes...")

	// Индексы для таблицы users
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")

	// Индексы для сессий и их дочерних таблиц
	db.Exec("CREATE INDEX IF NOT EXISTS idx_study_sessions_start_time ON study_sessions(start_time)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at)")

	// Индексы для задач
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)")

	log.Println("✅ Indexes created successfully!")
}
