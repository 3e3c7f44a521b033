package database

import (
	"database/sql"
	"fmt"
	"log"
	"studysync-backend/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер PostgreSQL
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает одно соединение с PostgreSQL и оборачивает его
// и в GORM (основные CRUD операции), и в sqlx (сырые запросы).
// Внешние ключи на уровне БД не создаются: порядок удаления связанных
// строк - обязанность обработчиков.
func InitDB(cfg *config.Config) (*gorm.DB, *sqlx.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	// Сначала используем стандартный database/sql
	sqlDB, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening database: %w", err)
	}

	// Проверяем подключение
	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("error pinging database: %w", err)
	}

	// Оборачиваем в sqlx
	dbx := sqlx.NewDb(sqlDB, "postgres")

	// И в GORM поверх того же соединения
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error opening gorm: %w", err)
	}

	log.Println("✅ Successfully connected to PostgreSQL!")
	return gormDB, dbx, nil
}
