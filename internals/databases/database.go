package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"thesisflow_backend/internals/configs"
	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	identityModel "thesisflow_backend/internals/features/users/identity/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[DB] connecting to PostgreSQL...")

	// PreferSimpleProtocol keeps this working behind PgBouncer (transaction pooling)
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=thesisflow&options=-c statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	DB = db
	log.Println("[DB] connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[DB] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Models lists every table the workflow owns, in dependency order.
func Models() []any {
	return []any{
		&identityModel.UserModel{},
		&identityModel.DepartmentModel{},
		&identityModel.StudentModel{},
		&identityModel.TeacherModel{},
		&identityModel.DepartmentHeadAppointmentModel{},
		&proposalModel.ProposalModel{},
		&thesisModel.ThesisModel{},
		&reviewModel.ReviewModel{},
		&reviewModel.CommentModel{},
		&defenseModel.DefenseDateModel{},
		&defenseModel.DefenseSessionModel{},
		&defenseModel.CommitteeAssignmentModel{},
	}
}

// AutoMigrate runs only when DB_AUTO_MIGRATE=true; production schemas are
// expected to be managed by migrations.
func AutoMigrate() error {
	if !configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		return nil
	}
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("[DB] pgcrypto: %v", err)
	}
	if err := DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("[DB] auto migrate done.")
	return nil
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background()); err != nil {
			log.Printf("[DB] warm-up ping err: %v", err)
			return
		}
		var n int64
		if err := DB.Model(&thesisModel.ThesisModel{}).
			Where("thesis_status = ?", thesisModel.ThesisStatusWaitingForReview).
			Count(&n).Error; err != nil {
			log.Printf("[DB] warm-up query err: %v", err)
		}
	}()
}

// Ping backs the health endpoints.
func Ping(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
