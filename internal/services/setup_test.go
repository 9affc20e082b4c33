package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

// setupTestDB opens a private in-memory database. A single connection keeps
// every query on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.QuizLevel{},
		&gormModels.Member{},
		&gormModels.Quiz{},
		&gormModels.QuizQuestion{},
		&gormModels.QuizOption{},
		&gormModels.QuizAttempt{},
		&gormModels.QuizAttemptAnswer{},
		&gormModels.Evaluation{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedLevel(t *testing.T, db *gorm.DB, id uint, code string) *gormModels.QuizLevel {
	t.Helper()
	level := &gormModels.QuizLevel{ID: id, Code: code, Name: "Level " + code}
	if err := db.Create(level).Error; err != nil {
		t.Fatalf("Failed to seed level: %v", err)
	}
	return level
}

func seedUser(t *testing.T, db *gorm.DB, username string, role constants.Role) *gormModels.User {
	t.Helper()
	user := &gormModels.User{Username: username, Role: role, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedMember(t *testing.T, db *gorm.DB, memberID, name string, coachID *uint) *gormModels.Member {
	t.Helper()
	m := &gormModels.Member{MemberID: memberID, Name: name, CoachID: coachID}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}
	return m
}

func countMembers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&gormModels.Member{}).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	return n
}

func boolPtr(b bool) *bool { return &b }

func dtosLevel(code string) dtos.QuizLevelRequest {
	return dtos.QuizLevelRequest{Code: code, Name: "Level " + code}
}
