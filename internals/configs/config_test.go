package configs

import (
	"testing"

	gormLogger "gorm.io/gorm/logger"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("THESIS_X", "value")
	if got := GetEnv("THESIS_X", "def"); got != "value" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("THESIS_MISSING", "def"); got != "def" {
		t.Fatalf("GetEnv default = %q", got)
	}
	if got := GetEnv("THESIS_MISSING"); got != "" {
		t.Fatalf("GetEnv no default = %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("THESIS_N", "42")
	t.Setenv("THESIS_BAD", "forty")
	if got := GetEnvInt("THESIS_N", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("THESIS_BAD", 7); got != 7 {
		t.Fatalf("GetEnvInt bad = %d", got)
	}
	if got := GetEnvInt("THESIS_UNSET", 9); got != 9 {
		t.Fatalf("GetEnvInt unset = %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("THESIS_B", "true")
	if !GetEnvBool("THESIS_B", false) {
		t.Fatal("GetEnvBool = false")
	}
	if GetEnvBool("THESIS_B_UNSET", false) {
		t.Fatal("GetEnvBool unset = true")
	}
}

func TestGormLoggerLevel(t *testing.T) {
	t.Setenv("DB_LOG_LEVEL", "silent")
	l, ok := NewGormLogger().(*GormLogger)
	if !ok || l.LogLevel != gormLogger.Silent {
		t.Fatalf("level = %v", l.LogLevel)
	}
	if m := l.LogMode(gormLogger.Info).(*GormLogger); m.LogLevel != gormLogger.Info || l.LogLevel != gormLogger.Silent {
		t.Fatal("LogMode must not mutate the receiver")
	}
}
