package services

import (
	"errors"
	"fmt"
	"log"
	"siege-planner/models"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDatabaseUnavailable - DB 미연결 상태에서 조회
var ErrDatabaseUnavailable = errors.New("database not initialized")

// DB 인스턴스
var db *gorm.DB

// InitDatabase - 설정된 드라이버로 DB 연결
//
// An empty driver disables persistence; plan logs are then dropped at flush.
func InitDatabase(cfg *Config) error {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "":
		log.Println("⚠️  DB_DRIVER 미설정: 로그를 저장하지 않습니다")
		return nil
	case "mysql":
		if cfg.MySQLHost == "" || cfg.MySQLUser == "" || cfg.MySQLPassword == "" || cfg.MySQLDatabase == "" {
			return fmt.Errorf("MySQL 환경 변수가 모두 설정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.PlanLog{}); err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	db = conn
	log.Printf("✅ DB 연결 및 마이그레이션 완료 (driver=%s)", cfg.DBDriver)
	return nil
}

// GetDB - GORM 인스턴스 반환
func GetDB() *gorm.DB {
	return db
}

// GetRecentLogs - 에피소드 최근 로그 조회
func GetRecentLogs(episodeID string, limit int) ([]models.PlanLog, error) {
	if db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var logs []models.PlanLog
	query := db.Order("created_at DESC").Limit(limit)
	if episodeID != "" {
		query = query.Where("episode_id = ?", episodeID)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(episodeID string, start, end time.Time, limit int) ([]models.PlanLog, error) {
	if db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var logs []models.PlanLog
	query := db.Where("created_at BETWEEN ? AND ?", start, end)
	if episodeID != "" {
		query = query.Where("episode_id = ?", episodeID)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
