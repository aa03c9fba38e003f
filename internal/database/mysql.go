package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"xsmb-bot/internal/config"
	"xsmb-bot/internal/logger"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDB MySQL数据库客户端
type MySQLDB struct {
	db *sql.DB
}

// NewMySQLDB 创建新的MySQL数据库连接
func NewMySQLDB(cfg *config.Database) (*MySQLDB, error) {
	db, err := sql.Open("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// 设置连接池参数
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	mysqlDB := &MySQLDB{db: db}

	// 自动创建表结构
	if err := mysqlDB.createTablesIfNotExists(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return mysqlDB, nil
}

// Close 关闭数据库连接
func (m *MySQLDB) Close() error {
	return m.db.Close()
}

// SaveDrawResult 保存开奖数据，同日期覆盖
func (m *MySQLDB) SaveDrawResult(result *DrawResult) error {
	prizes, err := json.Marshal(result.Prizes)
	if err != nil {
		return fmt.Errorf("failed to marshal prizes: %v", err)
	}
	twoDigits, err := json.Marshal(result.TwoDigits)
	if err != nil {
		return fmt.Errorf("failed to marshal two digits: %v", err)
	}

	query := `INSERT INTO draw_results (draw_date, date_display, prizes, two_digits, count_numbers)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  date_display = VALUES(date_display),
			  prizes = VALUES(prizes),
			  two_digits = VALUES(two_digits),
			  count_numbers = VALUES(count_numbers),
			  updated_at = CURRENT_TIMESTAMP`

	if _, err := m.db.Exec(query, result.Date, result.DateDisplay, prizes, twoDigits, result.CountNumbers); err != nil {
		return fmt.Errorf("failed to save draw result: %v", err)
	}

	// 仅保留最近365天
	cutoff := time.Now().AddDate(0, 0, -DrawRetentionDays).Format("2006-01-02")
	if _, err := m.db.Exec("DELETE FROM draw_results WHERE draw_date < ?", cutoff); err != nil {
		logger.Warnf("Failed to prune old draw results: %v", err)
	}

	logger.Debugf("Saved draw result: %s (%d numbers)", result.Date, result.CountNumbers)
	return nil
}

// GetRecentResults 获取最近的开奖数据
func (m *MySQLDB) GetRecentResults(limit int) ([]DrawResult, error) {
	query := `SELECT id, draw_date, date_display, prizes, two_digits, count_numbers, created_at, updated_at
			  FROM draw_results
			  ORDER BY draw_date DESC
			  LIMIT ?`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent draw results: %v", err)
	}
	defer rows.Close()

	return scanDrawResults(rows)
}

// GetAllResults 获取全部开奖数据
func (m *MySQLDB) GetAllResults() ([]DrawResult, error) {
	return m.GetRecentResults(DrawRetentionDays)
}

// GetResultByDate 根据日期获取开奖数据
func (m *MySQLDB) GetResultByDate(date string) (*DrawResult, error) {
	query := `SELECT id, draw_date, date_display, prizes, two_digits, count_numbers, created_at, updated_at
			  FROM draw_results
			  WHERE draw_date = ?`

	row := m.db.QueryRow(query, date)
	result, err := scanDrawResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw result by date: %v", err)
	}
	return result, nil
}

// SavePrediction 保存预测记录，同(日期,模型)覆盖
func (m *MySQLDB) SavePrediction(prediction *Prediction) error {
	numbers, err := json.Marshal(prediction.PredictedNumbers)
	if err != nil {
		return fmt.Errorf("failed to marshal predicted numbers: %v", err)
	}

	query := `INSERT INTO predictions (prediction_date, model_key, model_id, model_name, date_display, analysis, predicted_numbers, predicted_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  model_id = VALUES(model_id),
			  model_name = VALUES(model_name),
			  date_display = VALUES(date_display),
			  analysis = VALUES(analysis),
			  predicted_numbers = VALUES(predicted_numbers),
			  predicted_at = VALUES(predicted_at),
			  evaluated = 0,
			  actual_numbers = NULL,
			  hits = NULL,
			  hit_count = NULL,
			  is_win = NULL,
			  evaluated_at = NULL,
			  updated_at = CURRENT_TIMESTAMP`

	if _, err := m.db.Exec(query, prediction.PredictionDate, prediction.ModelKey, prediction.ModelID,
		prediction.ModelName, prediction.DateDisplay, prediction.Analysis, numbers, prediction.Timestamp); err != nil {
		return fmt.Errorf("failed to save prediction: %v", err)
	}

	// 仅保留最近90天
	cutoff := time.Now().AddDate(0, 0, -PredictionRetentionDays).Format("2006-01-02")
	if _, err := m.db.Exec("DELETE FROM predictions WHERE prediction_date < ?", cutoff); err != nil {
		logger.Warnf("Failed to prune old predictions: %v", err)
	}

	logger.Debugf("Saved prediction: %s / %s", prediction.PredictionDate, prediction.ModelKey)
	return nil
}

// UpdatePredictionResult 写入评估结果并标记已评估
func (m *MySQLDB) UpdatePredictionResult(prediction *Prediction) error {
	if prediction.Result == nil {
		return fmt.Errorf("prediction has no evaluation result")
	}

	actual, err := json.Marshal(prediction.Result.ActualNumbers)
	if err != nil {
		return fmt.Errorf("failed to marshal actual numbers: %v", err)
	}
	hits, err := json.Marshal(prediction.Result.Hits)
	if err != nil {
		return fmt.Errorf("failed to marshal hits: %v", err)
	}

	query := `UPDATE predictions
			  SET evaluated = 1, actual_numbers = ?, hits = ?, hit_count = ?, is_win = ?, evaluated_at = ?
			  WHERE prediction_date = ? AND model_key = ?`

	if _, err := m.db.Exec(query, actual, hits, prediction.Result.HitCount, prediction.Result.IsWin,
		prediction.Result.EvaluatedAt, prediction.PredictionDate, prediction.ModelKey); err != nil {
		return fmt.Errorf("failed to update prediction result: %v", err)
	}

	logger.Debugf("Updated prediction result: %s / %s, win: %t",
		prediction.PredictionDate, prediction.ModelKey, prediction.Result.IsWin)
	return nil
}

// GetPrediction 根据(日期,模型)获取预测记录
func (m *MySQLDB) GetPrediction(date, modelKey string) (*Prediction, error) {
	query := predictionSelect + ` WHERE prediction_date = ? AND model_key = ?`

	row := m.db.QueryRow(query, date, modelKey)
	prediction, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %v", err)
	}
	return prediction, nil
}

// GetPredictionsByDate 获取某天所有模型的预测
func (m *MySQLDB) GetPredictionsByDate(date string) ([]Prediction, error) {
	query := predictionSelect + ` WHERE prediction_date = ? ORDER BY model_key`

	rows, err := m.db.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date: %v", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetAllPredictions 获取完整预测历史
func (m *MySQLDB) GetAllPredictions() ([]Prediction, error) {
	query := predictionSelect + ` ORDER BY prediction_date DESC, model_key`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all predictions: %v", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetPendingPredictions 获取所有未评估的预测记录
func (m *MySQLDB) GetPendingPredictions() ([]Prediction, error) {
	query := predictionSelect + ` WHERE evaluated = 0 ORDER BY prediction_date DESC, model_key`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending predictions: %v", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// DeletePrediction 删除单条预测
func (m *MySQLDB) DeletePrediction(date, modelKey string) error {
	if _, err := m.db.Exec("DELETE FROM predictions WHERE prediction_date = ? AND model_key = ?", date, modelKey); err != nil {
		return fmt.Errorf("failed to delete prediction: %v", err)
	}
	return nil
}

// DeletePredictionsByDate 删除某天全部预测
func (m *MySQLDB) DeletePredictionsByDate(date string) error {
	if _, err := m.db.Exec("DELETE FROM predictions WHERE prediction_date = ?", date); err != nil {
		return fmt.Errorf("failed to delete predictions by date: %v", err)
	}
	return nil
}

const predictionSelect = `SELECT id, prediction_date, model_key, model_id, model_name, date_display,
	analysis, predicted_numbers, predicted_at, evaluated, actual_numbers, hits, hit_count, is_win, evaluated_at
	FROM predictions`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDrawResult(row rowScanner) (*DrawResult, error) {
	var result DrawResult
	var prizes, twoDigits []byte

	err := row.Scan(&result.ID, &result.Date, &result.DateDisplay, &prizes, &twoDigits,
		&result.CountNumbers, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(prizes, &result.Prizes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prizes: %v", err)
	}
	if err := json.Unmarshal(twoDigits, &result.TwoDigits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal two digits: %v", err)
	}

	return &result, nil
}

func scanDrawResults(rows *sql.Rows) ([]DrawResult, error) {
	var results []DrawResult
	for rows.Next() {
		result, err := scanDrawResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw result: %v", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading draw result rows: %v", err)
	}
	return results, nil
}

func scanPrediction(row rowScanner) (*Prediction, error) {
	var p Prediction
	var numbers []byte
	var actual, hits []byte
	var hitCount sql.NullInt64
	var isWin sql.NullBool
	var evaluatedAt sql.NullTime

	err := row.Scan(&p.ID, &p.PredictionDate, &p.ModelKey, &p.ModelID, &p.ModelName, &p.DateDisplay,
		&p.Analysis, &numbers, &p.Timestamp, &p.Evaluated, &actual, &hits, &hitCount, &isWin, &evaluatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(numbers, &p.PredictedNumbers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predicted numbers: %v", err)
	}

	if p.Evaluated {
		result := &EvaluationResult{
			HitCount: int(hitCount.Int64),
			IsWin:    isWin.Bool,
		}
		if evaluatedAt.Valid {
			result.EvaluatedAt = evaluatedAt.Time
		}
		if actual != nil {
			if err := json.Unmarshal(actual, &result.ActualNumbers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal actual numbers: %v", err)
			}
		}
		if hits != nil {
			if err := json.Unmarshal(hits, &result.Hits); err != nil {
				return nil, fmt.Errorf("failed to unmarshal hits: %v", err)
			}
		}
		p.Result = result
	}

	return &p, nil
}

func scanPredictions(rows *sql.Rows) ([]Prediction, error) {
	var predictions []Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %v", err)
		}
		predictions = append(predictions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading prediction rows: %v", err)
	}
	return predictions, nil
}

// createTablesIfNotExists 自动创建表结构
func (m *MySQLDB) createTablesIfNotExists() error {
	createDrawResultsTable := `CREATE TABLE IF NOT EXISTS draw_results (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		draw_date VARCHAR(10) UNIQUE NOT NULL COMMENT '开奖日期(ISO)',
		date_display VARCHAR(20) NOT NULL COMMENT '展示日期',
		prizes TEXT NOT NULL COMMENT '各奖级号码(JSON)',
		two_digits TEXT NOT NULL COMMENT '后两位号码(JSON)',
		count_numbers INT NOT NULL COMMENT '号码数量',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP COMMENT '记录创建时间',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP COMMENT '记录更新时间',
		INDEX idx_draw_date (draw_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='开奖数据表'`

	if _, err := m.db.Exec(createDrawResultsTable); err != nil {
		return fmt.Errorf("failed to create draw_results table: %v", err)
	}

	createPredictionsTable := `CREATE TABLE IF NOT EXISTS predictions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		prediction_date VARCHAR(10) NOT NULL COMMENT '预测目标日期(ISO)',
		model_key VARCHAR(50) NOT NULL COMMENT '模型标识',
		model_id VARCHAR(100) NOT NULL COMMENT '后端模型ID',
		model_name VARCHAR(100) NOT NULL COMMENT '模型展示名',
		date_display VARCHAR(50) NOT NULL COMMENT '展示日期',
		analysis MEDIUMTEXT NOT NULL COMMENT '模型完整回复',
		predicted_numbers TEXT NOT NULL COMMENT '提取的预测号码(JSON)',
		predicted_at DATETIME NOT NULL COMMENT '预测生成时间',
		evaluated BOOLEAN NOT NULL DEFAULT 0 COMMENT '是否已评估',
		actual_numbers TEXT DEFAULT NULL COMMENT '实际号码(JSON)',
		hits TEXT DEFAULT NULL COMMENT '命中号码(JSON)',
		hit_count INT DEFAULT NULL COMMENT '命中数量',
		is_win BOOLEAN DEFAULT NULL COMMENT '是否命中至少一个',
		evaluated_at DATETIME DEFAULT NULL COMMENT '评估时间',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP COMMENT '记录创建时间',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP COMMENT '记录更新时间',
		UNIQUE KEY uk_date_model (prediction_date, model_key),
		INDEX idx_prediction_date (prediction_date),
		INDEX idx_evaluated (evaluated)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci COMMENT='预测记录表'`

	if _, err := m.db.Exec(createPredictionsTable); err != nil {
		return fmt.Errorf("failed to create predictions table: %v", err)
	}

	return nil
}
