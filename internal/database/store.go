package database

// DrawRetentionDays 开奖数据最多保留天数
const DrawRetentionDays = 365

// PredictionRetentionDays 预测历史最多保留天数
const PredictionRetentionDays = 90

// DrawStore 开奖数据仓库接口，按日期去重写入
type DrawStore interface {
	// SaveDrawResult 保存开奖数据，同日期覆盖
	SaveDrawResult(result *DrawResult) error

	// GetRecentResults 获取最近limit天的开奖数据，按日期降序
	GetRecentResults(limit int) ([]DrawResult, error)

	// GetAllResults 获取全部开奖数据，按日期降序
	GetAllResults() ([]DrawResult, error)

	// GetResultByDate 按日期查询，不存在时返回nil
	GetResultByDate(date string) (*DrawResult, error)
}

// PredictionStore 预测记录仓库接口，(日期, 模型)唯一
type PredictionStore interface {
	// SavePrediction 保存预测记录，同(日期,模型)覆盖
	SavePrediction(prediction *Prediction) error

	// UpdatePredictionResult 写入评估结果并标记已评估
	UpdatePredictionResult(prediction *Prediction) error

	// GetPrediction 按(日期,模型)查询，不存在时返回nil
	GetPrediction(date, modelKey string) (*Prediction, error)

	// GetPredictionsByDate 获取某天所有模型的预测
	GetPredictionsByDate(date string) ([]Prediction, error)

	// GetAllPredictions 获取完整预测历史，按日期降序
	GetAllPredictions() ([]Prediction, error)

	// GetPendingPredictions 获取所有未评估的预测
	GetPendingPredictions() ([]Prediction, error)

	// DeletePrediction 删除单条预测
	DeletePrediction(date, modelKey string) error

	// DeletePredictionsByDate 删除某天全部预测
	DeletePredictionsByDate(date string) error
}

// Store 组合仓库接口
type Store interface {
	DrawStore
	PredictionStore
	Close() error
}
