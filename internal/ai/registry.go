// Package ai 实现模型预测的生成、缓存与评估
package ai

import (
	"sort"

	"xsmb-bot/internal/config"
)

// defaultModels 内置模型注册表，可被配置覆盖
var defaultModels = map[string]config.Model{
	"claude-opus": {
		ID:          "gemini-claude-opus-4-5-thinking",
		Name:        "Claude Opus 4.5 Thinking",
		Description: "Mạnh nhất, phân tích sâu",
	},
	"claude-sonnet": {
		ID:          "gemini-claude-sonnet-4-5-thinking",
		Name:        "Claude Sonnet 4.5 Thinking",
		Description: "Nhanh hơn, thinking",
	},
	"gemini": {
		ID:          "gemini-3-pro-preview",
		Name:        "Gemini 3 Pro Preview",
		Description: "Google Gemini mới nhất",
	},
	"gpt-codex-max": {
		ID:          "gpt-5.1-codex-max",
		Name:        "GPT 5.1 Codex Max",
		Description: "GPT mạnh nhất",
	},
	"gpt-codex": {
		ID:          "gpt-5.2-codex",
		Name:        "GPT 5.2 Codex",
		Description: "GPT nhanh",
	},
	"glm": {
		ID:          "glm-4.7",
		Name:        "GLM 4.7",
		Description: "Model GLM",
	},
	"minimax": {
		ID:          "MiniMax-M2.1",
		Name:        "MiniMax M2.1",
		Description: "MiniMax AI",
	},
}

// Registry 模型注册表，构造时注入而非全局常量
type Registry struct {
	models map[string]config.Model
}

// NewRegistry 创建模型注册表，models为空时使用内置列表
func NewRegistry(models map[string]config.Model) *Registry {
	if len(models) == 0 {
		models = defaultModels
	}
	copied := make(map[string]config.Model, len(models))
	for key, model := range models {
		copied[key] = model
	}
	return &Registry{models: copied}
}

// Resolve 根据modelKey解析模型ID与名称
// 未注册的key按原样透传，允许直接指定后端模型ID
func (r *Registry) Resolve(modelKey string) (modelID, modelName string) {
	if model, ok := r.models[modelKey]; ok {
		return model.ID, model.Name
	}
	return modelKey, modelKey
}

// Keys 按字典序返回所有已注册的modelKey
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.models))
	for key := range r.models {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get 获取注册项
func (r *Registry) Get(modelKey string) (config.Model, bool) {
	model, ok := r.models[modelKey]
	return model, ok
}
