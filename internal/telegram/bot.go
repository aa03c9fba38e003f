// Package telegram 实现查询与播报机器人
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/config"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
)

// Bot Telegram机器人
type Bot struct {
	api           *tgbotapi.BotAPI
	cfg           *config.Telegram
	store         database.Store
	aiSvc         *ai.Service
	updateChannel tgbotapi.UpdatesChannel
	stopChannel   chan bool
}

// NewBot 创建新的Telegram机器人
func NewBot(cfg *config.Telegram, store database.Store, aiSvc *ai.Service) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}

	bot.Debug = false
	logger.Infof("Telegram bot authorized on account: %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.Timeout.Seconds())
	updates := bot.GetUpdatesChan(u)

	return &Bot{
		api:           bot,
		cfg:           cfg,
		store:         store,
		aiSvc:         aiSvc,
		updateChannel: updates,
		stopChannel:   make(chan bool),
	}, nil
}

// Start 启动机器人
func (b *Bot) Start() {
	logger.Info("Starting Telegram bot...")
	go b.handleUpdates()
	logger.Info("Telegram bot started successfully")
}

// Stop 停止机器人
func (b *Bot) Stop() {
	logger.Info("Stopping Telegram bot...")
	b.stopChannel <- true
	b.api.StopReceivingUpdates()
	logger.Info("Telegram bot stopped")
}

// handleUpdates 处理更新
func (b *Bot) handleUpdates() {
	for {
		select {
		case update := <-b.updateChannel:
			if update.Message != nil {
				// 只处理私聊消息，忽略群组消息
				if update.Message.Chat.IsPrivate() {
					go b.handleMessage(update.Message)
				}
			}
		case <-b.stopChannel:
			return
		}
	}
}

// handleMessage 处理消息
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}

	if message.IsCommand() {
		b.handleCommand(message)
	}
}

// handleCommand 处理命令
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	logger.Debugf("Received private command: %s from user: %d", command, chatID)

	switch command {
	case "start":
		b.handleStartCommand(chatID)
	case "help":
		b.handleHelpCommand(chatID)
	case "latest":
		b.handleLatestCommand(chatID)
	case "predictions":
		b.handlePredictionsCommand(chatID)
	case "stats":
		b.handleStatsCommand(chatID)
	default:
		b.sendMessage(chatID, "Lệnh không hợp lệ. Gõ /help để xem danh sách lệnh.")
	}
}

// handleStartCommand 处理开始命令
func (b *Bot) handleStartCommand(chatID int64) {
	welcomeText := `🎰 Chào mừng đến với Bot Xổ Số Miền Bắc!

🤖 Bot cung cấp:
• 📊 Kết quả xổ số mới nhất
• 🔮 Dự đoán lô tô bằng AI
• 📈 Thống kê tỉ lệ trúng của từng model

📝 Các lệnh:
/latest - Kết quả mới nhất
/predictions - Dự đoán hôm nay
/stats - Thống kê model
/help - Trợ giúp

⚠️ Bot chỉ hoạt động trong chat riêng tư
🔔 Kết quả mỗi ngày sẽ được gửi tự động sau giờ quay!`

	b.sendMessage(chatID, welcomeText)
}

// handleHelpCommand 处理帮助命令
func (b *Bot) handleHelpCommand(chatID int64) {
	helpText := `📖 Danh sách lệnh:

/start - Bắt đầu sử dụng bot
/latest - Kết quả xổ số mới nhất
/predictions - Dự đoán của các model hôm nay
/stats - Thống kê tỉ lệ trúng
/help - Hiển thị trợ giúp

💡 Lưu ý:
• Mỗi model chỉ dự đoán 1 lần mỗi ngày
• Dự đoán chỉ mang tính tham khảo, hãy chơi có trách nhiệm`

	b.sendMessage(chatID, helpText)
}

// handleLatestCommand 处理最新开奖命令
func (b *Bot) handleLatestCommand(chatID int64) {
	results, err := b.store.GetRecentResults(1)
	if err != nil || len(results) == 0 {
		b.sendMessage(chatID, "❌ Chưa có dữ liệu xổ số. Vui lòng thử lại sau.")
		if err != nil {
			logger.Errorf("Failed to get latest result: %v", err)
		}
		return
	}

	b.sendMessage(chatID, b.formatResultMessage(&results[0]))
}

// handlePredictionsCommand 处理当日预测命令
func (b *Bot) handlePredictionsCommand(chatID int64) {
	predictions, err := b.aiSvc.TodayPredictions()
	if err != nil {
		b.sendMessage(chatID, "❌ Không lấy được dự đoán. Vui lòng thử lại sau.")
		logger.Errorf("Failed to get today predictions: %v", err)
		return
	}

	b.sendMessage(chatID, b.formatPredictionsMessage(predictions))
}

// handleStatsCommand 处理统计命令
func (b *Bot) handleStatsCommand(chatID int64) {
	statistics, err := b.aiSvc.ModelStatistics()
	if err != nil {
		b.sendMessage(chatID, "❌ Không lấy được thống kê. Vui lòng thử lại sau.")
		logger.Errorf("Failed to get model statistics: %v", err)
		return
	}

	b.sendMessage(chatID, b.formatStatsMessage(statistics))
}

// BroadcastDaily 向配置的频道推送当日开奖与评估结果
func (b *Bot) BroadcastDaily(result *database.DrawResult, predictions []database.Prediction) {
	if len(b.cfg.BroadcastChatIDs) == 0 {
		return
	}

	message := b.formatDailyBroadcast(result, predictions)
	for _, chatID := range b.cfg.BroadcastChatIDs {
		b.sendMessage(chatID, message)
	}
	logger.Infof("Daily broadcast sent to %d chats", len(b.cfg.BroadcastChatIDs))
}

// sendMessage 发送Markdown消息
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		logger.Errorf("Failed to send telegram message to %d: %v", chatID, err)
	}
}
