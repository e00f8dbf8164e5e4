package wire

import (
	"log/slog"

	"gorm.io/gorm"

	"gocoach/internal/chat/handler"
	"gocoach/internal/chat/service"
	"gocoach/internal/common"
	"gocoach/internal/config"
	"gocoach/internal/meeting"
	"gocoach/internal/notif"
	"gocoach/internal/realtime"
)

// Application is everything cmd needs to serve and to shut down.
type Application struct {
	Config         *config.Config
	Log            *slog.Logger
	DB             *gorm.DB
	Verifier       *common.TokenVerifier
	MeetingHandler *meeting.Handler
	ChatHandler    *handler.ChatHandler
	Gateway        *realtime.Gateway
	Hub            *realtime.Hub
	Notifications  *notif.NotificationService
}

func ProvideTokenVerifier(cfg *config.Config) *common.TokenVerifier {
	return common.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
}

func ProvideBookingOptions(cfg *config.Config) meeting.Options {
	return meeting.Options{OneMeetingPerRequest: cfg.Booking.OneMeetingPerRequest}
}

// ProvideNotificationService fans meeting events out to connected parties and the audit log.
func ProvideNotificationService(cfg *config.Config, hub notif.MeetingDelivery, log *slog.Logger) *notif.NotificationService {
	manager := notif.NewNotificationManager(cfg.Realtime.EventBuffer, log)
	return notif.NewNotificationService(manager, log,
		notif.NewRealtimeObserver(hub),
		notif.NewLogObserver(log),
	)
}

func ProvideGateway(cfg *config.Config, hub *realtime.Hub, chat realtime.MessageService, verifier *common.TokenVerifier, log *slog.Logger) *realtime.Gateway {
	return realtime.NewGateway(hub, chat, verifier, cfg.Realtime, log)
}

func ProvideMeetingHandler(cfg *config.Config, svc meeting.BookingService, log *slog.Logger) *meeting.Handler {
	return meeting.NewHandler(svc, cfg.Paging.MeetingPageSize, cfg.Paging.MaxPageSize, log)
}

func ProvideChatHandler(cfg *config.Config, chat service.ChatService, registry service.ConversationRegistry, log *slog.Logger) *handler.ChatHandler {
	return handler.NewChatHandler(chat, registry, cfg.Paging.ChatPageSize, cfg.Paging.MaxPageSize, log)
}
