//go:build wireinject
// +build wireinject

package wire

import (
	"log/slog"

	"github.com/google/wire"

	"gocoach/internal/chat/repository"
	"gocoach/internal/chat/service"
	"gocoach/internal/common"
	"gocoach/internal/config"
	"gocoach/internal/dbmysql"
	"gocoach/internal/meeting"
	"gocoach/internal/notif"
	"gocoach/internal/realtime"
)

func InitializeApplication(cfg *config.Config, log *slog.Logger) (*Application, error) {
	wire.Build(
		dbmysql.NewMySQL,
		ProvideTokenVerifier,

		repository.NewConversationRepository,
		repository.NewChatRepository,
		meeting.NewMeetingRepository,
		meeting.NewRequestDirectory,
		meeting.NewUserDirectory,

		realtime.NewHub,
		ProvideGateway,
		ProvideNotificationService,

		service.NewConversationRegistry,
		service.NewChatService,
		ProvideChatHandler,

		meeting.NewPartyLocker,
		ProvideBookingOptions,
		meeting.NewBookingService,
		ProvideMeetingHandler,

		wire.Bind(new(realtime.Membership), new(repository.ConversationRepository)),
		wire.Bind(new(realtime.UnreadCounter), new(repository.ChatRepository)),
		wire.Bind(new(realtime.MessageService), new(service.ChatService)),
		wire.Bind(new(service.Notifier), new(*realtime.Hub)),
		wire.Bind(new(service.UserLookup), new(meeting.UserDirectory)),
		wire.Bind(new(notif.MeetingDelivery), new(*realtime.Hub)),
		wire.Bind(new(common.EventPublisher), new(*notif.NotificationService)),

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
