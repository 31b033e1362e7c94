package season

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/apps"
	"f1dashbot/pkg/menus"
	"f1dashbot/pkg/model"
	"f1dashbot/pkg/settings"
	"f1dashbot/pkg/standings"
)

const (
	inlineKeyboardRace       = "Carrera"
	inlineKeyboardSprint     = "Sprint"
	inlineKeyboardQualifying = "Qualy"

	subcommandNotifications = "notifications"
	subcommandFavourite     = "favourite"
)

type SettingsApp struct {
	bot           *tgbotapi.BotAPI
	appMenu       menus.ApplicationMenu
	menuKeyboard  tgbotapi.ReplyKeyboardMarkup
	sm            *settings.Manager
	standingsMgr  *standings.Manager
	defaultSeason int
	mu            sync.Mutex
}

func NewSettingsApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, sm *settings.Manager, standingsMgr *standings.Manager, defaultSeason int) *SettingsApp {
	return &SettingsApp{
		bot:           bot,
		appMenu:       appMenu,
		sm:            sm,
		standingsMgr:  standingsMgr,
		defaultSeason: defaultSeason,
	}
}

func (sa *SettingsApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return sa.menuKeyboard
}

func (sa *SettingsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (sa *SettingsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] == subcommandNotifications && len(data) == 3 {
		sa.mu.Lock()
		defer sa.mu.Unlock()
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			userID := data[1]
			sessionKind := data[2]

			chatID, err := sa.chatID(ctx)
			if err != nil {
				return sa.sendProblem(query.Message.Chat.ID, "No se pudo leer información del chat")
			}

			err = sa.sm.ToggleNotificationForRoundFinished(userID, chatID, sessionKind)
			if err != nil {
				return sa.sendProblem(query.Message.Chat.ID, "No se pudo cambiar el estado de la notificación")
			}
			return sa.renderSettings(&query.Message.MessageID)(ctx, query.Message.Chat.ID)
		}
	} else if data[0] == subcommandFavourite && len(data) == 3 {
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			userID := data[1]
			season, _ := strconv.Atoi(data[2])

			chatID, err := sa.chatID(ctx)
			if err != nil {
				return sa.sendProblem(query.Message.Chat.ID, "No se pudo leer información del chat")
			}

			err = sa.sm.SetFavouriteSeason(userID, chatID, season)
			if err != nil {
				return sa.sendProblem(query.Message.Chat.ID, "No se pudo guardar la temporada favorita")
			}
			return sa.renderSettings(&query.Message.MessageID)(ctx, query.Message.Chat.ID)
		}
	}
	return false, nil
}

func (sa *SettingsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if button == buttonSettings {
		return true, sa.renderSettings(nil)
	} else if button == sa.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}
	}
	return false, nil
}

func (sa *SettingsApp) chatID(ctx context.Context) (string, error) {
	chatCtxValue := ctx.Value(apps.ChatContextKey)
	if chatCtxValue == nil {
		return "", fmt.Errorf("no chat in context")
	}
	chat := chatCtxValue.(*tgbotapi.Chat)
	return fmt.Sprintf("%d", chat.ID), nil
}

func (sa *SettingsApp) sendProblem(chatId int64, message string) error {
	msg := tgbotapi.NewMessage(chatId, message)
	msg.ReplyMarkup = sa.appMenu.PrevMenu()
	_, err := sa.bot.Send(msg)
	return err
}

func (sa *SettingsApp) renderSettings(messageID *int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		userCtxValue := ctx.Value(apps.UserContextKey)
		if userCtxValue == nil {
			return sa.sendProblem(chatId, "No se pudo leer el usuario")
		}
		user := userCtxValue.(*tgbotapi.User)
		userID := fmt.Sprintf("%d", user.ID)

		notificationStatus, err := sa.sm.ListNotifications(userID)
		if err != nil {
			log.Println(err)
			return sa.sendProblem(chatId, "No se pudieron leer las notificaciones del usuario")
		}

		favourite, err := sa.sm.FavouriteSeason(userID)
		if err != nil {
			log.Println(err)
			return sa.sendProblem(chatId, "No se pudo leer la temporada favorita")
		}

		displayed := sa.defaultSeason
		if matrix, ok := sa.standingsMgr.Current(); ok {
			displayed = matrix.Season
		}

		text := "Notificaciones de resultados\n"
		if favourite > 0 {
			text += fmt.Sprintf("\n⭐ Temporada favorita: %d", favourite)
		} else {
			text += "\n⭐ Sin temporada favorita"
		}
		keyboard := getSettingsInlineKeyboard(userID, notificationStatus, displayed)

		var cfg tgbotapi.Chattable
		if messageID == nil {
			msg := tgbotapi.NewMessage(chatId, text)
			msg.ReplyMarkup = keyboard
			cfg = msg
		} else {
			msg := tgbotapi.NewEditMessageText(chatId, *messageID, text)
			msg.ReplyMarkup = &keyboard
			cfg = msg
		}
		_, err = sa.bot.Send(cfg)
		return err
	}
}

func getSettingsInlineKeyboard(userID string, n settings.Notifications, displayedSeason int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardRace+" "+n.RaceSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, model.SessionRace)),
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardSprint+" "+n.SprintSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, model.SessionSprint)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardQualifying+" "+n.QualifyingSymbol(), fmt.Sprintf("%s:%s:%s", subcommandNotifications, userID, model.SessionQualifying)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⭐ Marcar %d como favorita", displayedSeason), fmt.Sprintf("%s:%s:%d", subcommandFavourite, userID, displayedSeason)),
		),
	)
}
