package season

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"f1dashbot/pkg/apps"
	"f1dashbot/pkg/menus"
	"f1dashbot/pkg/settings"
	"f1dashbot/pkg/standings"
)

const (
	seasonAppName  = "Clasificación"
	buttonSettings = "Ajustes"

	subcommandSeason = "standings-season"
	subcommandRound  = "standings-round"

	roundButtonsPerRow = 5
)

// SeasonApp shows the championship matrix for a season: the totals table
// plus one table per completed round, switchable with inline buttons.
type SeasonApp struct {
	bot           *tgbotapi.BotAPI
	appMenu       menus.ApplicationMenu
	menuKeyboard  tgbotapi.ReplyKeyboardMarkup
	sm            *standings.Manager
	settingsMgr   *settings.Manager
	defaultSeason int
	accepters     []apps.Accepter
}

func NewSeasonApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, sm *standings.Manager, settingsMgr *settings.Manager, defaultSeason int) *SeasonApp {
	sa := &SeasonApp{
		bot:           bot,
		appMenu:       appMenu,
		sm:            sm,
		settingsMgr:   settingsMgr,
		defaultSeason: defaultSeason,
	}

	sa.menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
			tgbotapi.NewKeyboardButton(buttonSettings),
		),
	)

	settingsAppMenu := menus.NewApplicationMenu(buttonSettings, seasonAppName, sa)
	settingsApp := NewSettingsApp(bot, settingsAppMenu, settingsMgr, sm, defaultSeason)
	sa.accepters = []apps.Accepter{settingsApp}

	return sa
}

func (sa *SeasonApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return sa.menuKeyboard
}

func (sa *SeasonApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range sa.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (sa *SeasonApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == sa.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			return sa.renderStandings(ctx, chatId, nil, sa.seasonForUser(ctx))
		}
	} else if button == sa.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			_, err := sa.bot.Send(msg)
			return err
		}
	}
	for _, accepter := range sa.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (sa *SeasonApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	// callback data arrives from outside; malformed payloads are not ours
	data := strings.Split(query.Data, ":")
	switch data[0] {
	case subcommandSeason:
		if len(data) != 2 {
			return false, nil
		}
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			season, _ := strconv.Atoi(data[1])
			return sa.renderStandings(ctx, query.Message.Chat.ID, &query.Message.MessageID, season)
		}
	case subcommandRound:
		if len(data) != 3 {
			return false, nil
		}
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			season, _ := strconv.Atoi(data[1])
			round, _ := strconv.Atoi(data[2])
			return sa.renderRound(ctx, query.Message.Chat.ID, query.Message.MessageID, season, round)
		}
	}
	for _, accepter := range sa.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

// seasonForUser opens on the user's favourite season when one is stored.
func (sa *SeasonApp) seasonForUser(ctx context.Context) int {
	userCtxValue := ctx.Value(apps.UserContextKey)
	if userCtxValue != nil {
		user := userCtxValue.(*tgbotapi.User)
		favourite, err := sa.settingsMgr.FavouriteSeason(fmt.Sprintf("%d", user.ID))
		if err != nil {
			log.Printf("Error reading favourite season: %s\n", err.Error())
		} else if favourite > 0 {
			return favourite
		}
	}
	if matrix, ok := sa.sm.Current(); ok {
		return matrix.Season
	}
	return sa.defaultSeason
}

func (sa *SeasonApp) matrixFor(ctx context.Context, season int) (standings.Matrix, bool, error) {
	if matrix, ok := sa.sm.Current(); ok && matrix.Season == season {
		return matrix, true, nil
	}
	matrix, err := sa.sm.Select(ctx, season)
	if errors.Is(err, standings.ErrStale) {
		// a newer selection won; drop this render
		return standings.Matrix{}, false, nil
	}
	if err != nil {
		return standings.Matrix{}, false, err
	}
	return matrix, true, nil
}

func (sa *SeasonApp) renderStandings(ctx context.Context, chatId int64, messageID *int, season int) error {
	matrix, ok, err := sa.matrixFor(ctx, season)
	if err != nil {
		log.Printf("Error aggregating standings: %s\n", err.Error())
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("No se pudo calcular la clasificación de %d", season))
		_, err := sa.bot.Send(msg)
		return err
	}
	if !ok {
		return nil
	}

	var text string
	if matrix.IsEmpty() {
		text = fmt.Sprintf("La temporada %d no tiene rondas completadas", matrix.Season)
	} else {
		text = fmt.Sprintf("```\nTemporada %d\n\n%s```", matrix.Season, matrix.RenderTotalsTable())
	}
	return sa.send(chatId, messageID, text, sa.standingsKeyboard(matrix))
}

func (sa *SeasonApp) renderRound(ctx context.Context, chatId int64, messageID int, season, round int) error {
	matrix, ok, err := sa.matrixFor(ctx, season)
	if err != nil {
		log.Printf("Error aggregating standings: %s\n", err.Error())
		return err
	}
	if !ok {
		return nil
	}

	table, found := matrix.RenderRoundTable(round)
	if !found {
		return sa.renderStandings(ctx, chatId, &messageID, season)
	}
	text := fmt.Sprintf("```\n%s```", table)
	return sa.send(chatId, &messageID, text, sa.standingsKeyboard(matrix))
}

func (sa *SeasonApp) send(chatId int64, messageID *int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	var cfg tgbotapi.Chattable
	if messageID == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.ReplyMarkup = keyboard
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageID, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.ReplyMarkup = &keyboard
		cfg = msg
	}
	_, err := sa.bot.Send(cfg)
	return err
}

// standingsKeyboard offers the previous/next season and one button per
// completed round.
func (sa *SeasonApp) standingsKeyboard(matrix standings.Matrix) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	seasonRow := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("« %d", matrix.Season-1), fmt.Sprintf("%s:%d", subcommandSeason, matrix.Season-1)),
		tgbotapi.NewInlineKeyboardButtonData("Total", fmt.Sprintf("%s:%d", subcommandSeason, matrix.Season)),
	}
	if matrix.Season < time.Now().Year() {
		seasonRow = append(seasonRow, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d »", matrix.Season+1), fmt.Sprintf("%s:%d", subcommandSeason, matrix.Season+1)))
	}
	rows = append(rows, seasonRow)

	for idx, round := range matrix.Rounds {
		if idx%roundButtonsPerRow == 0 {
			rows = append(rows, []tgbotapi.InlineKeyboardButton{})
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("R%d", round),
			fmt.Sprintf("%s:%d:%d", subcommandRound, matrix.Season, round),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
