package races

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/menus"
	"f1dashbot/pkg/model"
	"f1dashbot/pkg/results"
	"f1dashbot/pkg/standings"
)

const (
	inlineKeyboardRace       = "Carrera"
	inlineKeyboardSprint     = "Sprint"
	inlineKeyboardQualifying = "Qualy"
	inlineKeyboardPole       = "Pole"

	symbolRace       = "🏁"
	symbolSprint     = "⚡️"
	symbolQualifying = "⏱"
	symbolPole       = "🥇"

	subcommandResults = "results"
)

var commandRound = regexp.MustCompile(`^\/resultados_(\d+)$`)

type Provider interface {
	GetSchedule(ctx context.Context, season int) ([]model.Event, error)
	GetRaceResults(ctx context.Context, season, round int) ([]model.RaceResult, error)
	GetSprintResults(ctx context.Context, season, round int) ([]model.RaceResult, error)
	GetQualifyingResults(ctx context.Context, season, round int) ([]model.QualifyingResult, error)
}

// RacesApp shows the session results of a completed round, switchable
// between race, sprint, qualifying and the pole position card.
type RacesApp struct {
	bot           *tgbotapi.BotAPI
	appMenu       menus.ApplicationMenu
	menuKeyboard  tgbotapi.ReplyKeyboardMarkup
	provider      Provider
	standingsMgr  *standings.Manager
	defaultSeason int
}

func NewRacesApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, provider Provider, standingsMgr *standings.Manager, defaultSeason int) *RacesApp {
	ra := &RacesApp{
		bot:           bot,
		appMenu:       appMenu,
		provider:      provider,
		standingsMgr:  standingsMgr,
		defaultSeason: defaultSeason,
	}

	ra.menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)

	return ra
}

func (ra *RacesApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return ra.menuKeyboard
}

func (ra *RacesApp) season() int {
	if matrix, ok := ra.standingsMgr.Current(); ok {
		return matrix.Season
	}
	return ra.defaultSeason
}

func (ra *RacesApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if commandRound.MatchString(command) {
		round, _ := strconv.Atoi(commandRound.FindStringSubmatch(command)[1])
		return true, func(ctx context.Context, chatId int64) error {
			return ra.renderResults(ctx, chatId, nil, ra.season(), round, model.SessionRace)
		}
	}
	return false, nil
}

func (ra *RacesApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == ra.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			return ra.renderRoundList(ctx, chatId)
		}
	} else if button == ra.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = ra.appMenu.PrevMenu()
			_, err := ra.bot.Send(msg)
			return err
		}
	}
	return false, nil
}

func (ra *RacesApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != subcommandResults || len(data) != 4 {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		kind := data[1]
		season, _ := strconv.Atoi(data[2])
		round, _ := strconv.Atoi(data[3])
		return ra.renderResults(ctx, query.Message.Chat.ID, &query.Message.MessageID, season, round, kind)
	}
}

func (ra *RacesApp) renderRoundList(ctx context.Context, chatId int64) error {
	season := ra.season()
	schedule, err := ra.provider.GetSchedule(ctx, season)
	if err != nil {
		log.Printf("Error fetching schedule: %s\n", err.Error())
		msg := tgbotapi.NewMessage(chatId, "No hay resultados disponibles")
		_, err := ra.bot.Send(msg)
		return err
	}

	now := time.Now()
	lines := []string{fmt.Sprintf("Elige ronda de la temporada %d:", season), ""}
	for _, event := range schedule {
		if !event.Date.Before(now) {
			continue
		}
		lines = append(lines, fmt.Sprintf(" ▸ %s (R%d) ➡ /resultados_%d", event.Name, event.Round, event.Round))
	}
	if len(lines) == 2 {
		lines = []string{"La temporada no tiene rondas completadas"}
	}

	msg := tgbotapi.NewMessage(chatId, strings.Join(lines, "\n"))
	msg.ReplyMarkup = ra.menuKeyboard
	_, err = ra.bot.Send(msg)
	return err
}

func (ra *RacesApp) renderResults(ctx context.Context, chatId int64, messageID *int, season, round int, kind string) error {
	event, found, err := ra.findEvent(ctx, season, round)
	if err != nil {
		log.Printf("Error fetching schedule: %s\n", err.Error())
	}
	if !found {
		msg := tgbotapi.NewMessage(chatId, "No hay resultados disponibles. Vuelve a probar")
		_, err := ra.bot.Send(msg)
		return err
	}

	text, err := ra.buildText(ctx, event, kind)
	if err != nil {
		log.Printf("Error fetching results for %s (R%d): %s\n", event.Name, round, err.Error())
		msg := tgbotapi.NewMessage(chatId, "No se pudieron leer los resultados")
		_, err := ra.bot.Send(msg)
		return err
	}

	keyboard := ra.resultsKeyboard(event)
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
	_, err = ra.bot.Send(cfg)
	return err
}

func (ra *RacesApp) findEvent(ctx context.Context, season, round int) (model.Event, bool, error) {
	schedule, err := ra.provider.GetSchedule(ctx, season)
	if err != nil {
		return model.Event{}, false, err
	}
	for _, event := range schedule {
		if event.Round == round {
			return event, true, nil
		}
	}
	return model.Event{}, false, nil
}

func (ra *RacesApp) buildText(ctx context.Context, event model.Event, kind string) (string, error) {
	switch kind {
	case model.SessionSprint:
		rs, err := ra.provider.GetSprintResults(ctx, event.Season, event.Round)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("```\nSprint de %s\n\n%s```", event.Name, results.RenderRaceTable(rs)), nil
	case model.SessionQualifying:
		qs, err := ra.provider.GetQualifyingResults(ctx, event.Season, event.Round)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("```\nClasificación de %s\n\n%s```", event.Name, results.RenderQualifyingTable(qs)), nil
	case inlineKeyboardPole:
		qs, err := ra.provider.GetQualifyingResults(ctx, event.Season, event.Round)
		if err != nil {
			return "", err
		}
		card, ok := results.RenderPoleCard(qs)
		if !ok {
			card = "No hay información de la pole"
		}
		return fmt.Sprintf("```\n%s```", card), nil
	default:
		rs, err := ra.provider.GetRaceResults(ctx, event.Season, event.Round)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("```\nCarrera de %s\n\n%s```", event.Name, results.RenderRaceTable(rs)), nil
	}
}

func (ra *RacesApp) resultsKeyboard(event model.Event) tgbotapi.InlineKeyboardMarkup {
	firstRow := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardRace+" "+symbolRace, fmt.Sprintf("%s:%s:%d:%d", subcommandResults, model.SessionRace, event.Season, event.Round)),
	}
	if event.HasSprint() {
		firstRow = append(firstRow, tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardSprint+" "+symbolSprint, fmt.Sprintf("%s:%s:%d:%d", subcommandResults, model.SessionSprint, event.Season, event.Round)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		firstRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardQualifying+" "+symbolQualifying, fmt.Sprintf("%s:%s:%d:%d", subcommandResults, model.SessionQualifying, event.Season, event.Round)),
			tgbotapi.NewInlineKeyboardButtonData(inlineKeyboardPole+" "+symbolPole, fmt.Sprintf("%s:%s:%d:%d", subcommandResults, inlineKeyboardPole, event.Season, event.Round)),
		),
	)
}
