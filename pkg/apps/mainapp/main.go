package mainapp

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/apps"
	"f1dashbot/pkg/apps/races"
	"f1dashbot/pkg/apps/season"
	"f1dashbot/pkg/apps/worldmap"
	"f1dashbot/pkg/circuits"
	"f1dashbot/pkg/ergast"
	"f1dashbot/pkg/menus"
	"f1dashbot/pkg/settings"
	"f1dashbot/pkg/standings"
	"f1dashbot/pkg/trackmap"
)

const (
	menuStart       = "/start"
	menuMenu        = "/menu"
	buttonStandings = "Clasificación"
	buttonCircuits  = "Circuitos"
	buttonResults   = "Resultados"
	appName         = "menu"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonStandings),
			tgbotapi.NewKeyboardButton(buttonCircuits),
			tgbotapi.NewKeyboardButton(buttonResults),
		),
	)
)

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	bot       *tgbotapi.BotAPI
	accepters []apps.Accepter
}

func NewMainApp(ctx context.Context, bot *tgbotapi.BotAPI, client *ergast.Client, standingsMgr *standings.Manager, circuitsMgr *circuits.Manager, trackMgr *trackmap.Manager, sm *settings.Manager, defaultSeason int) *MainApp {
	seasonAppMenu := menus.NewApplicationMenu(buttonStandings, appName, menuer{})
	seasonApp := season.NewSeasonApp(bot, seasonAppMenu, standingsMgr, sm, defaultSeason)

	worldMapAppMenu := menus.NewApplicationMenu(buttonCircuits, appName, menuer{})
	worldMapApp := worldmap.NewWorldMapApp(bot, worldMapAppMenu, circuitsMgr, trackMgr, standingsMgr, defaultSeason)

	racesAppMenu := menus.NewApplicationMenu(buttonResults, appName, menuer{})
	racesApp := races.NewRacesApp(bot, racesAppMenu, client, standingsMgr, defaultSeason)

	accepters := []apps.Accepter{seasonApp, worldMapApp, racesApp}

	return &MainApp{
		bot:       bot,
		accepters: accepters,
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hola, soy el bot de estadísticas de F1: clasificación del campeonato, circuitos y resultados por ronda.\n\n"
		message += "Puedes usar el siguiente comando:\n\n"
		message += fmt.Sprintf("%s - Muestra el menú del bot\n", menuMenu)
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Menú del bot.\n\n"
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}
