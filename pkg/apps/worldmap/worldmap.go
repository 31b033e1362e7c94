package worldmap

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/circuits"
	"f1dashbot/pkg/menus"
	"f1dashbot/pkg/standings"
	"f1dashbot/pkg/trackmap"
)

const (
	subcommandPager = "circuits-pager"

	circuitsPerPage = 10
)

var commandCircuitID = regexp.MustCompile(`^\/circuito_([a-z0-9_]+)$`)

// WorldMapApp lists the circuits of a season and shows where each one is,
// whether it already hosted a round, and its track profile.
type WorldMapApp struct {
	bot           *tgbotapi.BotAPI
	appMenu       menus.ApplicationMenu
	menuKeyboard  tgbotapi.ReplyKeyboardMarkup
	circuitsMgr   *circuits.Manager
	trackMgr      *trackmap.Manager
	standingsMgr  *standings.Manager
	defaultSeason int
	mu            sync.Mutex
}

func NewWorldMapApp(bot *tgbotapi.BotAPI, appMenu menus.ApplicationMenu, circuitsMgr *circuits.Manager, trackMgr *trackmap.Manager, standingsMgr *standings.Manager, defaultSeason int) *WorldMapApp {
	wa := &WorldMapApp{
		bot:           bot,
		appMenu:       appMenu,
		circuitsMgr:   circuitsMgr,
		trackMgr:      trackMgr,
		standingsMgr:  standingsMgr,
		defaultSeason: defaultSeason,
	}

	wa.menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)

	return wa
}

func (wa *WorldMapApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return wa.menuKeyboard
}

func (wa *WorldMapApp) season() int {
	if matrix, ok := wa.standingsMgr.Current(); ok {
		return matrix.Season
	}
	return wa.defaultSeason
}

func (wa *WorldMapApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if commandCircuitID.MatchString(command) {
		circuitID := commandCircuitID.FindStringSubmatch(command)[1]
		return true, func(ctx context.Context, chatId int64) error {
			return wa.renderCircuit(ctx, chatId, circuitID)
		}
	}
	return false, nil
}

func (wa *WorldMapApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == wa.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("%s\n", wa.appMenu.Name))
			msg.ReplyMarkup = wa.menuKeyboard
			if _, err := wa.bot.Send(msg); err != nil {
				return err
			}
			return wa.renderPage(ctx, chatId, nil, 0)
		}
	} else if button == wa.appMenu.ButtonBackTo() {
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = wa.appMenu.PrevMenu()
			_, err := wa.bot.Send(msg)
			return err
		}
	}
	return false, nil
}

func (wa *WorldMapApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] == subcommandPager && len(data) == 3 {
		return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
			return wa.handlePager(ctx, query, data[1:]...)
		}
	}
	return false, nil
}

func (wa *WorldMapApp) handlePager(ctx context.Context, query *tgbotapi.CallbackQuery, data ...string) error {
	pagerType := data[0]
	currentPage, _ := strconv.Atoi(data[1])

	switch pagerType {
	case "next":
		return wa.renderPage(ctx, query.Message.Chat.ID, &query.Message.MessageID, currentPage+1)
	case "prev":
		return wa.renderPage(ctx, query.Message.Chat.ID, &query.Message.MessageID, currentPage-1)
	}
	return nil
}

func (wa *WorldMapApp) renderPage(ctx context.Context, chatId int64, messageID *int, page int) error {
	wa.mu.Lock()
	defer wa.mu.Unlock()

	season := wa.season()
	markers, err := wa.circuitsMgr.GetMarkers(ctx, season)
	if err != nil {
		log.Printf("Error fetching circuits: %s\n", err.Error())
		msg := tgbotapi.NewMessage(chatId, "No hay circuitos disponibles")
		_, err := wa.bot.Send(msg)
		return err
	}

	maxPages := (len(markers) + circuitsPerPage - 1) / circuitsPerPage
	if page < 0 || page >= maxPages {
		return nil
	}

	text, keyboard := circuitsTextMarkup(season, markers, page)

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
	_, err = wa.bot.Send(cfg)
	return err
}

func circuitsTextMarkup(season int, markers []circuits.Marker, page int) (string, tgbotapi.InlineKeyboardMarkup) {
	start := page * circuitsPerPage
	end := start + circuitsPerPage
	if end > len(markers) {
		end = len(markers)
	}

	lines := []string{fmt.Sprintf("Circuitos de la temporada %d:", season), ""}
	for _, marker := range markers[start:end] {
		status := "⚪️"
		if marker.Active {
			status = "🔴"
		}
		lines = append(lines, fmt.Sprintf("%s %s (%s) ➡ /circuito_%s", status, marker.Name, marker.Country, marker.ID))
	}
	text := strings.Join(lines, "\n")

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Anterior", fmt.Sprintf("%s:prev:%d", subcommandPager, page)))
	}
	if end < len(markers) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Siguiente", fmt.Sprintf("%s:next:%d", subcommandPager, page)))
	}
	if len(row) == 0 {
		return text, tgbotapi.NewInlineKeyboardMarkup()
	}
	return text, tgbotapi.NewInlineKeyboardMarkup(row)
}

func (wa *WorldMapApp) renderCircuit(ctx context.Context, chatId int64, circuitID string) error {
	season := wa.season()
	marker, found, err := wa.circuitsMgr.GetMarkerByID(ctx, season, circuitID)
	if err != nil {
		log.Printf("Error fetching circuit %q: %s\n", circuitID, err.Error())
		found = false
	}
	if !found {
		msg := tgbotapi.NewMessage(chatId, "No hay información del circuito. Vuelve a probar")
		_, err := wa.bot.Send(msg)
		return err
	}

	message := marker.HoverText
	if marker.Active {
		profile, err := wa.trackMgr.GetProfile(ctx, season, marker.Round)
		if err != nil {
			log.Printf("Error building track profile for %q: %s\n", circuitID, err.Error())
		} else {
			message += fmt.Sprintf("\n\n⛰ Altitud: %.0f m - %.0f m (desnivel acumulado %.0f m)", profile.Min, profile.Max, profile.Gain)
		}
	}

	msg := tgbotapi.NewMessage(chatId, message)
	if _, err := wa.bot.Send(msg); err != nil {
		return err
	}

	if marker.Active {
		return wa.sendLayout(ctx, chatId, season, marker)
	}
	return nil
}

// sendLayout attaches the rendered track outline as a photo.
func (wa *WorldMapApp) sendLayout(ctx context.Context, chatId int64, season int, marker circuits.Marker) error {
	path, err := wa.trackMgr.GetLayoutPNG(ctx, season, marker.Round)
	if err != nil {
		log.Printf("Error rendering track layout for %q: %s\n", marker.ID, err.Error())
		return nil
	}
	photo := tgbotapi.NewPhoto(chatId, tgbotapi.FilePath(path))
	photo.Caption = marker.Name
	_, err = wa.bot.Send(photo)
	return err
}
