package season

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/menus"
)

type staticMenu struct{}

func (staticMenu) Menu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard()
}

func newTestSeasonApp() *SeasonApp {
	appMenu := menus.NewApplicationMenu("Clasificación", "menu", staticMenu{})
	return NewSeasonApp(nil, appMenu, nil, nil, 2024)
}

func TestAcceptCallbackRejectsTruncatedData(t *testing.T) {
	app := newTestSeasonApp()

	truncated := []string{
		"standings-season",
		"standings-round",
		"standings-round:2024",
		"notifications",
		"notifications:42",
		"favourite:42",
	}
	for _, data := range truncated {
		if accept, _ := app.AcceptCallback(&tgbotapi.CallbackQuery{Data: data}); accept {
			t.Errorf("truncated callback %q must not be accepted", data)
		}
	}
}

func TestAcceptCallbackAcceptsWellFormedData(t *testing.T) {
	app := newTestSeasonApp()

	wellFormed := []string{
		"standings-season:2024",
		"standings-round:2024:3",
		"notifications:42:race",
		"favourite:42:2023",
	}
	for _, data := range wellFormed {
		if accept, _ := app.AcceptCallback(&tgbotapi.CallbackQuery{Data: data}); !accept {
			t.Errorf("callback %q must be accepted", data)
		}
	}
}
