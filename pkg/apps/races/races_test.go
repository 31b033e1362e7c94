package races

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/menus"
)

type staticMenu struct{}

func (staticMenu) Menu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard()
}

func TestAcceptCallbackRejectsTruncatedData(t *testing.T) {
	appMenu := menus.NewApplicationMenu("Resultados", "menu", staticMenu{})
	app := NewRacesApp(nil, appMenu, nil, nil, 2024)

	for _, data := range []string{"results", "results:race", "results:race:2024"} {
		if accept, _ := app.AcceptCallback(&tgbotapi.CallbackQuery{Data: data}); accept {
			t.Errorf("truncated callback %q must not be accepted", data)
		}
	}

	if accept, _ := app.AcceptCallback(&tgbotapi.CallbackQuery{Data: "results:race:2024:1"}); !accept {
		t.Error("well-formed results callback must be accepted")
	}
}
