package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	buttonBackTo = "Volver a"
)

// Menuer is implemented by apps whose keyboard can change over time, so the
// back button always restores the current version of the parent menu.
type Menuer interface {
	Menu() tgbotapi.ReplyKeyboardMarkup
}

type ApplicationMenu struct {
	Name string
	From string
	prev Menuer
}

func NewApplicationMenu(name, from string, prev Menuer) ApplicationMenu {
	return ApplicationMenu{
		Name: name,
		From: from,
		prev: prev,
	}
}

func (am *ApplicationMenu) ButtonBackTo() string {
	return buttonBackTo + " " + am.From
}

func (am *ApplicationMenu) PrevMenu() tgbotapi.ReplyKeyboardMarkup {
	return am.prev.Menu()
}
