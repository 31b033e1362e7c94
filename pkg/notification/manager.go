package notification

import (
	"context"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikoksr/notify"

	"f1dashbot/pkg/model"
	"f1dashbot/pkg/pubsub"
	"f1dashbot/pkg/queues"
	"f1dashbot/pkg/settings"
)

const retryInterval = 5 * time.Minute

type Lister interface {
	ListUsersForRoundFinished(sessionKind string) ([]settings.TelegramUser, error)
}

// Manager pushes a message to subscribed users whenever a round's results
// become available. Failed deliveries are queued and retried.
type Manager struct {
	ctx     context.Context
	lister  Lister
	bot     *tgbotapi.BotAPI
	pending *queues.Queue[model.RoundFinished]
}

func NewManager(ctx context.Context, bot *tgbotapi.BotAPI, lister Lister) *Manager {
	return &Manager{
		ctx:     ctx,
		bot:     bot,
		lister:  lister,
		pending: queues.NewQueue[model.RoundFinished](),
	}
}

func (m *Manager) Start(exitChan <-chan bool) {
	finishedChan := pubsub.RoundFinishedPubSub.Subscribe(pubsub.RoundFinishedTopic)
	retryTicker := time.NewTicker(retryInterval)
	defer retryTicker.Stop()
	for {
		select {
		case <-exitChan:
			return
		case round := <-finishedChan:
			log.Printf("Round finished: %s (R%d, %d)\n", round.EventName, round.Round, round.Season)
			m.handleNotification(round)
		case <-retryTicker.C:
			m.retryPending()
		}
	}
}

func (m *Manager) handleNotification(round model.RoundFinished) {
	recipients, err := m.lister.ListUsersForRoundFinished(round.SessionKind())
	if err != nil {
		log.Printf("Error listing users for round finished: %s", err.Error())
		m.pending.Push(round)
		return
	}
	log.Printf("Sending notification for %s to %d telegram users\n", round.EventName, len(recipients))
	err = m.sendNotification(recipients, round)
	if err != nil {
		log.Printf("Error notifying users: %s", err.Error())
		m.pending.Push(round)
	}
}

func (m *Manager) retryPending() {
	for !m.pending.IsEmpty() {
		round := m.pending.Pop()
		recipients, err := m.lister.ListUsersForRoundFinished(round.SessionKind())
		if err == nil {
			err = m.sendNotification(recipients, round)
		}
		if err != nil {
			log.Printf("Error retrying notification for %s: %s", round.EventName, err.Error())
			m.pending.Push(round)
			return
		}
	}
}

func (m *Manager) sendNotification(tusers []settings.TelegramUser, round model.RoundFinished) error {
	if len(tusers) == 0 {
		return nil
	}

	tg := Telegram{}
	tg.SetClient(m.bot)

	for _, tuser := range tusers {
		chatId, _ := strconv.ParseInt(tuser.ChatID, 0, 64)
		tg.AddReceivers(chatId)
	}

	n := notify.NewWithServices(&tg)
	err := n.Send(m.ctx, "Resultados disponibles:", round.String())
	if err != nil {
		return err
	}
	return nil
}
