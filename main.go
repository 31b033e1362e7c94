package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1dashbot/pkg/apps"
	"f1dashbot/pkg/apps/mainapp"
	"f1dashbot/pkg/circuits"
	"f1dashbot/pkg/config"
	"f1dashbot/pkg/ergast"
	"f1dashbot/pkg/notification"
	"f1dashbot/pkg/pubsub"
	"f1dashbot/pkg/settings"
	"f1dashbot/pkg/standings"
	"f1dashbot/pkg/trackmap"
	"f1dashbot/pkg/webserver"
)

var (
	bot *tgbotapi.BotAPI
	app *mainapp.MainApp
)

func main() {
	var err error
	configPath := flag.String("config", "./config.yml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Panic(err)
	}

	// get token from env
	token := os.Getenv("TELEGRAM_TOKEN")
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		// Abort if something is wrong
		log.Panic(err)
	}

	// Set this to true to log all interactions with telegram servers
	bot.Debug = false

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	// Create a new cancellable background context. Calling `cancel()` leads to the cancellation of the context
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	settingsMgr, err := settings.NewManager(cfg.Database.Path)
	if err != nil {
		log.Panic(err)
	}
	defer settingsMgr.Close()

	pubsubMgr := pubsub.NewPubSub()

	client := ergast.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout)
	aggregator := standings.NewAggregator(client)
	standingsMgr := standings.NewManager(ctx, aggregator, pubsubMgr)
	circuitsMgr := circuits.NewManager(client)
	trackMgr := trackmap.NewManager(cfg.Provider.TelemetryURL)

	exitChan := make(chan bool)
	// one ticker per manager: a shared ticker would deliver each tick to
	// only one of the Sync loops
	standingsTicker := time.NewTicker(cfg.Refresh.Interval)
	circuitsTicker := time.NewTicker(cfg.Refresh.Interval)
	standingsMgr.Sync(standingsTicker, exitChan)
	circuitsMgr.Sync(circuitsTicker, exitChan)

	notificationMgr := notification.NewManager(ctx, bot, settingsMgr)
	go notificationMgr.Start(exitChan)

	ws := webserver.NewManager(standingsMgr, circuitsMgr, trackMgr, client, pubsubMgr)
	ws.Serve(cfg.Webserver.Address)

	app = mainapp.NewMainApp(ctx, bot, client, standingsMgr, circuitsMgr, trackMgr, settingsMgr, cfg.Refresh.DefaultSeason)

	// `updates` is a golang channel which receives telegram updates
	updates := bot.GetUpdatesChan(u)

	// Pass cancellable context to goroutine
	go receiveUpdates(ctx, updates)

	// Tell the user the bot is online
	log.Println("Start listening for updates. Press Ctrl-C to stop it")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// lock the main thread until we receive a signal
	<-sigs

	standingsTicker.Stop()
	circuitsTicker.Stop()
	close(exitChan)
	ws.Shutdown()

	cancel()
}

func receiveUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	// `for {` means the loop is infinite until we manually stop it
	for {
		select {
		// stop looping if ctx is cancelled
		case <-ctx.Done():
			return
		// receive update from channel and then handle it
		case update := <-updates:
			handleUpdate(ctx, update)
		}
	}
}

func handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	// Handle messages
	case update.Message != nil:
		handleMessage(ctx, update.Message)
	// Handle button clicks
	case update.CallbackQuery != nil:
		handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func handleMessage(ctx context.Context, message *tgbotapi.Message) {
	user := message.From
	text := message.Text

	if user == nil {
		return
	}

	// Print to console
	log.Printf("%s wrote %s", user.FirstName, text)

	ctx = context.WithValue(ctx, apps.UserContextKey, user)
	ctx = context.WithValue(ctx, apps.ChatContextKey, message.Chat)

	var err error
	if message.IsCommand() {
		err = handleCommand(ctx, message.Chat.ID, text)
	} else {
		err = handleButton(ctx, message.Chat.ID, text)
	}

	if err != nil {
		log.Printf("An error occured: %s", err.Error())
	}
}

// When we get a command, we react accordingly
func handleCommand(ctx context.Context, chatId int64, command string) error {
	accept, handler := app.AcceptCommand(command)
	if accept {
		return handler(ctx, chatId)
	}
	return nil
}

func handleButton(ctx context.Context, chatId int64, button string) error {
	accept, handler := app.AcceptButton(button)
	if accept {
		return handler(ctx, chatId)
	}
	return nil
}

func handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From != nil {
		ctx = context.WithValue(ctx, apps.UserContextKey, query.From)
	}
	if query.Message != nil {
		ctx = context.WithValue(ctx, apps.ChatContextKey, query.Message.Chat)
	}

	accept, handler := app.AcceptCallback(query)
	if !accept {
		return
	}
	if err := handler(ctx, query); err != nil {
		log.Printf("An error occured: %s", err.Error())
	}
}
