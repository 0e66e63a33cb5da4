package notifier

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/events"
	"github.com/dkoval/jobpilot/internal/logger"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Telegram pushes pipeline events to a single chat. One-directional: the bot
// never reads updates, it only announces.
type Telegram struct {
	api    apiInterface
	bus    EventBus.Bus
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	notifier := &Telegram{api: api, bus: bus, chatID: chatID}

	if err = bus.Subscribe(events.JobMatchedTopic, notifier.onJobMatched); err != nil {
		return nil, err
	}
	if err = bus.Subscribe(events.DocumentGeneratedTopic, notifier.onDocumentGenerated); err != nil {
		return nil, err
	}
	return notifier, nil
}

func (t *Telegram) Close() {
	t.bus.Unsubscribe(events.JobMatchedTopic, t.onJobMatched)
	t.bus.Unsubscribe(events.DocumentGeneratedTopic, t.onDocumentGenerated)
}

func (t *Telegram) onJobMatched(event events.JobMatched) {
	msg := botApi.NewMessage(t.chatID,
		fmt.Sprintf("High match (%.1f%%): %v at %v\nRecommended variant: %v",
			event.Overall, event.Title, event.Company, event.Variant))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}

func (t *Telegram) onDocumentGenerated(event events.DocumentGenerated) {
	msg := botApi.NewMessage(t.chatID,
		fmt.Sprintf("Resume generated for %v: %v", event.Company, event.ArtifactRef))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}
