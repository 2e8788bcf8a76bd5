package main

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// NewMQTTClient připraví klienta s automatickým reconnectem.
// Odběr měření se obnovuje v OnConnect, takže přežije i restart brokera bez persistence.
// ConnectRetry nezapínáme: první Connect() má při nedostupném brokeru selhat, ne viset.
func NewMQTTClient(cfg Config, readings *ReadingSubscription) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		readings.OnConnect(c)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		readings.logger().Warn("Spojení s MQTT ztraceno", "error", err)
	}

	return mqtt.NewClient(opts)
}

// HandleMessage zpracuje jednu zprávu z INPUT_TOPIC stejně jako HTTP POST.
// Neplatnou zprávu jen zalogujeme a zahodíme, službu neukončujeme.
func HandleMessage(ctx context.Context, ing *Ingestor, logger *slog.Logger, msg mqtt.Message) {
	if _, err := ing.Ingest(ctx, bytes.NewReader(msg.Payload())); err != nil {
		logger.Warn("Zpráva odmítnuta", "topic", msg.Topic(), "důvod", err)
		return
	}
	logger.Debug("Zpráva z MQTT uložena", "topic", msg.Topic())
}

// subscriber je ta část mqtt.Client, kterou odběr potřebuje.
type subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// ReadingSubscription drží odběr INPUT_TOPIC.
//
// MQTT klient vzniká dřív než logger a ingestor (logy se zrcadlí do MQTT),
// proto se handler doplní až ve Start. Do té doby OnConnect nic neodebírá.
type ReadingSubscription struct {
	topic string

	mu      sync.Mutex
	handler mqtt.MessageHandler
	log     *slog.Logger
}

func NewReadingSubscription(topic string) *ReadingSubscription {
	return &ReadingSubscription{topic: topic}
}

// Start zapojí ingestor a hned se přihlásí k odběru.
func (s *ReadingSubscription) Start(ctx context.Context, client subscriber, ing *Ingestor, logger *slog.Logger) error {
	s.mu.Lock()
	s.log = logger
	s.handler = func(_ mqtt.Client, msg mqtt.Message) {
		// Každá zpráva má vlastní timeout, aby pomalý backend nezablokoval paho router.
		msgCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		HandleMessage(msgCtx, ing, logger, msg)
	}
	s.mu.Unlock()

	return s.subscribe(client)
}

// OnConnect obnoví odběr po (re)connectu. Před Start nedělá nic.
func (s *ReadingSubscription) OnConnect(client subscriber) {
	s.mu.Lock()
	started := s.handler != nil
	s.mu.Unlock()
	if !started {
		return
	}

	if err := s.subscribe(client); err != nil {
		s.logger().Error("Obnova odběru selhala", "topic", s.topic, "error", err)
		return
	}
	s.logger().Info("Odběr obnoven", "topic", s.topic)
}

func (s *ReadingSubscription) subscribe(client subscriber) error {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	token := client.Subscribe(s.topic, 0, handler)
	token.Wait()
	return token.Error()
}

func (s *ReadingSubscription) logger() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}
