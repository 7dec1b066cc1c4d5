package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fishing-solunar/internal/logger"
	"fishing-solunar/internal/solunar"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const deviceTopic = "solunar"

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

type Publisher struct {
	client      client
	topicPrefix string
	enabled     bool
	log         *logger.Logger
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

func NewPublisher(cfg PublisherConfig, log *logger.Logger) (*Publisher, error) {
	log = log.Named("mqtt")
	if !cfg.Enabled {
		return &Publisher{enabled: false, log: log}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Warnw("connection lost", "error", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Infow("connected", "broker", cfg.Broker)
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newPublisher(c, cfg.TopicPrefix, log), nil
}

func newPublisher(c client, topicPrefix string, log *logger.Logger) *Publisher {
	return &Publisher{
		client:      c,
		topicPrefix: topicPrefix,
		enabled:     true,
		log:         log,
	}
}

func (p *Publisher) topic(name string) string {
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, deviceTopic, name)
}

// Publish sends the per-field topics and the retained status document.
func (p *Publisher) Publish(data *solunar.Data) error {
	if !p.enabled || data == nil {
		return nil
	}

	bestHour := ""
	if len(data.BestTimes) > 0 {
		bestHour = strconv.Itoa(data.BestTimes[0].Hour)
	}

	values := []struct {
		name  string
		value string
	}{
		{"daily_score", strconv.Itoa(data.DailyScore)},
		{"rating", string(data.Rating)},
		{"moon_phase", data.MoonPhase.LocalName},
		{"illumination", strconv.Itoa(data.MoonPhase.Illumination)},
		{"sunrise", data.SunTimes.Sunrise.Format("15:04")},
		{"sunset", data.SunTimes.Sunset.Format("15:04")},
		{"best_hour", bestHour},
	}

	for _, v := range values {
		topic := p.topic(v.name)
		token := p.client.Publish(topic, 0, false, v.value)
		token.Wait()
		if token.Error() != nil {
			p.log.Warnw("publish failed", "topic", topic, "error", token.Error())
		}
	}

	statusJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	token := p.client.Publish(p.topic("status"), 0, true, statusJSON)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish status: %w", token.Error())
	}

	return nil
}

type discoverySensor struct {
	Name string
	ID   string
	Unit string
	Icon string
}

var discoverySensors = []discoverySensor{
	{"Daily Score", "daily_score", "%", "mdi:fish"},
	{"Rating", "rating", "", "mdi:star"},
	{"Moon Phase", "moon_phase", "", "mdi:moon-waning-crescent"},
	{"Moon Illumination", "illumination", "%", "mdi:brightness-5"},
	{"Sunrise", "sunrise", "", "mdi:weather-sunset-up"},
	{"Sunset", "sunset", "", "mdi:weather-sunset-down"},
	{"Best Hour", "best_hour", "h", "mdi:clock-outline"},
}

// PublishHomeAssistantDiscovery announces one retained sensor config per
// published field.
func (p *Publisher) PublishHomeAssistantDiscovery() error {
	if !p.enabled {
		return nil
	}

	for _, sensor := range discoverySensors {
		discoveryTopic := fmt.Sprintf("homeassistant/sensor/fishing_solunar/%s/config", sensor.ID)

		config := map[string]interface{}{
			"name":        fmt.Sprintf("Solunar %s", sensor.Name),
			"unique_id":   fmt.Sprintf("fishing_solunar_%s", sensor.ID),
			"state_topic": p.topic(sensor.ID),
			"icon":        sensor.Icon,
			"device": map[string]interface{}{
				"identifiers":  []string{"fishing_solunar"},
				"name":         "Fishing Solunar",
				"manufacturer": "fishing-solunar",
				"model":        "Solunar forecast",
			},
		}

		if sensor.Unit != "" {
			config["unit_of_measurement"] = sensor.Unit
		}

		payload, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal discovery config: %w", err)
		}
		token := p.client.Publish(discoveryTopic, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("failed to publish discovery for %s: %w", sensor.ID, token.Error())
		}
	}

	return nil
}

func (p *Publisher) IsConnected() bool {
	if !p.enabled {
		return false
	}
	return p.client.IsConnected()
}

func (p *Publisher) Close() {
	if p.enabled && p.client != nil {
		p.client.Disconnect(1000)
	}
}
