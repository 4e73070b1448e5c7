package homeassistant

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/thomasgermain/go-mypyllant/config"
)

type Client struct {
	mqtt mqtt.Client
}

func NewClient(mqtt mqtt.Client) *Client {
	return &Client{
		mqtt: mqtt,
	}
}

// Topic builders for one fan entity. Everything hangs off the entity id so
// that multiple ventilation units stay apart.

func FanStateTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/state", config.TopicPrefix, entityID)
}

func FanCommandTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/cmd", config.TopicPrefix, entityID)
}

func FanPresetStateTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/preset/state", config.TopicPrefix, entityID)
}

func FanPresetCommandTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/preset/cmd", config.TopicPrefix, entityID)
}

func FanPercentageStateTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/percentage/state", config.TopicPrefix, entityID)
}

func FanPercentageCommandTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/percentage/cmd", config.TopicPrefix, entityID)
}

func FanAttributesTopic(entityID string) string {
	return fmt.Sprintf("%v/fan/%v/attributes", config.TopicPrefix, entityID)
}

// RegisterFan publishes a retained discovery payload for one fan entity.
func (h *Client) RegisterFan(entityID string, fan FanConfiguration) error {
	payload, _ := json.Marshal(fan)

	configTopic := fmt.Sprintf("%v/fan/%v/config", config.HomeAssistantPrefix, entityID)

	if t := h.mqtt.Publish(configTopic, 0, true, payload); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	return nil
}
