package bridge

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/thomasgermain/go-mypyllant/coordinator"
	"github.com/thomasgermain/go-mypyllant/fan"
	"github.com/thomasgermain/go-mypyllant/homeassistant"
	"github.com/thomasgermain/go-mypyllant/mypyllant"
)

const commandTimeout = 30 * time.Second

type Bridge struct {
	coordinator *coordinator.Coordinator
	fans        []*fan.VentilationFan
	lastStates  map[string]fanState
}

// New builds one fan adapter per (system, ventilation) pair in the
// coordinator's current snapshot. With no snapshot available the bridge comes
// up empty rather than failing.
func New(c *coordinator.Coordinator) (*Bridge, error) {
	fans := fan.Setup(c)
	log.Printf("Found %v ventilation units", len(fans))

	return &Bridge{
		coordinator: c,
		fans:        fans,
		lastStates:  make(map[string]fanState),
	}, nil
}

func (b *Bridge) Fans() []*fan.VentilationFan {
	return b.fans
}

func (b *Bridge) Systems() []mypyllant.System {
	return b.coordinator.Data()
}

func (b *Bridge) LastRefreshed() time.Time {
	return b.coordinator.LastRefreshed()
}

// RegisterFans publishes a discovery payload for every adapter.
func (b *Bridge) RegisterFans(mqttClient mqtt.Client) error {
	homeAssistantClient := homeassistant.NewClient(mqttClient)

	for _, f := range b.fans {
		name, err := f.Name()
		if err != nil {
			return err
		}

		deviceInfo, err := f.DeviceInfo()
		if err != nil {
			return err
		}

		entityID := f.EntityID()
		configuration := homeassistant.FanConfiguration{
			UniqueId:               f.UniqueID(),
			Name:                   name,
			StateTopic:             homeassistant.FanStateTopic(entityID),
			CommandTopic:           homeassistant.FanCommandTopic(entityID),
			PresetModeStateTopic:   homeassistant.FanPresetStateTopic(entityID),
			PresetModeCommandTopic: homeassistant.FanPresetCommandTopic(entityID),
			PresetModes:            f.PresetModes(),
			PercentageStateTopic:   homeassistant.FanPercentageStateTopic(entityID),
			PercentageCommandTopic: homeassistant.FanPercentageCommandTopic(entityID),
			JsonAttributesTopic:    homeassistant.FanAttributesTopic(entityID),
			Device: &homeassistant.DeviceConfiguration{
				Identifiers:  deviceInfo.Identifiers[:],
				Name:         deviceInfo.Name,
				Manufacturer: deviceInfo.Manufacturer,
			},
		}

		if err := homeAssistantClient.RegisterFan(entityID, configuration); err != nil {
			return err
		}

		log.Printf("Registered fan %v (%v)", entityID, name)
	}

	return nil
}

// SubscribeToFanCommands wires the command topics of every adapter. Command
// failures are logged; the remote state is re-fetched on the next poll either
// way.
func (b *Bridge) SubscribeToFanCommands(mqttClient mqtt.Client) {
	for _, f := range b.fans {
		f := f
		entityID := f.EntityID()

		if t := mqttClient.Subscribe(homeassistant.FanCommandTopic(entityID), 0, func(client mqtt.Client, msg mqtt.Message) {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			var err error
			if string(msg.Payload()) == "OFF" {
				err = f.TurnOff(ctx)
			} else {
				err = f.TurnOn(ctx, "")
			}

			if err != nil {
				log.Printf("Error switching %v: %v", entityID, err)
			}
		}); t.Wait() && t.Error() != nil {
			log.Printf("MQTT receive error: %v", t.Error())
		}

		if t := mqttClient.Subscribe(homeassistant.FanPresetCommandTopic(entityID), 0, func(client mqtt.Client, msg mqtt.Message) {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := f.SetPresetMode(ctx, string(msg.Payload())); err != nil {
				log.Printf("Error setting preset mode on %v: %v", entityID, err)
			}
		}); t.Wait() && t.Error() != nil {
			log.Printf("MQTT receive error: %v", t.Error())
		}

		if t := mqttClient.Subscribe(homeassistant.FanPercentageCommandTopic(entityID), 0, func(client mqtt.Client, msg mqtt.Message) {
			percentage, err := strconv.Atoi(string(msg.Payload()))
			if err != nil {
				log.Printf("Invalid percentage for %v: %v", entityID, err)
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := f.SetPercentage(ctx, percentage); err != nil {
				log.Printf("Error setting percentage on %v: %v", entityID, err)
			}
		}); t.Wait() && t.Error() != nil {
			log.Printf("MQTT receive error: %v", t.Error())
		}
	}
}

// PublishFanStates mirrors the current snapshot onto the state topics,
// republishing only what changed since the previous pass.
func (b *Bridge) PublishFanStates(mqttClient mqtt.Client) {
	for _, f := range b.fans {
		entityID := f.EntityID()

		current, err := currentFanState(f)
		if err != nil {
			log.Printf("Skipping state publish for %v: %v", entityID, err)
			continue
		}

		last, seen := b.lastStates[entityID]

		if !seen || last.state != current.state {
			if t := mqttClient.Publish(homeassistant.FanStateTopic(entityID), 0, true, current.state); t.Wait() && t.Error() != nil {
				log.Printf("MQTT publishing failed: %v", t.Error())
				continue
			}
		}

		if !seen || last.preset != current.preset {
			if t := mqttClient.Publish(homeassistant.FanPresetStateTopic(entityID), 0, true, current.preset); t.Wait() && t.Error() != nil {
				log.Printf("MQTT publishing failed: %v", t.Error())
				continue
			}
		}

		if !seen || last.percentage != current.percentage {
			if t := mqttClient.Publish(homeassistant.FanPercentageStateTopic(entityID), 0, true, current.percentage); t.Wait() && t.Error() != nil {
				log.Printf("MQTT publishing failed: %v", t.Error())
				continue
			}
		}

		if !seen || last.attributes != current.attributes {
			if t := mqttClient.Publish(homeassistant.FanAttributesTopic(entityID), 0, true, current.attributes); t.Wait() && t.Error() != nil {
				log.Printf("MQTT publishing failed: %v", t.Error())
				continue
			}
		}

		b.lastStates[entityID] = current
	}
}

func currentFanState(f *fan.VentilationFan) (fanState, error) {
	isOn, err := f.IsOn()
	if err != nil {
		return fanState{}, err
	}

	state := "OFF"
	if isOn {
		state = "ON"
	}

	preset, err := f.PresetMode()
	if err != nil {
		return fanState{}, err
	}

	percentage, err := f.Percentage()
	if err != nil {
		return fanState{}, err
	}

	attributes, err := f.ExtraStateAttributes()
	if err != nil {
		return fanState{}, err
	}

	marshaledAttributes, err := json.Marshal(attributes)
	if err != nil {
		return fanState{}, err
	}

	return fanState{
		state:      state,
		preset:     preset,
		percentage: strconv.Itoa(percentage),
		attributes: string(marshaledAttributes),
	}, nil
}
