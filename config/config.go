package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const HomeAssistantPrefix = "homeassistant"
const TopicPrefix = "mypyllant"

// Domain is the integration domain, used for device identifiers and the
// persisted unique ids.
const Domain = "mypyllant"

type Configuration struct {
	Api                 Api  `json:"api"`
	Mqtt                Mqtt `json:"mqtt"`
	PollIntervalSeconds int  `json:"poll_interval_seconds"`
	RefreshDelaySeconds int  `json:"refresh_delay_seconds"`
}

type Api struct {
	BaseUrl string `json:"base_url"`
	Token   string `json:"token"`
}

type Mqtt struct {
	IpAddress string `json:"ip_address"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func LoadConfiguration(filename string) (*Configuration, error) {
	var file *os.File
	var err error
	if file, err = os.Open(filename); err != nil {
		return nil, err
	}

	defer file.Close()
	decoder := json.NewDecoder(file)
	configuration := &Configuration{}
	if err := decoder.Decode(configuration); err != nil {
		return nil, err
	}

	if configuration.PollIntervalSeconds == 0 {
		configuration.PollIntervalSeconds = 60
	}
	if configuration.RefreshDelaySeconds == 0 {
		configuration.RefreshDelaySeconds = 10
	}

	return configuration, nil
}

func (m *Mqtt) ClientOptions() *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:1883", m.IpAddress)).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Printf("MQTT reconnecting")
		})
}
