package main

import (
	"context"
	"log"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/julienschmidt/httprouter"
	"github.com/thomasgermain/go-mypyllant/bridge"
	"github.com/thomasgermain/go-mypyllant/config"
	"github.com/thomasgermain/go-mypyllant/coordinator"
	"github.com/thomasgermain/go-mypyllant/mypyllant"
	"github.com/thomasgermain/go-mypyllant/routes"
)

func main() {
	cfg, err := config.LoadConfiguration("mypyllant.json")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
		return
	}

	apiClient := mypyllant.NewClient(cfg.Api.BaseUrl, cfg.Api.Token)
	systemCoordinator := coordinator.New(apiClient, time.Duration(cfg.RefreshDelaySeconds)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := systemCoordinator.Refresh(ctx); err != nil {
		log.Printf("Initial refresh failed: %v", err)
	}
	cancel()

	bridge, err := bridge.New(systemCoordinator)
	if err != nil {
		log.Fatalf("Error setting up bridge: %v", err)
		return
	}

	mqttOpts := cfg.Mqtt.ClientOptions()
	// Configure MQTT subscriptions in the ConnectHandler to make sure they are set up after reconnect
	mqttOpts.SetOnConnectHandler(func(client mqtt.Client) {
		bridge.SubscribeToFanCommands(client)
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		log.Printf("MQTT connection error: %v", t.Error())
		return
	}

	// Fans
	if err := bridge.RegisterFans(mqttClient); err != nil {
		log.Fatalf("Error registering fans: %v", err)
		return
	}

	go loopSafely(func() {
		bridge.PublishFanStates(mqttClient)

		time.Sleep(1 * time.Second)
	})

	// Vendor polling
	go loopSafely(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := systemCoordinator.Refresh(ctx); err != nil {
			log.Printf("Refresh failed: %v", err)
		}

		time.Sleep(time.Duration(cfg.PollIntervalSeconds) * time.Second)
	})

	// Start httprouter
	router := httprouter.New()
	router.GET("/state", routes.State(bridge))

	go loopSafely(func() {
		http.ListenAndServe(":8080", router)
	})

	select {}
}
