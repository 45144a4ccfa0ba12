package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/safety.go/pkg/cli/sh"
	"github.com/robotalks/safety.go/pkg/comm/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/safety/"
	device  string
)

func init() {
	if val := os.Getenv("SAFETY_MQTT_URL"); val != "" {
		mqttURL = val
	}
	if val := os.Getenv("SAFETY_DEVICE_ID"); val != "" {
		device = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", device, "Device to select.")
}

func main() {
	flag.Parse()

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	s := sh.New(q)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = q.ConnectAndWait(ctx)
	cancel()
	if err != nil {
		log.Fatalf("connect %s: %v", mqttURL, err)
	}
	defer q.Close()
	// retained status arrives right after subscribing
	time.Sleep(200 * time.Millisecond)
	if device != "" {
		s.Select(device)
	}
	s.Run(flag.Args()...)
}
