package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/robotalks/safety.go/pkg/comm/mqtt"
	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/safety/"
)

func init() {
	if val := os.Getenv("SAFETY_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", func(topic string, payload []byte) {
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	})

	if err := framework.NewRunner().HandleSignals().Go(q).Wait(); err != nil {
		log.Fatalln(err)
	}
}
