package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/safety.go/pkg/comm/mqtt"
	"github.com/robotalks/safety.go/pkg/config"
	"github.com/robotalks/safety.go/pkg/framework"
	"github.com/robotalks/safety.go/pkg/metrics"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := config.MustNewConfig()
	c, devices, err := conf.NewCore()
	if err != nil {
		log.Fatalln(err)
	}
	defer devices.Close()

	loop := framework.NewLoop()
	loop.Interval = conf.LoopInterval
	loop.Add(c)

	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL)
		if err != nil {
			log.Fatalln(err)
		}
		pub := mqtt.NewPublisher(q, conf.DeviceID)
		pub.Dropped = c.Queue.Dropped
		c.AddStateListener(pub)
		c.AddSampleHandler(pub)
		pub.StateChanged(c.Task.Status())
		q.OnConnect = func(*mqtt.Queue) { pub.Republish() }
		cmds := &mqtt.CommandSource{Device: conf.DeviceID, Reset: c.Reset, Stop: c.Emergency}
		cmds.Subscribe(q)
		loop.AddRunnable(q, pub)
		glog.Infof("device %s on %s", conf.DeviceID, conf.MQTTURL)
	}

	if conf.MetricsAddr != "" {
		srv, err := metrics.NewServer(conf.MetricsAddr, metrics.NewCollector(c))
		if err != nil {
			log.Fatalln(err)
		}
		loop.AddRunnable(srv)
	}

	runner := framework.NewRunner().HandleSignals().Go(loop)
	if err := runner.Wait(); err != nil {
		glog.Errorf("exit: %v", err)
		glog.Flush()
		log.Fatalln(err)
	}
	c.Close()
	s := c.Status()
	glog.Infof("stopped: %s, %d stops, %d dropped", s.State, s.Latch.Stops, s.Queue.Dropped)
}
