// Command thermal-cycler drives a PCR thermal cycler: it sequences the
// denature/anneal/extend phases over GPIO heater and fan outputs,
// watches a single temperature probe, and publishes the run record
// stream to the serial console and MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/thermal-cycler/internal/config"
	"github.com/sweeney/thermal-cycler/internal/cycle"
	"github.com/sweeney/thermal-cycler/internal/gpio"
	"github.com/sweeney/thermal-cycler/internal/mqtt"
	"github.com/sweeney/thermal-cycler/internal/runlog"
	"github.com/sweeney/thermal-cycler/internal/sensor"
	"github.com/sweeney/thermal-cycler/internal/status"
	"github.com/sweeney/thermal-cycler/internal/trigger"
	"github.com/sweeney/thermal-cycler/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Profile YAML path (empty = built-in defaults)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	buttonPoll := flag.Duration("button-poll", 100*time.Millisecond, "Panel button polling interval")
	pinHeater := flag.Int("pin-heater", gpio.DefaultPinHeater, "BCM pin number for the heater SSR")
	pinFan := flag.Int("pin-fan", gpio.DefaultPinFan, "BCM pin number for the fan")
	pinStart := flag.Int("pin-start", gpio.DefaultPinStart, "BCM pin number for the start button (-1 to disable buttons)")
	pinStop := flag.Int("pin-stop", gpio.DefaultPinStop, "BCM pin number for the stop button")
	sensorID := flag.String("sensor", "", "DS18B20 device ID (empty = auto-discover)")
	cycles := flag.Int("cycles", 0, "Override profile cycle count (0 = profile value)")
	printTemp := flag.Bool("print-temp", false, "Print current temperature and exit")

	flag.Parse()

	if err := run(*configPath, *broker, *httpAddr, *buttonPoll, *pinHeater, *pinFan, *pinStart, *pinStop, *sensorID, *cycles, *printTemp); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configPath, broker, httpAddr string, buttonPoll time.Duration, pinHeater, pinFan, pinStart, pinStop int, sensorID string, cycles int, printTemp bool) error {
	profile, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cycles > 0 {
		profile.NumCycles = cycles
		if err := profile.Validate(); err != nil {
			return err
		}
	}

	// Initialize sensor
	probe, err := sensor.NewDS18B20(sensorID)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer probe.Close()

	// Print temperature mode
	if printTemp {
		t, err := probe.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("%.2f C\n", t)
		return nil
	}

	// Initialize GPIO
	outputs, err := gpio.NewRealOutputs(pinHeater, pinFan)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer outputs.Close()

	var buttons gpio.Buttons
	if pinStart >= 0 {
		b, err := gpio.NewRealButtons(pinStart, pinStop)
		if err != nil {
			return fmt.Errorf("init buttons: %w", err)
		}
		defer b.Close()
		buttons = b
	}

	// Initialize MQTT (connects in the background, buffers while down)
	publisher := mqtt.NewRealPublisher(broker, "thermal-cycler")
	defer publisher.Close()

	// Status tracker (before STARTUP so a snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:       broker,
		HTTPAddr:     httpAddr,
		ProfilePath:  configPath,
		NumCycles:    profile.NumCycles,
		ButtonPollMs: buttonPoll.Milliseconds(),
	})

	// Record stream: serial console, MQTT, status tracker.
	emitter := runlog.NewEmitter(time.Now,
		runlog.NewWriterSink(os.Stdout),
		mqtt.RecordSink{Publisher: publisher},
		tracker,
	)

	var startLatch, stopLatch trigger.Latch

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker, &startLatch, &stopLatch)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: cycles=%d denature=%.1f anneal=%.1f extend=%.1f broker=%s",
		profile.NumCycles, profile.DenatureTemp, profile.AnnealTemp, profile.ExtendTemp, broker)

	ticker := time.NewTicker(buttonPoll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var edges *buttonEdges
	if buttons != nil {
		edges = &buttonEdges{buttons: buttons}
	}

	// Abort is polled by the regulator at its checkpoints; the whole
	// run shares one control goroutine, so the poll also services the
	// panel buttons and signals.
	var shutdown bool
	abort := func() bool {
		select {
		case s := <-sigCh:
			log.Printf("received %v during run, aborting", s)
			shutdown = true
			stopLatch.Request()
		default:
		}
		if edges != nil {
			edges.poll(&startLatch, &stopLatch)
		}
		return stopLatch.Poll()
	}

	ports := cycle.Ports{
		ReadTemp: sensor.ReadFunc(probe, func(err error) {
			log.Printf("sensor read error: %v", err)
		}),
		SetHeater: func(on bool) {
			if err := outputs.SetHeater(on); err != nil {
				log.Printf("heater command error: %v", err)
			}
		},
		SetFan: func(on bool) {
			if err := outputs.SetFan(on); err != nil {
				log.Printf("fan command error: %v", err)
			}
		},
		AbortRequested: abort,
		Now:            time.Now,
		Sleep:          time.Sleep,
	}
	ctrl := cycle.NewController(&profile, ports, emitter)

	return controlLoop(ctrl, edges, &startLatch, &stopLatch, publisher, publisher, tracker, &shutdown, time.Now, ticker.C, sigCh)
}

// controller is the part of cycle.Controller the control loop uses.
type controller interface {
	Run() error
	Startable() bool
}

// controlLoop waits for a start trigger, runs the cycle sequence to
// completion or fault, and repeats until a shutdown signal. A run
// occupies the loop goroutine for its whole duration; triggers
// arriving mid-run are serviced by the abort poll, not here.
func controlLoop(ctrl controller, edges *buttonEdges, start, stop *trigger.Latch, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, shutdown *bool, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			return publishShutdown(publisher, mqttStatus, tracker, now, signalName(s))

		case <-tick:
			if edges != nil {
				edges.poll(start, stop)
			}
			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// A stop edge with no run active is stale; drop it so it
			// cannot abort the next run. A pending start wins.
			if !start.Pending() {
				stop.Poll()
				continue
			}

			if !start.Poll() || !ctrl.Startable() {
				continue
			}

			// Any stop edge still armed predates this start; drop it
			// so it cannot abort the fresh run.
			stop.Poll()

			runID := uuid.NewString()
			log.Printf("run %s starting", runID)
			if tracker != nil {
				tracker.SetRun(runID, true)
			}
			publishSystem(publisher, mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "RUN_START",
				RunID:     runID,
			})

			err := ctrl.Run()

			if tracker != nil {
				tracker.SetRun(runID, false)
			}
			if err != nil {
				var fe *cycle.FaultError
				reason := err.Error()
				if errors.As(err, &fe) {
					reason = fe.Kind.String()
				}
				log.Printf("run %s faulted: %s", runID, reason)
				publishSystem(publisher, mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "RUN_FAULT",
					Reason:    reason,
					RunID:     runID,
				})
			} else {
				log.Printf("run %s complete", runID)
				publishSystem(publisher, mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "RUN_COMPLETE",
					RunID:     runID,
				})
			}

			if *shutdown {
				return publishShutdown(publisher, mqttStatus, tracker, now, "signal during run")
			}
		}
	}
}

func publishShutdown(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, reason string) error {
	log.Printf("shutting down (%s)", reason)
	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", reason)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
	return nil
}

func publishSystem(publisher mqtt.Publisher, event mqtt.SystemEvent) {
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("publish %s error: %v", event.Event, err)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// buttonEdges converts the level-read panel buttons into edge-triggered
// latch requests.
type buttonEdges struct {
	buttons   gpio.Buttons
	prevStart bool
	prevStop  bool
}

func (b *buttonEdges) poll(start, stop *trigger.Latch) {
	s, p, err := b.buttons.Read()
	if err != nil {
		log.Printf("button read error: %v", err)
		return
	}
	if s && !b.prevStart {
		start.Request()
	}
	if p && !b.prevStop {
		stop.Request()
	}
	b.prevStart, b.prevStop = s, p
}
