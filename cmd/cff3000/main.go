// Command cff3000 drives a GPIO connected CFF3000 remote lock control.
// One-shot commands press the remote's buttons; monitor mode polls the
// lock state and publishes it to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/smkeys/cff3000"
	"github.com/smkeys/cff3000/internal/mqtt"
	"github.com/smkeys/cff3000/internal/status"
	"github.com/smkeys/cff3000/internal/web"
)

// device is the subset of *cff3000.Device the commands need; split out
// so tests can substitute a fake.
type device interface {
	Lock() error
	Unlock() error
	Check() (bool, error)
	State() (cff3000.State, error)
	ShowLEDs(duration uint8) error
	Close() error
}

func main() {
	chip := flag.String("chip", "/dev/gpiochip2", "gpiochip name or /dev path")
	lines := flag.String("lines", "2,3,4,5", "line offsets: LED red, LED green, button unlock, button lock")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (monitor mode)")
	interval := flag.Duration("interval", 15*time.Minute, "status poll interval (monitor mode)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (monitor mode, empty to disable)")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("missing parameter: lock, unlock, check, monitor")
		os.Exit(1)
	}
	cmd := flag.Arg(0)

	switch cmd {
	case "lock", "unlock", "check", "monitor":
	default:
		fmt.Printf("unsupported command %q: want lock, unlock, check or monitor\n", cmd)
		os.Exit(1)
	}

	offsets, err := parseOffsets(*lines)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	dev, err := cff3000.Open(*chip, offsets)
	if err != nil {
		// I/O failures report on stdout and exit 0, like command
		// failures below; only usage errors exit non-zero.
		fmt.Println(err)
		return
	}
	defer dev.Close()

	if cmd == "monitor" {
		if err := monitor(dev, *chip, offsets, *broker, *interval, *httpAddr); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	if err := execute(dev, cmd); err != nil {
		fmt.Println(err)
	}
}

// parseOffsets parses the -lines flag into the four line offsets.
func parseOffsets(s string) ([4]int, error) {
	var offsets [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return offsets, fmt.Errorf("need exactly 4 line offsets, got %d", len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return offsets, fmt.Errorf("invalid line offset %q", p)
		}
		offsets[i] = n
	}
	return offsets, nil
}

// execute runs a one-shot command and then mirrors the LEDs so the user
// can watch the remote's answer.
func execute(dev device, cmd string) error {
	var duration uint8

	switch cmd {
	case "lock":
		if err := dev.Lock(); err != nil {
			return err
		}
		duration = 10
	case "unlock":
		if err := dev.Unlock(); err != nil {
			return err
		}
		duration = 10
	case "check":
		locked, err := dev.Check()
		if err != nil {
			return err
		}
		if locked {
			fmt.Println("locked")
		} else {
			fmt.Println("unlocked")
		}
		duration = 8
	default:
		return fmt.Errorf("unsupported command %q", cmd)
	}

	return dev.ShowLEDs(duration)
}

func monitor(dev device, chip string, offsets [4]int, broker string, interval time.Duration, httpAddr string) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	pub := mqtt.NewRealPublisher(broker)
	defer pub.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:       chip,
		Lines:      offsets,
		IntervalMs: interval.Milliseconds(),
		Broker:     broker,
		HTTPAddr:   httpAddr,
	})

	if err := pub.PublishSystem(mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	}); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: chip=%s lines=%v interval=%v broker=%s", chip, offsets, interval, broker)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return monitorLoop(dev, pub, pub, tracker, time.Now, ticker.C, sigCh)
}

func monitorLoop(dev device, pub mqtt.Publisher, conn mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	// lastPublished deduplicates retained state messages: a new one
	// goes out only when the outcome changes.
	lastPublished := ""

	query := func() {
		t := now()
		st, err := dev.State()

		var key string
		if err != nil {
			log.Printf("status query failed: %v", err)
			tracker.RecordError(err.Error(), t)
			key = "error: " + err.Error()
		} else {
			log.Printf("state: %s", st)
			tracker.RecordState(st.String(), t)
			key = st.String()
		}

		if key != lastPublished {
			event := mqtt.StateEvent{Timestamp: t}
			if err != nil {
				event.Err = err.Error()
			} else {
				event.State = st.String()
			}
			if perr := pub.PublishState(event); perr != nil {
				log.Printf("publish error: %v", perr)
			} else {
				lastPublished = key
			}
		}

		if conn != nil {
			tracker.SetMQTTConnected(conn.IsConnected())
		}
	}

	// first query right away, then on every tick
	query()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if err := pub.PublishSystem(mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-tick:
			query()
		}
	}
}
