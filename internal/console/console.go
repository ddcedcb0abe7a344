// internal/console/console.go
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/engine"
	"github.com/tamzrod/nanowatchdog/internal/event"
	"github.com/tamzrod/nanowatchdog/internal/eventlog"
	"github.com/tamzrod/nanowatchdog/internal/reason"
)

// dateLayout is the wire format of SET DATE arguments, UTC.
const dateLayout = "2006-01-02 15:04:05"

// Interpreter executes one request line at a time against the engine
// and the event log.
type Interpreter struct {
	version string
	eng     *engine.Engine
	log     *eventlog.Log
}

// New creates an interpreter.
func New(version string, eng *engine.Engine, log *eventlog.Log) (*Interpreter, error) {
	if version == "" {
		return nil, errors.New("console: version required")
	}
	if eng == nil {
		return nil, errors.New("console: engine required")
	}
	if log == nil {
		return nil, errors.New("console: event log required")
	}
	return &Interpreter{version: version, eng: eng, log: log}, nil
}

// Execute runs one request line and returns the full reply: zero or
// more data lines followed by a single status line, every line carrying
// the version prefix. Blank input produces no reply.
func (it *Interpreter) Execute(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	args := strings.Fields(line)
	data, err := it.dispatch(strings.ToUpper(args[0]), args[1:])

	prefix := "[" + it.version + "] - "
	out := make([]string, 0, len(data)+1)
	for _, d := range data {
		out = append(out, prefix+d)
	}
	if err != nil {
		return append(out, prefix+"ERROR: "+err.Error())
	}
	return append(out, prefix+"OK")
}

// dispatch routes one command. Returned data lines are unprefixed.
func (it *Interpreter) dispatch(key string, args []string) ([]string, error) {
	switch key {
	case "NOOP":
		return nil, expectArgs(args, 0)

	case "PING":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		it.eng.Ping()
		return nil, nil

	case "SET":
		return it.cmdSet(args)

	case "START":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		return nil, it.eng.Start()

	case "STOP":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		it.eng.Stop()
		return nil, nil

	case "REINIT":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		return nil, it.cmdReinit()

	case "REBOOT":
		return nil, it.cmdReboot(args)

	case "LIST":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		return it.cmdList()

	case "ACKNOWLEDGE":
		return nil, it.cmdAcknowledge(args)

	case "VERSION":
		if err := expectArgs(args, 0); err != nil {
			return nil, err
		}
		return []string{it.version}, nil

	case "HELP":
		return cmdHelp(), nil

	default:
		return nil, errors.New("unknown command")
	}
}

// ---- SET family ----

func (it *Interpreter) cmdSet(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New("missing argument")
	}
	switch strings.ToUpper(args[0]) {
	case "DATE":
		return nil, it.cmdSetDate(args[1:])
	case "INTERVAL":
		return nil, it.cmdSetInterval(args[1:])
	case "TEST":
		return nil, it.cmdSetTest(args[1:])
	default:
		return nil, errors.New("unknown command")
	}
}

func (it *Interpreter) cmdSetDate(args []string) error {
	// yyyy-mm-dd + hh:mm:ss arrive as two tokens.
	if len(args) != 2 {
		return errors.New("invalid date")
	}
	t, err := time.Parse(dateLayout, args[0]+" "+args[1])
	if err != nil {
		return errors.New("invalid date")
	}
	it.eng.SetDate(t.UTC())
	return nil
}

func (it *Interpreter) cmdSetInterval(args []string) error {
	if len(args) != 1 {
		return errors.New("missing argument")
	}
	sec, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("invalid interval")
	}
	if sec < engine.MinIntervalSec || sec > engine.MaxIntervalSec {
		return errors.New("out of range")
	}
	return it.eng.SetInterval(time.Duration(sec) * time.Second)
}

func (it *Interpreter) cmdSetTest(args []string) error {
	if len(args) != 1 {
		return errors.New("missing argument")
	}
	switch strings.ToUpper(args[0]) {
	case "ON":
		it.eng.SetTestMode(true)
	case "OFF":
		it.eng.SetTestMode(false)
	default:
		return errors.New("expected ON or OFF")
	}
	return nil
}

// ---- log commands ----

func (it *Interpreter) cmdReinit() error {
	init := event.NewWithReason(it.version, it.eng.Now(), reason.Init)
	if err := it.log.Reinit(init); err != nil {
		return fmt.Errorf("storage: %v", err)
	}
	it.eng.Stop()
	return nil
}

func (it *Interpreter) cmdReboot(args []string) error {
	if len(args) != 1 {
		return errors.New("missing argument")
	}
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("invalid reason")
	}
	if code < int(reason.CommandStart) {
		return errors.New("reason must be >= 16")
	}
	if code > int(reason.Max) {
		return errors.New("out of range")
	}
	return it.eng.Fire(reason.Code(code))
}

func (it *Interpreter) cmdList() ([]string, error) {
	init, err := it.log.InitEvent()
	if err != nil {
		return nil, fmt.Errorf("storage: %v", err)
	}
	count, err := it.log.ResetCount()
	if err != nil {
		return nil, fmt.Errorf("storage: %v", err)
	}

	out := []string{"initialization event:"}
	out = append(out, init.DisplayLines("   ")...)
	out = append(out, fmt.Sprintf("reset events count: %d", count))

	for i := 0; i < count; i++ {
		ev, err := it.log.ResetEvent(i)
		if err != nil {
			return nil, fmt.Errorf("storage: %v", err)
		}
		out = append(out, fmt.Sprintf("reset event #%d:", i))
		out = append(out, ev.DisplayLines("   ")...)
	}
	return out, nil
}

func (it *Interpreter) cmdAcknowledge(args []string) error {
	if len(args) != 1 {
		return errors.New("missing argument")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("invalid index")
	}
	count, err := it.log.ResetCount()
	if err != nil {
		return fmt.Errorf("storage: %v", err)
	}
	if index < 0 || index >= count {
		return errors.New("empty slot")
	}

	ev, err := it.log.ResetEvent(index)
	if err != nil {
		return fmt.Errorf("storage: %v", err)
	}
	ev.Acknowledge(true)
	if err := it.log.SetResetEvent(ev, index); err != nil {
		return fmt.Errorf("storage: %v", err)
	}
	return nil
}

func cmdHelp() []string {
	return []string{
		"NOOP                       acknowledge, no state change",
		"PING                       signal host liveness",
		"SET DATE <yyyy-mm-dd hh:mm:ss>  set the wall clock (UTC)",
		"SET INTERVAL <seconds>     set the ping timeout (1..3600)",
		"SET TEST ON|OFF            fire without pulsing the reset line",
		"START                      arm the watchdog",
		"STOP                       disarm the watchdog",
		"REINIT                     reinitialize the event log, disarm",
		"REBOOT <reason>            fire with an external reason (>= 16)",
		"LIST                       dump the stored events",
		"ACKNOWLEDGE <index>        mark a stored event as seen",
		"VERSION                    print the firmware version",
		"HELP                       this text",
	}
}

func expectArgs(args []string, n int) error {
	if len(args) > n {
		return errors.New("unexpected argument")
	}
	if len(args) < n {
		return errors.New("missing argument")
	}
	return nil
}
