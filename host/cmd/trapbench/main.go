// trapbench is the bench console for the sixstep motor controller.
// It tails the controller's diagnostic stream and forwards tuning and
// override commands over the same serial link.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/pterm/pterm"

	"sixstep/host/monitor"
	"sixstep/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Show non-sample controller output")
)

func main() {
	flag.Parse()

	if *verbose {
		pterm.EnableDebugMessages()
	}

	pterm.DefaultHeader.Println("trapbench - six-step BLDC bench console")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	pterm.Info.Printfln("Connecting to controller on %s...", *device)
	port, err := serial.Open(cfg)
	if err != nil {
		pterm.Error.Printfln("Failed to open %s: %v", *device, err)
		os.Exit(1)
	}
	defer port.Close()

	mon := monitor.New(port)
	mon.SetRawHandler(func(line string) {
		pterm.Debug.Println("mcu: " + line)
	})
	go func() {
		if err := mon.Run(); err != nil {
			pterm.Error.Printfln("Serial link lost: %v", err)
			os.Exit(1)
		}
	}()

	pterm.Info.Println("Connected. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			pterm.Error.Printfln("Parse error: %v", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			return

		case "help", "?":
			printHelp()

		case "stats":
			printStats(mon.Stats())

		case "watch":
			seconds := 5
			if len(args) == 2 {
				if v, err := strconv.Atoi(args[1]); err == nil && v > 0 {
					seconds = v
				}
			}
			watch(mon, time.Duration(seconds)*time.Second)

		case "tune", "speed", "dir", "run", "stop", "force", "stat":
			// Controller-side commands pass through unchanged
			if err := mon.SendCommand(strings.Join(args, " ")); err != nil {
				pterm.Error.Printfln("Send failed: %v", err)
			}

		default:
			pterm.Warning.Printfln("Unknown command %q (try 'help')", args[0])
		}
	}
}

// watch tails the sample stream for the given duration
func watch(mon *monitor.Monitor, d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case s := <-mon.Samples():
			pterm.Printfln("speed %6d  output %8.1f", s.Speed, s.Output)
		case <-deadline:
			printStats(mon.Stats())
			return
		}
	}
}

func printStats(s monitor.Stats) {
	if s.Count == 0 {
		pterm.Info.Println("No control-step samples received yet")
		return
	}

	data := pterm.TableData{
		{"Samples", "Last speed", "Min", "Max", "Mean", "Last output"},
		{
			strconv.FormatUint(s.Count, 10),
			strconv.FormatInt(s.LastSpeed, 10),
			strconv.FormatInt(s.MinSpeed, 10),
			strconv.FormatInt(s.MaxSpeed, 10),
			strconv.FormatFloat(s.MeanSpeed, 'f', 1, 64),
			strconv.FormatFloat(s.LastOut, 'f', 1, 64),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printHelp() {
	pterm.DefaultSection.Println("Controller commands")
	pterm.Println("  tune <p> <i> <d>          retune PID gains (history preserved)")
	pterm.Println("  speed <target>            set target speed")
	pterm.Println("  dir cw|ccw                set rotation direction")
	pterm.Println("  run / stop                enable or disable the control loop")
	pterm.Println("  force <hA lA hB lB hC lC> write gate duties directly (bench)")
	pterm.Println("  stat                      controller counters")
	pterm.DefaultSection.Println("Bench commands")
	pterm.Println("  stats                     rolling sample statistics")
	pterm.Println("  watch [seconds]           tail the live sample stream")
	pterm.Println("  quit                      exit")
}
