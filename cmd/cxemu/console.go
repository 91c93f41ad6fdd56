package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lojo/cxemu/cx"
	"github.com/lojo/cxemu/telemetry"
)

const consoleHelp = `commands:
  hart <n>          switch to hart n
  sel               read cxsel
  swap <v> [rd]     cxsetsel: swap v into cxsel, old value into rd (default x5)
  idx [v]           read cxidx, or write v
  data [v]          read cxdata, or write v (auto-increments)
  step <hexword>    decode and retire one instruction word
  state             show selector / index / defined
  catalog           show the extension catalog
  events [n]        show the last n trace events (default 10)
  enable on|off     toggle the CX subsystem for this hart
  reset             reset this hart
  quit              leave the console`

func parseWord(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad instruction word %q: %v", s, err)
	}
	return uint32(v), nil
}

func parseValue(s string) (uint64, error) {
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

func parseRegister(s string) (uint8, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "x")
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v > 31 {
		return 0, fmt.Errorf("bad register designator %q", s)
	}
	return uint8(v), nil
}

func formatSelector(sel uint64) string {
	switch sel {
	case cx.SelBuiltin:
		return "0 (builtin)"
	case cx.SelInvalid:
		return "invalid"
	default:
		return strconv.FormatUint(sel, 10)
	}
}

// runConsole drives a readline loop against the emulator's harts,
// supporting arrow keys and command history.
func runConsole(emu *emulator) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "cx> ",
		HistoryFile: "/tmp/cxemu_console_history.txt",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	h := emu.harts[0]
	fmt.Println(`type "help" for commands`)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			fmt.Println(consoleHelp)

		case "hart":
			if len(args) != 1 {
				fmt.Println("usage: hart <n>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 || n >= len(emu.harts) {
				fmt.Printf("no such hart (0..%d)\n", len(emu.harts)-1)
				continue
			}
			h = emu.harts[n]
			fmt.Printf("hart %d\n", n)

		case "sel":
			v, err := h.ReadCSR(cx.CsrCxSel)
			if err != nil {
				fmt.Printf("fault: %v\n", err)
				continue
			}
			fmt.Printf("cxsel = %s\n", formatSelector(v))

		case "swap":
			if len(args) < 1 {
				fmt.Println("usage: swap <v> [rd]")
				continue
			}
			v, err := parseValue(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			rd := uint8(5)
			if len(args) > 1 {
				if rd, err = parseRegister(args[1]); err != nil {
					fmt.Println(err)
					continue
				}
			}
			h.WriteRegister(6, v)
			if err := h.Step(cx.EncodeSetsel(rd, 6)); err != nil {
				fmt.Printf("fault: %v\n", err)
				continue
			}
			fmt.Printf("cxsel = %s, x%d = %d\n",
				formatSelector(h.CX().Selector()), rd, h.ReadRegister(int(rd)))

		case "idx":
			csrReadWrite(h, cx.CsrCxIdx, args)

		case "data":
			csrReadWrite(h, cx.CsrCxData, args)

		case "step":
			if len(args) != 1 {
				fmt.Println("usage: step <hexword>")
				continue
			}
			raw, err := parseWord(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			inst, derr := cx.Decode(raw)
			if derr == nil {
				fmt.Println(inst.String())
			}
			if err := h.Step(raw); err != nil {
				fmt.Printf("fault: %v\n", err)
			}

		case "state":
			fmt.Printf("hart %d: selector=%s index_defined=%v enabled=%v\n",
				h.ID(), formatSelector(h.CX().Selector()), h.CX().IndexDefined(), h.CXEnabled())

		case "catalog":
			fmt.Print(emu.catalog.ToTree().String())

		case "events":
			n := 10
			if len(args) > 0 {
				if parsed, err := strconv.Atoi(args[0]); err == nil {
					n = parsed
				}
			}
			printEvents(emu.recorder.Events(), n)

		case "enable":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				fmt.Println("usage: enable on|off")
				continue
			}
			h.SetCXEnabled(args[0] == "on")

		case "reset":
			h.Reset()
			fmt.Println("hart reset")

		case "quit", "exit":
			return nil

		default:
			fmt.Printf("unknown command %q, try help\n", cmd)
		}
	}
}

func csrReadWrite(h *cx.Hart, addr uint16, args []string) {
	if len(args) == 0 {
		v, err := h.ReadCSR(addr)
		if err != nil {
			fmt.Printf("fault: %v\n", err)
			return
		}
		fmt.Printf("%s = %#x (defined=%v)\n", cx.CsrName(addr), v, h.CX().IndexDefined())
		return
	}
	v, err := parseValue(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := h.WriteCSR(addr, v); err != nil {
		fmt.Printf("fault: %v\n", err)
		return
	}
	fmt.Printf("%s <- %#x (defined=%v)\n", cx.CsrName(addr), v, h.CX().IndexDefined())
}

func printEvents(events []telemetry.Event, n int) {
	if n > len(events) {
		n = len(events)
	}
	for _, ev := range events[len(events)-n:] {
		switch ev.Code {
		case telemetry.Trace_Swap:
			fmt.Printf("%4d %-14s hart=%d old=%d new=%d\n",
				ev.EventID, telemetry.EventName(ev.Code), ev.HartID, ev.Old, ev.New)
		default:
			fmt.Printf("%4d %-14s hart=%d %s=%#x\n",
				ev.EventID, telemetry.EventName(ev.Code), ev.HartID, ev.Register, ev.Value)
		}
	}
}
