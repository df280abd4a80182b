package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/go-psx/psx/audio"
	"github.com/go-psx/psx/emulator"
	"github.com/go-psx/psx/video"
)

func main() {
	headless := flag.Bool("headless", false, "run without a window, for test/CI use")
	mute := flag.Bool("mute", false, "do not play sound")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: gopsx [-headless] [-mute] <bios> <iso> [exe]")
		os.Exit(1)
	}

	exitCode := 0
	func() {
		defer func() {
			if r := recover(); r != nil {
				exitCode = exitCodeFor(r)
				log.Printf("fatal: %v", r)
			}
		}()
		run(flag.Arg(0), flag.Arg(1), flag.Arg(2), *headless, *mute)
	}()
	os.Exit(exitCode)
}

func run(biosPath, isoPath, exePath string, headless, mute bool) {
	bios := loadBios(biosPath)
	sys := emulator.NewSystem(bios)
	sys.Bus.CDROM.Disc = loadDisc(isoPath)
	sys.SetTTYSink(newTTYLogger())

	if exePath != "" {
		sys.ArmSideload(loadExecutable(exePath))
	}

	if headless {
		sys.Run()
		return
	}

	win := video.NewWindow(sys, 1)
	win.ShowFPS = true

	if !mute {
		ctx := ebitenaudio.NewContext(audio.SampleRate)
		sink, err := audio.NewSink(ctx)
		if err != nil {
			panic(&emulator.HostIOError{Component: "audio", Path: "ebiten", Err: err})
		}
		sys.SetAudioSink(sink)
	}

	ebiten.SetWindowSize(1024, 512)
	ebiten.SetWindowTitle("gopsx")
	if err := ebiten.RunGame(win); err != nil {
		panic(err)
	}
}

// ttyLogger buffers characters the BIOS putchar() trampoline forwards and
// logs one line at a time, the way a host watching a serial console would.
type ttyLogger struct {
	log *log.Logger
	buf []byte
}

func newTTYLogger() *ttyLogger {
	return &ttyLogger{log: log.New(os.Stderr, "tty: ", 0)}
}

func (t *ttyLogger) WriteByte(b byte) error {
	if b == '\n' {
		t.log.Print(string(t.buf))
		t.buf = t.buf[:0]
		return nil
	}
	t.buf = append(t.buf, b)
	return nil
}

func loadBios(path string) *emulator.BIOS {
	log.Printf("loading bios %q", path)
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		panic(&emulator.HostIOError{Component: "bios", Path: path, Err: err})
	}
	defer file.Close()

	bios, err := emulator.LoadBIOS(file)
	if err != nil {
		panic(&emulator.HostIOError{Component: "bios", Path: path, Err: err})
	}

	log.Printf("loaded bios in %s", time.Since(start))
	return bios
}

func loadDisc(path string) *emulator.Disc {
	log.Printf("loading iso %q", path)

	file, err := os.Open(path)
	if err != nil {
		panic(&emulator.HostIOError{Component: "disc", Path: path, Err: err})
	}

	disc, err := emulator.NewDisc(file)
	if err != nil {
		panic(&emulator.HostIOError{Component: "disc", Path: path, Err: err})
	}

	log.Printf("identified disc region: %s", disc.RegionString())
	return disc
}

func loadExecutable(path string) *emulator.Executable {
	log.Printf("sideloading exe %q", path)

	data, err := os.ReadFile(path)
	if err != nil {
		panic(&emulator.HostIOError{Component: "sideload", Path: path, Err: err})
	}

	exe, err := emulator.LoadExecutable(data)
	if err != nil {
		panic(&emulator.HostIOError{Component: "sideload", Path: path, Err: err})
	}
	return exe
}

// exitCodeFor maps the error taxonomy in emulator/errors.go onto a process
// exit status: host I/O failures at startup, unimplemented guest behavior,
// and violated internal invariants are distinguishable from the shell.
func exitCodeFor(r interface{}) int {
	switch r.(type) {
	case *emulator.HostIOError:
		return 2
	case *emulator.UnimplementedError:
		return 3
	case *emulator.InvariantError:
		return 4
	default:
		return 1
	}
}
