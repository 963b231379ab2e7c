package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pleimann/gesture-pad/internal/config"
	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/hid"
	"github.com/pleimann/gesture-pad/internal/pty"
	"github.com/pleimann/gesture-pad/internal/render"
	"github.com/pleimann/gesture-pad/internal/trace"
	"github.com/pleimann/gesture-pad/internal/ui"
)

const Version = "0.1.0"

const (
	overlayWidth  = 800
	overlayHeight = 600
)

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "replay":
			runReplay(os.Args[2:])
			return
		case "playground":
			runPlayground(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	recordPath := flag.String("record", "", "save the pointer samples of this run as a trace")
	logPath := flag.String("log", "", "write log output to this file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			ui.PrintFatalError("Failed to open log file", err.Error())
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	watcher, err := config.NewWatcher(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := watcher.Get()
	if err := cfg.ValidateRun(); err != nil {
		log.Fatalf("Invalid config %s: %v", *configPath, err)
	}

	if *verbose {
		log.Printf("Loaded configuration from %s", *configPath)
		log.Printf("Device: VendorID=0x%04X, ProductID=0x%04X",
			cfg.Device.VendorID, cfg.Device.ProductID)
		log.Printf("TUI command: %s %v", cfg.TUI.Command, cfg.TUI.Args)
		log.Printf("Gesture policy: %s, %d binding(s)", cfg.Gesture.Mode(), len(cfg.Bindings))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app, err := newApp(cfg, appOptions{
		verbose:    *verbose,
		recordPath: *recordPath,
		watcher:    watcher,
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	go func() {
		<-sigChan
		if *verbose {
			log.Println("Received shutdown signal")
		}
		cancel()
	}()

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Application error: %v", err)
	}

	if *verbose {
		log.Println("Shutdown complete")
	}
}

func printUsage() {
	ui.PrintUsage(Version)
}

// loadConfigOrDefault loads path when it exists and otherwise returns the
// default settings, so replay and playground work without a config file
func loadConfigOrDefault(path string) (*config.Config, error) {
	if config.Exists(path) {
		return config.Load(path)
	}
	return config.Parse(nil, config.YAML)
}

func toUIDevice(d hid.DeviceInfo) ui.DeviceInfo {
	return ui.DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		Digitizer:    d.IsDigitizer(),
	}
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	uiDevices := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		uiDevices[i] = toUIDevice(d)
	}
	ui.PrintDeviceList(uiDevices)
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	all := fs.Bool("all", false, "list every HID device, not only digitizers")
	fs.Usage = func() {
		ui.PrintSetDeviceUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	if len(remaining) >= 2 {
		// Parse provided IDs
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	} else if len(remaining) == 1 {
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	} else {
		// Interactive selection
		device, err := selectDevice(*all)
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	}

	// Update or create config file
	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, vendorID, productID)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, vendorID, productID)
	}
}

// runReplay handles the replay subcommand
func runReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	mode := fs.String("mode", "", "override the trace's policy")
	pngPath := fs.String("png", "", "draw the trace to a PNG file")
	all := fs.Bool("all", false, "show continuous and lifecycle events")
	fs.Usage = func() {
		ui.PrintReplayUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		ui.PrintReplayUsage()
		os.Exit(2)
	}

	cfg, err := loadConfigOrDefault(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	tr, err := trace.Load(fs.Arg(0))
	if err != nil {
		ui.PrintFatalError("Failed to load trace", err.Error())
		os.Exit(1)
	}

	var opts []gesture.Option
	if *mode != "" {
		m, err := gesture.ParseMode(*mode)
		if err != nil {
			ui.PrintFatalError("Invalid mode", err.Error())
			os.Exit(1)
		}
		opts = append(opts, gesture.WithMode(m))
	}

	res, err := trace.Replay(tr, cfg.Gesture.Thresholds(), opts...)
	if err != nil {
		ui.PrintFatalError("Replay failed", err.Error())
		os.Exit(1)
	}

	ui.PrintReplay(res, *all, pty.Width(os.Stdout, 100))

	if *pngPath != "" {
		img := render.Overlay(res, overlayWidth, overlayHeight)
		if err := render.SavePNG(*pngPath, img); err != nil {
			ui.PrintFatalError("Failed to write overlay", err.Error())
			os.Exit(1)
		}
		fmt.Println(ui.Success("Overlay written to " + *pngPath))
	}

	if res.Check() != nil {
		os.Exit(1)
	}
}

// runPlayground handles the playground subcommand
func runPlayground(args []string) {
	fs := flag.NewFlagSet("playground", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	mode := fs.String("mode", "", "policy to start with")
	recordPath := fs.String("record", "", "save the session as a trace")
	all := fs.Bool("all", false, "show continuous and lifecycle events")
	fs.Usage = func() {
		ui.PrintPlaygroundUsage()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := loadConfigOrDefault(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	m := cfg.Gesture.Mode()
	if *mode != "" {
		if m, err = gesture.ParseMode(*mode); err != nil {
			ui.PrintFatalError("Invalid mode", err.Error())
			os.Exit(1)
		}
	}

	err = ui.RunPlayground(ui.PlaygroundOptions{
		Thresholds: cfg.Gesture.Thresholds(),
		Mode:       m,
		Multitouch: cfg.Gesture.MultitouchEnabled(),
		RecordPath: *recordPath,
		All:        *all,
	})
	if err != nil {
		ui.PrintFatalError("Playground failed", err.Error())
		os.Exit(1)
	}
	if *recordPath == "" {
		return
	}
	if _, err := os.Stat(*recordPath); err == nil {
		fmt.Println(ui.Success("Trace saved to " + *recordPath))
	}
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh.
// Unless all is set only touch digitizers are offered, falling back to
// every device when none is connected.
func selectDevice(all bool) (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	if !all {
		if touch := hid.FilterDigitizers(devices); len(touch) > 0 {
			devices = touch
		} else {
			fmt.Println(ui.Warning("No touch digitizers found, showing all devices"))
		}
	}

	unique := dedupDevices(devices)
	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(ui.SortDigitizersFirst(unique))
}

// dedupDevices keeps one entry per vendor/product ID pair. An entry is
// marked as a digitizer when any of its interfaces is one.
func dedupDevices(devices []hid.DeviceInfo) []ui.DeviceInfo {
	index := make(map[uint32]int)
	var unique []ui.DeviceInfo

	for _, d := range devices {
		// Skip devices with no vendor/product ID
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}

		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if i, ok := index[key]; ok {
			unique[i].Digitizer = unique[i].Digitizer || d.IsDigitizer()
			continue
		}
		index[key] = len(unique)
		unique = append(unique, toUIDevice(d))
	}

	return unique
}
