package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/utils"
)

type example struct {
	cmd  string
	desc string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	name := utils.ExecutableName()
	printBanner(version, ColorMuted)
	fmt.Println(Muted("Multi-touch gesture middleware for TUI applications"))
	fmt.Println()

	printSection("Usage", []string{
		name + " [flags]                   Run the middleware",
		name + " replay [flags] <trace>    Replay a recorded pointer trace",
		name + " playground [flags]        Try gestures with the mouse",
		name + " list-devices              List available HID devices",
		name + " set-device [args]         Configure the HID device",
		name + " help                      Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-record string    Save the pointer samples of this run as a trace",
		"-log string       Write log output to a file instead of stderr",
		"-verbose          Enable verbose logging",
		"-version          Print version and exit",
	})

	printCommandSection()

	printSection("Gestures", wrap(strings.Join(gesture.Keys, ", "), 72))

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{name, "Run with default config.yaml"},
		{name + " -config pad.toml", "Run with a TOML config file"},
		{name + " replay -png out.png swipe.yaml", "Replay a trace and draw it"},
		{name + " playground -mode drag_only", "Mouse playground with drags only"},
		{name + " set-device 0x1234 0x5678", "Set device by vendor/product ID"},
	})
}

func printBanner(version string, tagColor lipgloss.Color) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(tagColor).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection() {
	name := utils.ExecutableName()
	fmt.Println(Bold("Commands"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	commands := []struct {
		cmd   string
		lines []string
	}{
		{"replay", []string{
			"Feed a YAML pointer trace through the recognizer on a simulated clock",
			"Run " + Code(name+" replay --help") + " for more information",
		}},
		{"playground", []string{
			"Click and drag in the terminal to see recognized gestures",
			"Run " + Code(name+" playground --help") + " for more information",
		}},
		{"list-devices", []string{
			"List available HID devices, touch digitizers first",
		}},
		{"set-device", []string{
			"Set the HID device in the config file",
			"Run " + Code(name+" set-device --help") + " for more information",
		}},
	}

	for _, c := range commands {
		fmt.Printf("  %s\n", cmdStyle.Render(c.cmd))
		for _, l := range c.lines {
			fmt.Printf("      %s\n", l)
		}
		fmt.Println()
	}
}

func printExamples(examples []example) {
	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		maxLen = max(maxLen, len(ex.cmd))
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

// wrap splits text into lines of at most width runes at spaces
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	name := utils.ExecutableName()
	fmt.Println(Bold("Usage:"), name+" set-device [options] [vendor_id product_id]")
	fmt.Println()
	fmt.Println("Set the HID device in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected digitizers to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("product_id"))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Printf("  %s              List every HID device, not only digitizers\n", SubtitleStyle.Render("-all"))
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{name + " set-device", "Interactive selection"},
		{name + " set-device 0x1234 0x5678", "Direct specification"},
		{name + " set-device -config my.yaml", "Use different config"},
	})
}

// PrintReplayUsage displays the styled help text for the replay subcommand
func PrintReplayUsage() {
	name := utils.ExecutableName()
	fmt.Println(Bold("Usage:"), name+" replay [options] <trace.yaml>")
	fmt.Println()
	fmt.Println("Replay a recorded pointer trace through the gesture recognizer.")
	fmt.Println()
	fmt.Println(Muted("Time is simulated, so the result is the same on every run. The"))
	fmt.Println(Muted("exit status is non-zero when the trace's expectations are not met."))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Gesture thresholds from this config file\n", SubtitleStyle.Render("-config string"))
	fmt.Printf("  %s      Override the trace's policy (all, drag_only)\n", SubtitleStyle.Render("-mode string"))
	fmt.Printf("  %s       Draw the trace and its gestures to a PNG file\n", SubtitleStyle.Render("-png string"))
	fmt.Printf("  %s                  Show continuous and lifecycle events too\n", SubtitleStyle.Render("-all"))
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{name + " replay swipe.yaml", "Print recognized gestures"},
		{name + " replay -png out.png pinch.yaml", "Also render an overlay"},
	})
}

// PrintPlaygroundUsage displays the styled help text for the playground
// subcommand
func PrintPlaygroundUsage() {
	name := utils.ExecutableName()
	fmt.Println(Bold("Usage:"), name+" playground [options]")
	fmt.Println()
	fmt.Println("Try the gesture recognizer with the mouse.")
	fmt.Println()
	fmt.Println(Muted("The left button is one finger. Hold ctrl or use the right button to add"))
	fmt.Println(Muted("a second finger mirrored around the press point."))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Gesture settings from this config file\n", SubtitleStyle.Render("-config string"))
	fmt.Printf("  %s      Policy to start with (all, drag_only)\n", SubtitleStyle.Render("-mode string"))
	fmt.Printf("  %s    Save the session as a replayable trace\n", SubtitleStyle.Render("-record string"))
	fmt.Printf("  %s                  Show continuous and lifecycle events too\n", SubtitleStyle.Render("-all"))
	fmt.Println()

	fmt.Println(Bold("Examples"))
	printExamples([]example{
		{name + " playground", "Recognize everything"},
		{name + " playground -record tap.yaml", "Capture a trace for replay"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	printBanner(version, ColorSuccess)
}

// PrintError displays a styled error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
