package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin"
	log "github.com/sirupsen/logrus"

	"screensnap/internal/clipboard"
	"screensnap/internal/config"
	"screensnap/internal/engine"
	"screensnap/internal/hotkey"
	"screensnap/internal/notify"
)

var (
	app = kingpin.New("screensnap", "Simple cross-platform screenshot tool for troubleshooting.")

	filenameArg = app.Arg("filename", "Output filename (auto-generated when omitted).").String()
	windowFlag  = app.Flag("window", "Capture the first window whose title contains TITLE; falls back to full screen when no window matches.").Short('w').PlaceHolder("TITLE").String()
	outputDir   = app.Flag("output-dir", "Directory to save screenshots into.").Short('o').PlaceHolder("DIR").String()
	format      = app.Flag("format", "Image format: png, jpg or jpeg.").Short('f').Enum("png", "jpg", "jpeg")
	quality     = app.Flag("quality", "JPEG quality, 1-100.").PlaceHolder("N").Int()
	showConfig  = app.Flag("config", "Print the config file path and exit.").Bool()
	watch       = app.Flag("watch", "Keep running and capture whenever the configured hotkey is pressed.").Bool()
	setHotkey   = app.Flag("set-hotkey", "Persist a new watch-mode hotkey, like ctrl+alt+s, and exit.").PlaceHolder("COMBO").String()
	verbose     = app.Flag("verbose", "Enable debug logging.").Bool()
)

func main() {
	app.Version("screensnap " + config.Version)
	app.HelpFlag.Short('h')
	app.VersionFlag.Short('v')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *showConfig {
		fmt.Println(config.DefaultPath())
		return
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Debugf("config file unusable, falling back to defaults: %v", err)
	}

	if *setHotkey != "" {
		mods, key, err := hotkey.ParseCombo(*setHotkey)
		if err != nil {
			fatal(err)
		}
		if err := cfg.SetHotkey("", mods, key); err != nil {
			fatal(err)
		}
		fmt.Println("Hotkey set to:", *setHotkey)
		return
	}

	eng := engine.New(cfg)
	req := engine.Request{
		Filename:    *filenameArg,
		OutputDir:   *outputDir,
		Format:      *format,
		JpegQuality: *quality,
		WindowTitle: *windowFlag,
	}

	if *watch {
		hotkey.Run(func() { runWatch(cfg, eng, req) })
		return
	}

	res, err := eng.Capture(req)
	if err != nil {
		fatal(err)
	}
	if res.FellBack {
		log.Warnf("%s, captured full screen instead", res.FallbackReason)
	}
	fmt.Println("Screenshot saved to:", res.Path)
}

// runWatch holds the hotkey for the life of the process and runs one
// engine capture per press. The saved path lands on the clipboard and,
// when enabled, in a desktop notification.
func runWatch(cfg *config.Config, eng *engine.Engine, req engine.Request) {
	clip := clipboard.NewClipboard()
	notifier := notify.NewNotifier()

	mgr := hotkey.NewManager()
	err := mgr.Register(cfg.Hotkey.Modifiers, cfg.Hotkey.Key, func() {
		res, err := eng.Capture(req)
		if err != nil {
			log.Errorf("capture failed: %v", err)
			if cfg.Notify {
				notifier.Show("Capture failed", err.Error())
			}
			return
		}
		if res.FellBack {
			log.Warnf("%s, captured full screen instead", res.FallbackReason)
		}
		log.Infof("saved %s (%dx%d)", res.Path, res.Width, res.Height)
		if err := clip.SetText(res.Path); err != nil {
			log.Debugf("clipboard copy failed: %v", err)
		}
		if cfg.Notify {
			notifier.Show("Screenshot saved", res.Path)
		}
	})
	if err != nil {
		log.Errorf("%v", err)
		log.Error("is the combination already in use? pick another with --set-hotkey")
		os.Exit(1)
	}
	defer mgr.Unregister()

	combo := strings.Join(append(append([]string{}, cfg.Hotkey.Modifiers...), cfg.Hotkey.Key), "+")
	fmt.Printf("screensnap watching, press %s to capture (Ctrl+C to quit)\n", combo)
	mgr.Listen()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
