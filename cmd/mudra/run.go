package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recognition pipeline, HTTP server and tray",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

func runApp() error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	dir, err := dataDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}

	st, err := store.New(filepath.Join(dir, "mudra.db"))
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	pluginDir := cfg.Plugins.Dir
	if !filepath.IsAbs(pluginDir) {
		pluginDir = filepath.Join(dir, pluginDir)
	}

	a := app.New(app.Config{
		Store:         st,
		PluginDir:     pluginDir,
		PluginTimeout: cfg.PluginTimeout(),
		CameraID:      cfg.Camera.DeviceID,
		MotionThresh:  cfg.Camera.MotionThreshold,
		RecordPath:    cfg.RecordPath,
	}, cfg.Options())

	if err := a.LoadGestureConfigs(); err != nil {
		log.Printf("Failed to load stored gesture configs: %v", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	watcher, err := config.Watch(cfgPath, func(cfg *config.Config) {
		log.Printf("Config reloaded from %s", cfgPath)
		a.ApplyOptions(cfg.Options())
		a.MotionDetector().SetThreshold(cfg.Camera.MotionThreshold)
		if err := a.LoadGestureConfigs(); err != nil {
			log.Printf("Failed to re-apply stored gesture configs: %v", err)
		}
	})
	if err != nil {
		log.Printf("Config watching disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	srv := server.New(server.Config{
		Store: st,
		App:   a,
	})
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Recognition state survives restarts via the settings table.
	enabled := true
	if v, err := st.Settings().Get("recognition_enabled"); err == nil {
		enabled = v == "true"
	}
	a.SetEnabled(enabled)
	if err := a.Start(); err != nil {
		log.Printf("Pipeline not started: %v", err)
	}

	t := tray.New()
	t.OnToggle(func(on bool) {
		a.SetEnabled(on)
		if err := st.Settings().Set("recognition_enabled", strconv.FormatBool(on)); err != nil {
			log.Printf("Failed to persist recognition state: %v", err)
		}
	})
	t.OnDashboard(func() { openBrowser(dashboardURL(cfg.Server.Addr)) })
	t.OnQuit(a.Stop)
	a.SetGestureListener(func(ev gesture.Event) {
		if ev.Kind == gesture.EventStart {
			t.SetLastGesture(ev.Name, string(ev.Hand), ev.Confidence)
		}
	})

	t.Run()
	return nil
}

// dashboardURL turns a listen address into something a browser can
// open.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
