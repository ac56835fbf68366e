// Command oxy-re opens a window and draws randomly placed triangles every frame.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/config"
	"github.com/Carmen-Shannon/oxy-re/engine"
	"github.com/Carmen-Shannon/oxy-re/engine/scene"
)

func init() {
	// GLFW and the surface must be driven from the main OS thread.
	runtime.LockOSThread()
}

// exampleScene draws a unit circle and a 100x100 square.
type exampleScene struct{}

func (exampleScene) OnRender(c *scene.Canvas) {
	c.Draw(scene.Circle(0, 0, 1))
	c.Draw(scene.Rect(0, 0, 100, 100))
}

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	options, err := cfg.EngineOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	options = append(options, engine.WithScene(exampleScene{}))

	common.Logger().Info("starting", "title", cfg.Window.Title, "objects", cfg.ObjectCount())
	e := engine.NewEngine(options...)
	e.Run()
	fmt.Println(e.Canvas())
}
