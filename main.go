/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/rlgo/engine"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/testbed"
)

const defaultConfigPath = "rlgo.toml"

func main() {
	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	config, err := engine.LoadApplicationConfig(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && len(os.Args) == 1:
		core.LogInfo("no %s found, using the default configuration", configPath)
		configPath = ""
	case err != nil:
		core.LogFatal("failed to load %s: %s", configPath, err)
	}

	tb := testbed.NewTestGame(&config, configPath)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("engine initialization failed: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
