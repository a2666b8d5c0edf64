//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests of every package.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the engine tests with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Runs the renderer tests with a coverage profile written to dir.
func (Test) Cover(dir string) error {
	_, err := executeCmd("go", withArgs("test", "-coverprofile=coverage.out", "./engine/renderer/..."), withDir(dir), withStream())
	return err
}
