//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with the given configuration file and writes the last frame.
func (Run) Testbed(config string) error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", config), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed with rlgo.toml.
func (Run) Default() error {
	return Run{}.Testbed("rlgo.toml")
}
