//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - run unit tests
var Default = Test

// Build builds the phpunitbridge binary into bin/
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/phpunitbridge", "./cmd/phpunitbridge")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Cucumber runs the godog acceptance features
func Cucumber() error {
	return sh.RunV("go", "test", "-tags", "cucumber", "./tests/cucumber/...")
}

// Vet runs go vet on regular and cucumber-tagged sources
func Vet() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("vet failed: %w", err)
	}
	return sh.RunV("go", "vet", "-tags", "cucumber", "./tests/cucumber/...")
}

// QA runs vet, unit tests and acceptance features
func QA() {
	mg.SerialDeps(Vet, Test, Cucumber)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}
