package patcher_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/erraggy/cfgtools/patcher"
)

// Example demonstrates adding the AFC include directive to a printer config.
func Example() {
	dir, err := os.MkdirTemp("", "cfgtools-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "printer.cfg")
	cfg := "[printer]\nkinematics: corexy\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		log.Fatal(err)
	}

	p := patcher.New()
	result, err := p.ManageInclude(path, patcher.IncludeAdd)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Outcome: %s\n", result.Outcome)
	fmt.Printf("Changes: %d\n", len(result.Changes))

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))

	// Output:
	// Outcome: applied
	// Changes: 1
	// [printer]
	// kinematics: corexy
	// [include AFC/*.cfg]
}

// Example_dryRun demonstrates previewing a change without writing it.
func Example_dryRun() {
	dir, err := os.MkdirTemp("", "cfgtools-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "AFC.cfg")
	cfg := "[AFC]\nspeed: 120\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		log.Fatal(err)
	}

	p := patcher.New()
	p.DryRun = true

	result, err := p.SetKeyValue(path, "speed", "200")
	if err != nil {
		log.Fatal(err)
	}

	for _, change := range result.Changes {
		fmt.Printf("line %d: %s -> %s\n", change.Line, change.Before, change.After)
	}

	// The file itself is untouched.
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))

	// Output:
	// line 2: speed: 120 -> speed: 200
	// [AFC]
	// speed: 120
}

// Example_injectBufferBlock demonstrates installing a buffer definition and
// its MCU include in one call.
func Example_injectBufferBlock() {
	dir, err := os.MkdirTemp("", "cfgtools-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	hardware := filepath.Join(dir, "AFC_Hardware.cfg")
	mcu := filepath.Join(dir, "AFC_Turtle.cfg")
	if err := os.WriteFile(hardware, []byte("[AFC_hub Turtle_1]\nswitch_pin: mcu:PB1\n"), 0o644); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(mcu, []byte("[include mcu/MMB_1.0.cfg]\n"), 0o644); err != nil {
		log.Fatal(err)
	}

	p := patcher.New()
	result, err := p.InjectBufferBlock(hardware, mcu, patcher.BufferTurtleNeck)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Outcome: %s\n", result.Outcome)

	data, err := os.ReadFile(hardware)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))

	// Output:
	// Outcome: applied
	// [AFC_hub Turtle_1]
	// switch_pin: mcu:PB1
	//
	// [AFC_buffer TN]
	// advance_pin:     # set advance pin
	// trailing_pin:    # set trailing pin
	// multiplier_high: 1.05   # default 1.05
	// multiplier_low:  0.95   # default 0.95
}
