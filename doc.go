// Package cfgtools provides targeted, idempotent patching of Klipper-style
// configuration files.
//
// cfgtools edits flat, line-oriented configuration files ([section] headers,
// key: value pairs, # comments) the way an installer does: it inserts, updates,
// uncomments, or removes specific constructs while leaving every unrelated line
// byte-for-byte intact, and every operation is safe to re-run any number of
// times.
//
// # Overview
//
// The library consists of two primary packages:
//
//   - patcher: the core patching operations (include directives, key-value
//     updates, section-scoped pin updates, board include uncommenting, buffer
//     block injection, section ensuring, path rewriting)
//   - plan: declarative YAML patch plans that batch patcher operations with
//     dry-run preview and strict mode
//
// Structured errors live in cfgerrors, and the cfgtools CLI under cmd/cfgtools
// exposes every operation as a command.
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/cfgtools
//
// # Quick Start
//
// Apply a single operation:
//
//	import "github.com/erraggy/cfgtools/patcher"
//
//	p := patcher.New()
//	result, err := p.ManageInclude("printer.cfg", patcher.IncludeAdd)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Outcome)
//
// Apply a plan:
//
//	import "github.com/erraggy/cfgtools/plan"
//
//	result, err := plan.ApplyWithOptions(
//		plan.WithPlanFilePath("install.yaml"),
//		plan.WithVars(map[string]string{"config_dir": "/home/pi/printer_data/config"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Applied %d actions\n", result.Applied)
//
// All file mutations are whole-file rewrites through a temporary file followed
// by an atomic rename, so an interrupted run never leaves a half-patched file.
package cfgtools
