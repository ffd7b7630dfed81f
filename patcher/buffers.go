package patcher

import (
	"sort"

	"github.com/erraggy/cfgtools/cfgerrors"
)

// BufferSystem identifies a supported filament-buffer hardware variant.
type BufferSystem string

const (
	// BufferTurtleNeck is the original TurtleNeck buffer.
	BufferTurtleNeck BufferSystem = "TurtleNeck"

	// BufferTurtleNeckV2 is the TurtleNeck 2.0 buffer with its own MCU.
	BufferTurtleNeckV2 BufferSystem = "TurtleNeckV2"

	// BufferAnnexBelay is the Annex Engineering Belay buffer.
	BufferAnnexBelay BufferSystem = "AnnexBelay"
)

// bufferConfig couples a buffer variant with its short symbolic name, its
// configuration block template, and (for variants carrying their own MCU) the
// include line to add to the mcu include group.
type bufferConfig struct {
	// name is the symbolic name other sections refer to (buffer: <name>).
	name string

	// block is the configuration block appended to the hardware config.
	// The first line doubles as the presence probe.
	block []string

	// mcuInclude is inserted into the mcu config after the last existing
	// "[include mcu/" line; empty when the variant has no MCU of its own.
	mcuInclude string
}

// bufferConfigs is the closed registry of supported buffer systems. Templates
// are compiled into the tool, not user-supplied.
var bufferConfigs = map[BufferSystem]bufferConfig{
	BufferTurtleNeck: {
		name: "TN",
		block: []string{
			"[AFC_buffer TN]",
			"advance_pin:     # set advance pin",
			"trailing_pin:    # set trailing pin",
			"multiplier_high: 1.05   # default 1.05",
			"multiplier_low:  0.95   # default 0.95",
		},
	},
	BufferTurtleNeckV2: {
		name: "TN2",
		block: []string{
			"[AFC_buffer TN2]",
			"advance_pin: !turtleneck:LED_F",
			"trailing_pin: !turtleneck:LED_R",
			"multiplier_high: 1.05   # default 1.05",
			"multiplier_low:  0.95   # default 0.95",
			"led_index: Buffer_Indicator:1",
			"",
			"[AFC_led Buffer_Indicator]",
			"pin: turtleneck:RGB",
			"chain_count: 1",
			"color_order: GRBW",
			"initial_RED: 0.0",
			"initial_GREEN: 0.0",
			"initial_BLUE: 0.0",
			"initial_WHITE: 0.0",
		},
		mcuInclude: "[include mcu/TurtleNeckV2.cfg]",
	},
	BufferAnnexBelay: {
		name: "Belay",
		block: []string{
			"[AFC_buffer Belay]",
			"pin: mcu:BELAY_SENSOR",
			"distance: 12",
		},
	},
}

// mcuIncludePrefix anchors insertion of new mcu includes: they are grouped
// after the last existing line starting with this prefix.
const mcuIncludePrefix = "[include mcu/"

// ValidBufferSystems returns the supported buffer systems, sorted.
func ValidBufferSystems() []string {
	systems := make([]string, 0, len(bufferConfigs))
	for bs := range bufferConfigs {
		systems = append(systems, string(bs))
	}
	sort.Strings(systems)
	return systems
}

// BufferName returns the short symbolic name for a buffer system
// (e.g. "TN" for TurtleNeck), for use in buffer: references.
func BufferName(buffer BufferSystem) (string, error) {
	cfg, ok := bufferConfigs[buffer]
	if !ok {
		return "", &cfgerrors.InvalidInputError{Kind: "buffer", Value: string(buffer), Valid: ValidBufferSystems()}
	}
	return cfg.name, nil
}

// InjectBufferBlock appends the configuration block for the given buffer
// system to the hardware config at hardwarePath, unless the block's first
// line is already present anywhere in that file.
//
// For buffer systems with their own MCU (TurtleNeckV2), the matching include
// line is additionally inserted into the mcu config at mcuPath, immediately
// after the last existing "[include mcu/" line so it stays grouped with its
// peers, and skipped if already present.
//
// Unlike the other operations, an unknown buffer system is a caller error:
// InjectBufferBlock returns a *cfgerrors.InvalidInputError and modifies
// nothing.
func (p *Patcher) InjectBufferBlock(hardwarePath, mcuPath string, buffer BufferSystem) (*Result, error) {
	result := &Result{Op: OpInjectBuffer, Path: hardwarePath}

	cfg, ok := bufferConfigs[buffer]
	if !ok {
		result.Outcome = OutcomeInvalidInput
		result.Reason = "unknown buffer system: " + string(buffer)
		p.log().Error("unknown buffer system", "buffer", string(buffer))
		return result, &cfgerrors.InvalidInputError{Kind: "buffer", Value: string(buffer), Valid: ValidBufferSystems()}
	}

	d, err := loadDocument(OpInjectBuffer, hardwarePath)
	if err != nil {
		return nil, err
	}

	blockPresent := d.containsLine(cfg.block[0])
	if !blockPresent {
		at := len(d.lines)
		appended := append([]string{""}, cfg.block...)
		d.insertAt(at, appended...)
		for i, line := range appended {
			result.Changes = append(result.Changes, ChangeRecord{
				Line:  at + i + 1,
				Kind:  "append",
				After: line,
			})
		}
		if err := p.commit(OpInjectBuffer, d, result); err != nil {
			return nil, err
		}
		p.log().Info("buffer block appended", "path", hardwarePath, "buffer", string(buffer))
	} else {
		p.log().Warn("buffer block already exists", "path", hardwarePath, "buffer", string(buffer))
	}

	includeDone, err := p.injectBufferMCUInclude(mcuPath, cfg, result)
	if err != nil {
		return nil, err
	}

	if blockPresent && !includeDone {
		result.Outcome = OutcomeAlreadyPresent
		result.Reason = "buffer block already exists"
		return result, nil
	}
	result.Outcome = OutcomeApplied
	return result, nil
}

// injectBufferMCUInclude adds the variant's mcu include line, if any.
// Reports whether the mcu config was modified.
func (p *Patcher) injectBufferMCUInclude(mcuPath string, cfg bufferConfig, result *Result) (bool, error) {
	if cfg.mcuInclude == "" || mcuPath == "" {
		return false, nil
	}

	d, err := loadDocument(OpInjectBuffer, mcuPath)
	if err != nil {
		return false, err
	}

	if d.containsLine(cfg.mcuInclude) {
		p.log().Info("buffer mcu include already present", "path", mcuPath)
		return false, nil
	}

	at := d.lastIndexWithPrefix(mcuIncludePrefix) + 1
	if at == 0 {
		// No peer group to join; fall back to appending at end of file.
		at = len(d.lines)
	}
	d.insertAt(at, cfg.mcuInclude)
	result.Changes = append(result.Changes, ChangeRecord{
		Line:  at + 1,
		Kind:  "insert",
		After: cfg.mcuInclude,
	})
	if err := p.commit(OpInjectBuffer, d, result); err != nil {
		return false, err
	}
	p.log().Info("buffer mcu include added", "path", mcuPath, "line", at+1)
	return true, nil
}
