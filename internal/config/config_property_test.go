package config

import (
	"testing"
	"testing/quick"
	"time"
)

// TestApplyDefaultsIdempotence verifies that applying defaults twice
// produces the same result as applying once.
func TestApplyDefaultsIdempotence(t *testing.T) {
	property := func(output, color, preset string, tick int64, messages bool) bool {
		newConfig := func() *Config {
			c := &Config{
				Output:       output,
				Color:        color,
				TickInterval: Duration(tick),
				Spinner:      SpinnerConfig{Preset: preset},
			}
			if messages {
				c.ShowIntermediateMessages = ptr(false)
			}
			return c
		}
		c1 := newConfig()
		c2 := newConfig()

		c1.applyDefaults()

		c2.applyDefaults()
		c2.applyDefaults()

		return c1.Output == c2.Output &&
			c1.Color == c2.Color &&
			c1.TickInterval == c2.TickInterval &&
			c1.FrameInterval == c2.FrameInterval &&
			c1.Spinner.Preset == c2.Spinner.Preset &&
			*c1.ShowIntermediateMessages == *c2.ShowIntermediateMessages &&
			*c1.ShowFinishedTasks == *c2.ShowFinishedTasks
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestApplyDefaultsPreservesExistingValues verifies that applyDefaults
// does not overwrite values that were set.
func TestApplyDefaultsPreservesExistingValues(t *testing.T) {
	property := func(output, color string, tick, frame int64, finished bool) bool {
		c := &Config{
			Output:            output,
			Color:             color,
			TickInterval:      Duration(tick),
			FrameInterval:     Duration(frame),
			ShowFinishedTasks: ptr(finished),
		}

		c.applyDefaults()

		if output != "" && c.Output != output {
			return false
		}
		if color != "" && c.Color != color {
			return false
		}
		if tick != 0 && c.TickInterval != Duration(tick) {
			return false
		}
		if frame != 0 && c.FrameInterval != Duration(frame) {
			return false
		}
		return *c.ShowFinishedTasks == finished
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestApplyDefaultsNonEmptyFields verifies that after applying defaults the
// optional fields are set.
func TestApplyDefaultsNonEmptyFields(t *testing.T) {
	property := func(output string, tick int64) bool {
		c := &Config{Output: output, TickInterval: Duration(tick)}
		c.applyDefaults()
		return c.Output != "" &&
			c.Color != "" &&
			c.TickInterval != 0 &&
			c.FrameInterval != 0 &&
			c.Spinner.Preset != "" &&
			c.ShowIntermediateMessages != nil &&
			c.ShowFinishedTasks != nil
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestValidateDeterminism verifies that validate produces the same result
// for the same config.
func TestValidateDeterminism(t *testing.T) {
	property := func(output, color, preset, mode string) bool {
		newConfig := func() *Config {
			c := &Config{
				Output:  output,
				Color:   color,
				Spinner: SpinnerConfig{Preset: preset, Mode: mode},
			}
			c.applyDefaults()
			return c
		}

		err1 := newConfig().validate()
		err2 := newConfig().validate()

		if err1 == nil && err2 == nil {
			return true
		}
		if err1 != nil && err2 != nil {
			return err1.Error() == err2.Error()
		}
		return false
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestFormatCarriesDurations verifies that every positive interval reaches
// the indicator options.
func TestFormatCarriesDurations(t *testing.T) {
	property := func(tick, frame uint32) bool {
		c := &Config{
			TickInterval:  Duration(time.Duration(tick) + 1),
			FrameInterval: Duration(time.Duration(frame) + 1),
		}
		c.applyDefaults()
		return c.validate() == nil && len(c.Options()) == 3
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
