package sim

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Steps <= 0 {
		t.Error("DefaultConfig has no steps")
	}
	if cfg.RecordEvery <= 0 {
		t.Error("DefaultConfig has invalid record interval")
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig does not validate: %v", err)
	}
}
