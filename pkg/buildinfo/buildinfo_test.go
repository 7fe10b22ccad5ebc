package buildinfo

import (
	"testing"
)

func TestBinaryVersionDefault(t *testing.T) {
	if BinaryVersion != "dev" {
		t.Errorf("Expected BinaryVersion to be 'dev', got '%s'", BinaryVersion)
	}
}

func TestModuleVersionSkipsDevel(t *testing.T) {
	if v := ModuleVersion(); v == "(devel)" {
		t.Errorf("ModuleVersion() should not report (devel)")
	}
}

func TestVersionPrefersBinaryVersion(t *testing.T) {
	original := BinaryVersion
	defer func() { BinaryVersion = original }()

	BinaryVersion = "v1.4.0"
	if got := Version(); got != "v1.4.0" {
		t.Errorf("Version() = %q, expected v1.4.0", got)
	}

	BinaryVersion = "dev"
	if got := Version(); got == "" {
		t.Error("Version() should never be empty")
	}
}
