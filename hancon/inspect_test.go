package hancon

import "testing"

func TestDetectFormatHWP(t *testing.T) {
	data := append(append([]byte{}, HWP_SIGNATURE...), make([]byte, 16)...)
	format, err := DetectFormat(data)
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if format != FormatHWP {
		t.Errorf("format = %v, want HWP", format)
	}
}

func TestDetectFormatHWPX(t *testing.T) {
	format, err := DetectFormat([]byte("PK\x03\x04rest of the archive"))
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if format != FormatHWPX {
		t.Errorf("format = %v, want HWPX", format)
	}
}

func TestDetectFormatUnknown(t *testing.T) {
	if _, err := DetectFormat([]byte{1, 2, 3, 4, 5}); err == nil {
		t.Error("DetectFormat on an unknown prefix should fail")
	}
	if _, err := DetectFormat([]byte{1, 2}); err == nil {
		t.Error("DetectFormat on a 2-byte buffer should fail")
	}
	// A 7-byte OLE2 prefix is not enough for the 8-byte signature.
	if _, err := DetectFormat(HWP_SIGNATURE[:7]); err == nil {
		t.Error("DetectFormat on a truncated OLE2 signature should fail")
	}
}
