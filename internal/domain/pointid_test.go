package domain

import "testing"

func TestPointIDDeterministic(t *testing.T) {
	a := PointID("VENDOR-001")
	b := PointID("VENDOR-001")

	if a != b {
		t.Errorf("PointID not deterministic: %d != %d", a, b)
	}
}

func TestPointIDDistinct(t *testing.T) {
	ids := map[uint64]string{}

	for _, ext := range []string{"VENDOR-001", "VENDOR-002", "TENDER-001", "a", "b", ""} {
		id := PointID(ext)
		if prev, ok := ids[id]; ok {
			t.Errorf("PointID(%q) collides with PointID(%q): %d", ext, prev, id)
		}
		ids[id] = ext
	}
}

func TestPointIDRange(t *testing.T) {
	for _, ext := range []string{"", "x", "VENDOR-001", "very-long-external-identifier-with-suffix-12345"} {
		id := PointID(ext)
		if id >= 1<<31-1 {
			t.Errorf("PointID(%q) = %d, out of int32 range", ext, id)
		}
	}
}
