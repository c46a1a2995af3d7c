package prep

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsInputFrame(t *testing.T) {
	accept := []string{
		"20240114_181202_ssc9d1_0012_basic_l1a_panchromatic_dn.tif",
		"SCENE_BASIC_L1A_PANCHROMATIC_DN.TIF",
		"x_Basic_L1A_Panchromatic_Dn.Tif",
	}
	reject := []string{
		"20240114_181202_ssc9d1_0012_basic_l1a_panchromatic_dn.tif.aux.xml",
		"scene_basic_l1a_panchromatic_dn_radprep.tif",
		"scene_basic_l1a_analytic.tif",
		"scene_pansharpened.tif",
	}

	for _, name := range accept {
		if !IsInputFrame(name) {
			t.Errorf("rejected valid input '%s'", name)
		}
	}
	for _, name := range reject {
		if IsInputFrame(name) {
			t.Errorf("accepted non-input '%s'", name)
		}
	}
}

func TestFindInputsSorted(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"b_basic_l1a_panchromatic_dn.tif",
		"a_basic_l1a_panchromatic_dn.tif",
		"ignored.txt",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := FindInputs(dir)
	if err != nil {
		t.Fatalf("FindInputs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 inputs, got %v", got)
	}
	if filepath.Base(got[0]) != "a_basic_l1a_panchromatic_dn.tif" {
		t.Errorf("not sorted: %v", got)
	}
}

func TestOutputName(t *testing.T) {
	got := OutputName("/in/scene_basic_l1a_panchromatic_dn.tif", "/out")
	want := filepath.Join("/out", "scene_basic_l1a_panchromatic_dn_radprep.tif")
	if got != want {
		t.Errorf("OutputName: got %s, want %s", got, want)
	}
}

func TestCopySidecarsByteIdentical(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "scene_basic_l1a_panchromatic_dn.tif")

	if err := os.WriteFile(src, []byte("not really a tiff"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	payloads := map[string][]byte{
		"scene_basic_l1a_panchromatic_dn_RPC.TXT":       []byte("LINE_OFF: +1 pixels\n"),
		"scene_basic_l1a_panchromatic_dn_metadata.json": []byte(`{"sun_el": 41.2}`),
		"scene_basic_l1a_panchromatic_dn.xml":           []byte("<meta/>"),
	}
	for name, body := range payloads {
		if err := os.WriteFile(filepath.Join(srcDir, name), body, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// A neighbor that matches no suffix must be left behind
	if err := os.WriteFile(filepath.Join(srcDir, "scene_notes.txt"), []byte("n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	copied, err := CopySidecars(src, dstDir)
	if err != nil {
		t.Fatalf("CopySidecars: %v", err)
	}
	if len(copied) != len(payloads) {
		t.Fatalf("want %d sidecars, copied %v", len(payloads), copied)
	}

	for name, want := range payloads {
		got, err := os.ReadFile(filepath.Join(dstDir, name))
		if err != nil {
			t.Fatalf("read back '%s': %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("'%s' not byte-identical", name)
		}
	}
	if fileExists(filepath.Join(dstDir, "scene_notes.txt")) {
		t.Errorf("copied a non-sidecar neighbor")
	}
}

func TestCopySidecarsKeepsExisting(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "scene_basic_l1a_panchromatic_dn.tif")
	side := "scene_basic_l1a_panchromatic_dn.IMD"

	os.WriteFile(src, []byte("t"), 0644)
	os.WriteFile(filepath.Join(srcDir, side), []byte("new"), 0644)
	os.WriteFile(filepath.Join(dstDir, side), []byte("old"), 0644)

	if _, err := CopySidecars(src, dstDir); err != nil {
		t.Fatalf("CopySidecars: %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(dstDir, side))
	if string(got) != "old" {
		t.Errorf("existing destination sidecar was clobbered")
	}
}
