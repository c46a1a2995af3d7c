package prep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/radgeo/radprep/pkg/raster"
	"github.com/radgeo/radprep/pkg/rpc"
)

// writeSceneTIFF builds a small frame with a nodata margin and a
// bright interior, and saves it under the L1A naming convention.
func writeSceneTIFF(t *testing.T, dir, stem string) string {
	t.Helper()

	f := raster.NewFrame(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x == 0 || y == 0 {
				continue // nodata margin stays 0
			}
			f.Set(x, y, uint16(5000+x*600+y*120))
		}
	}

	path := filepath.Join(dir, stem+"_basic_l1a_panchromatic_dn.tif")
	if err := raster.SaveTIFF(f, path); err != nil {
		t.Fatalf("SaveTIFF: %v", err)
	}
	return path
}

func testConfig(pairs []Pair) Config {
	c := NewConfig()
	c.Pairs = pairs
	c.Workers = 2
	c.CLAHEClip = 0 // keep frame content simple to reason about
	return c
}

func TestBatchIsolatesFailures(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()

	good := writeSceneTIFF(t, srcDir, "scene_a")
	corrupt := filepath.Join(srcDir, "scene_b_basic_l1a_panchromatic_dn.tif")
	if err := os.WriteFile(corrupt, []byte("this is no tiff"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := testConfig([]Pair{{Src: srcDir, Out: outDir}})
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	pr, err := NewPrepper(c)
	if err != nil {
		t.Fatalf("NewPrepper: %v", err)
	}

	statuses := pr.RunBatch()
	if len(statuses) != 2 {
		t.Fatalf("want 2 statuses, got %d", len(statuses))
	}

	byStem := map[string]FrameStatus{}
	for _, st := range statuses {
		byStem[filepath.Base(st.Src)] = st
	}

	if st := byStem[filepath.Base(good)]; !st.OK() {
		t.Errorf("good frame failed: %v", st.Err)
	} else if !fileExists(st.Out) {
		t.Errorf("good frame produced no output file")
	}
	if st := byStem[filepath.Base(corrupt)]; st.OK() {
		t.Errorf("corrupt frame reported ok")
	}

	ok, failed := Summarize(statuses)
	if ok != 1 || failed != 1 {
		t.Errorf("summary: got %d/%d, want 1/1", ok, failed)
	}
}

func TestProcessOnePreservesNoData(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := writeSceneTIFF(t, srcDir, "scene")

	c := testConfig([]Pair{{Src: srcDir, Out: outDir}})
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	pr, err := NewPrepper(c)
	if err != nil {
		t.Fatalf("NewPrepper: %v", err)
	}

	st := pr.ProcessOne(src, outDir)
	if !st.OK() {
		t.Fatalf("ProcessOne: %v", st.Err)
	}

	out, err := raster.LoadTIFF(st.Out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if out.Width != 16 || out.Height != 16 {
		t.Fatalf("output dimensions drifted: %s", out)
	}

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := out.At(x, y)
			if x == 0 || y == 0 {
				if v != 0 {
					t.Fatalf("nodata at (%d,%d) rewritten to %d", x, y, v)
				}
			} else if v == 0 {
				t.Fatalf("valid sample at (%d,%d) collapsed onto the sentinel", x, y)
			}
		}
	}
}

func TestProcessOneCarriesRPCAndSidecars(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	src := writeSceneTIFF(t, srcDir, "scene")

	model := &rpc.Model{
		LineOff: 8, SampOff: 8, LatOff: 33.1, LongOff: -117.9, HeightOff: 45,
		LineScale: 8, SampScale: 8, LatScale: 0.05, LongScale: 0.05, HeightScale: 500,
	}
	model.LineNumCoeff[0] = 1
	model.LineDenCoeff[0] = 1
	model.SampNumCoeff[0] = 1
	model.SampDenCoeff[0] = 1

	stem := filepath.Join(srcDir, "scene_basic_l1a_panchromatic_dn")
	if err := rpc.SaveText(model, stem+"_RPC.TXT"); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	if err := os.WriteFile(stem+"_metadata.json", []byte("{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := testConfig([]Pair{{Src: srcDir, Out: outDir}})
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	pr, err := NewPrepper(c)
	if err != nil {
		t.Fatalf("NewPrepper: %v", err)
	}

	st := pr.ProcessOne(src, outDir)
	if !st.OK() {
		t.Fatalf("ProcessOne: %v", st.Err)
	}
	if st.RPCFrom == "" {
		t.Errorf("rpc not recovered")
	}
	if len(st.Sidecars) != 2 {
		t.Errorf("want 2 sidecars, got %v", st.Sidecars)
	}

	outSidecar := filepath.Join(outDir, "scene_basic_l1a_panchromatic_dn_radprep_RPC.TXT")
	got, err := rpc.LoadText(outSidecar)
	if err != nil {
		t.Fatalf("output rpc sidecar: %v", err)
	}
	if *got != *model {
		t.Errorf("carried rpc drifted")
	}
}

func TestRecoverRPCPrefersTextSidecar(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scene_basic_l1a_panchromatic_dn.tif")
	os.WriteFile(src, []byte("t"), 0644)

	model := &rpc.Model{
		LineOff: 1, SampOff: 2, LatOff: 3, LongOff: 4, HeightOff: 5,
		LineScale: 6, SampScale: 7, LatScale: 8, LongScale: 9, HeightScale: 10,
	}
	model.LineDenCoeff[0] = 1
	model.SampDenCoeff[0] = 1

	stem := filepath.Join(dir, "scene_basic_l1a_panchromatic_dn")
	if err := rpc.SaveText(model, stem+"_RPC.TXT"); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	// A decoy .RPB that would fail parsing if it were preferred
	os.WriteFile(stem+".RPB", []byte("garbage"), 0644)

	got, from, err := RecoverRPC(src)
	if err != nil {
		t.Fatalf("RecoverRPC: %v", err)
	}
	if from != "scene_basic_l1a_panchromatic_dn_RPC.TXT" {
		t.Errorf("recovered from '%s', want the text sidecar", from)
	}
	if *got != *model {
		t.Errorf("recovered model drifted")
	}
}

func TestRecoverRPCNothingThere(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scene_basic_l1a_panchromatic_dn.tif")
	os.WriteFile(src, []byte("not a tiff"), 0644)

	if _, _, err := RecoverRPC(src); err == nil {
		t.Errorf("recovered rpc from thin air")
	}
}
