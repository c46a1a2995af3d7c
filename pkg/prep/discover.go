package prep

import(
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Input frames follow the L1A panchromatic naming convention; nothing
// else in a collect directory is ours to touch.
var inputRE = regexp.MustCompile(`(?i).*_basic_l1a_panchromatic_dn\.tif$`)

// Sidecar suffixes, tried against the input's basename with its .tif
// stripped. Vendors are not consistent about case.
var sidecarSuffixes = []string{
	".RPB", ".rpb",
	"_RPC.TXT", "_rpc.txt",
	".json", ".JSON",
	"_metadata.json", "_METADATA.JSON",
	".imd", ".IMD",
	".xml", ".XML",
}

func IsInputFrame(name string) bool {
	return inputRE.MatchString(name)
}

// FindInputs lists the recognized frames in one source directory,
// sorted so batch ordering is stable run to run.
func FindInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("readdir '%s': %v", dir, err)
	}

	found := []string{}
	for _, e := range entries {
		if e.IsDir() || !IsInputFrame(e.Name()) {
			continue
		}
		found = append(found, filepath.Join(dir, e.Name()))
	}

	sort.Strings(found)
	return found, nil
}

// OutputName maps a source frame path into its prepped counterpart
// in outDir.
func OutputName(srcTif, outDir string) string {
	stem := strings.TrimSuffix(filepath.Base(srcTif), filepath.Ext(srcTif))
	return filepath.Join(outDir, stem+"_radprep.tif")
}

// SidecarPaths lists the sidecar files that actually exist next to a
// source frame.
func SidecarPaths(srcTif string) []string {
	stem := strings.TrimSuffix(srcTif, filepath.Ext(srcTif))

	found := []string{}
	for _, suf := range sidecarSuffixes {
		if cand := stem + suf; fileExists(cand) {
			found = append(found, cand)
		}
	}
	return found
}

// CopySidecars carries a frame's sidecars into the output directory,
// byte for byte. Already-present destination files are left alone, so
// a re-run doesn't clobber anything a later step wrote. Returns the
// basenames copied.
func CopySidecars(srcTif, dstDir string) ([]string, error) {
	copied := []string{}
	for _, src := range SidecarPaths(srcTif) {
		dst := filepath.Join(dstDir, filepath.Base(src))
		if !fileExists(dst) {
			if err := copyFile(src, dst); err != nil {
				return copied, err
			}
		}
		copied = append(copied, filepath.Base(src))
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	reader, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open+r '%s': %v", src, err)
	}
	defer reader.Close()

	writer, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", dst, err)
	}
	defer writer.Close()

	if _, err := io.Copy(writer, reader); err != nil {
		return fmt.Errorf("copy '%s' -> '%s': %v", src, dst, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
