// Package curry reads the Curry-style acquisition file family: the
// parameter, label/sensor, sample data, and event files that together make
// up one recording, in either of the two on-disk format generations.
package curry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcewave/neuroio/internal/types"
)

// Per-generation companion file extensions.
var (
	paramsExt = map[types.Generation]string{types.Gen7: ".dap", types.Gen8: ".cdt.dpa"}
	labelExt  = map[types.Generation]string{types.Gen7: ".rs3", types.Gen8: ".cdt.dpa"}
	dataExt   = map[types.Generation]string{types.Gen7: ".dat", types.Gen8: ".cdt"}
	eventExts = map[types.Generation][]string{
		types.Gen7: {".cef", ".ceo"},
		types.Gen8: {".cdt.cef", ".cdt.ceo"},
	}

	// requiredExts lists the companion files that must exist beside the
	// input before any parsing starts.
	requiredExts = map[types.Generation][]string{
		types.Gen7: {".dap", ".dat", ".rs3"},
		types.Gen8: {".cdt", ".cdt.dpa"},
	}
)

// SplitBase splits an input path into the shared base path and its compound
// extension. Extensions like ".cdt.dpa" span several dots, so everything
// after the first dot of the file name counts as the extension.
func SplitBase(path string) (base, ext string) {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	stem, ext, found := strings.Cut(name, ".")
	if !found {
		return path, ""
	}
	return filepath.Join(dir, stem), ext
}

// DetectGeneration determines the format generation from the compound
// extension: any extension mentioning the generation-8 data container
// selects generation 8, everything else is generation 7.
func DetectGeneration(ext string) types.Generation {
	if strings.Contains(ext, "cdt") {
		return types.Gen8
	}
	return types.Gen7
}

// ParamsPath returns the parameter file path for the given base and generation.
func ParamsPath(base string, gen types.Generation) string {
	return base + paramsExt[gen]
}

// LabelPath returns the label/sensor file path for the given base and generation.
func LabelPath(base string, gen types.Generation) string {
	return base + labelExt[gen]
}

// DataPath returns the sample data file path for the given base and generation.
func DataPath(base string, gen types.Generation) string {
	return base + dataExt[gen]
}

// EventPath returns the path of the first event companion file that exists
// beside the base path, or "" if the recording has no event file. Both the
// saved (.cef) and the acquisition-time (.ceo) variant are probed.
func EventPath(base string, gen types.Generation) string {
	for _, ext := range eventExts[gen] {
		p := base + ext
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// EventExtensions returns the accepted event file extensions across both
// generations.
func EventExtensions() []string {
	return []string{".cef", ".ceo", ".cdt.cef", ".cdt.ceo"}
}

// CheckCompanions verifies that every required companion file for the
// generation exists beside the input file. It runs before any parsing, so
// a failed check never leaves partial state behind. The returned error
// names both the missing file and the input it was expected alongside.
func CheckCompanions(base, input string, gen types.Generation) error {
	for _, ext := range requiredExts[gen] {
		p := base + ext
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return &types.MissingFileError{Missing: p, Beside: input}
		}
	}
	return nil
}
