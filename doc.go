// Package neuroio reads Curry-style EEG/MEG acquisition file families and
// provides a container for time-frequency transformed source-space data.
//
// # Reading a recording
//
// A recording is a family of companion files sharing one base path: a
// parameter file, a label/sensor file, a sample data file, and optionally
// an event file. Open accepts any member of the family and locates the
// rest:
//
//	rec, err := neuroio.Open("subject01.dat", neuroio.WithEvents())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer rec.Close()
//
//	fmt.Printf("%d channels at %g Hz\n", len(rec.Channels), rec.SampleRate)
//
// Two on-disk format generations are supported and detected from the file
// extension: the classic four-file layout (.dap/.rs3/.dat/.cef) and the
// newer .cdt family, which merges parameters and labels into one companion.
//
// # Source time-frequency data
//
// SourceTFR holds time-frequency transformed data in brain-source space.
// It accepts either a dense array or a factored kernel × sensor-data pair;
// the factored form is expanded lazily on first access to the data, so
// cheap operations like cropping never pay for the full source-space
// array:
//
//	stfr, err := neuroio.NewSourceTFR(
//		neuroio.FactoredData{Kernel: kernel, SensorData: sens},
//		vertices, 0, 0.001,
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	stfr.Crop(0.1, 0.4) // still factored
//	data := stfr.Data() // collapses to dense
//
// # Error handling
//
// Fatal conditions surface as typed errors: a missing companion file, a
// missing required parameter key, a broken array-shape invariant, or an
// unsupported use of the API. All operations fail fast; partially
// constructed objects are never returned.
package neuroio
