package curry

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcewave/neuroio/internal/types"
)

// writeGen7Family writes a minimal but complete generation-7 recording
// (.dap, .rs3, .dat, .cef) into dir and returns the base path.
func writeGen7Family(t *testing.T, dir string) string {
	t.Helper()
	base := filepath.Join(dir, "rec")

	dap := strings.Join([]string{
		"DATA_PARAMETERS START",
		"NumSamples = 4",
		"NumChannels = 3",
		"NumTrials = 1",
		"SampleFreqHz = 0",
		"TriggerOffsetUsec = 0",
		"DataFormat = FLOAT",
		"SampleTimeUsec = 10000",
		"DATA_PARAMETERS END",
		"",
		"DEVICE_PARAMETERS_MAG1 START",
		"DataUnits = fT",
		"DEVICE_PARAMETERS_MAG1 END",
		"",
		"DEVICE_PARAMETERS START",
		"DataUnits = uV",
		"DEVICE_PARAMETERS END",
		"",
		"DEVICE_PARAMETERS_OTHERS START",
		"DataUnits = mixed",
		"DEVICE_PARAMETERS_OTHERS END",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(base+".dap", []byte(dap), 0o644))

	rs3 := strings.Join([]string{
		"LABELS_MAG1 START_LIST",
		"MEG001",
		"LABELS_MAG1 END_LIST",
		"SENSORS_MAG1 START_LIST",
		"0.1\t0.2\t0.3",
		"SENSORS_MAG1 END_LIST",
		"LABELS START_LIST",
		"Cz",
		"LABELS END_LIST",
		"SENSORS START_LIST",
		"1.0\t2.0\t3.0",
		"SENSORS END_LIST",
		"LABELS_OTHERS START_LIST",
		"Trigger",
		"LABELS_OTHERS END_LIST",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(base+".rs3", []byte(rs3), 0o644))

	// 4 samples x 3 channels, frame-per-sample little-endian float32.
	buf := &bytes.Buffer{}
	for s := 0; s < 4; s++ {
		for c := 0; c < 3; c++ {
			v := float32(s*10 + c)
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
			buf.Write(b)
		}
	}
	require.NoError(t, os.WriteFile(base+".dat", buf.Bytes(), 0o644))

	cef := strings.Join([]string{
		"NUMBER_LIST START_LIST",
		"12\t0\t1",
		"40\t0\t2",
		"77\t0\t1",
		"NUMBER_LIST END_LIST",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(base+".cef", []byte(cef), 0o644))

	return base
}

func TestSplitBase(t *testing.T) {
	base, ext := SplitBase(filepath.Join("some", "dir", "rec.cdt.dpa"))
	assert.Equal(t, filepath.Join("some", "dir", "rec"), base)
	assert.Equal(t, "cdt.dpa", ext)

	base, ext = SplitBase(filepath.Join("d", "rec.dat"))
	assert.Equal(t, filepath.Join("d", "rec"), base)
	assert.Equal(t, "dat", ext)
}

func TestDetectGeneration(t *testing.T) {
	assert.Equal(t, types.Gen8, DetectGeneration("cdt"))
	assert.Equal(t, types.Gen8, DetectGeneration("cdt.dpa"))
	assert.Equal(t, types.Gen8, DetectGeneration("cdt.cef"))
	assert.Equal(t, types.Gen7, DetectGeneration("dap"))
	assert.Equal(t, types.Gen7, DetectGeneration("dat"))
	assert.Equal(t, types.Gen7, DetectGeneration("cef"))
}

func TestCheckCompanions(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	require.NoError(t, CheckCompanions(base, base+".dat", types.Gen7))

	require.NoError(t, os.Remove(base+".rs3"))
	err := CheckCompanions(base, base+".dat", types.Gen7)
	require.Error(t, err)

	var missing *types.MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, base+".rs3", missing.Missing)
	assert.Equal(t, base+".dat", missing.Beside)
}

func TestReadParams(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	p, units, err := ReadParams(base + ".dap")
	require.NoError(t, err)

	assert.Equal(t, 4, p.SampleCount)
	assert.Equal(t, 3, p.ChannelCount)
	assert.Equal(t, 1, p.TrialCount)
	assert.Equal(t, types.FormatFloat, p.Format)
	assert.Equal(t, 0.0, p.TriggerOffset)
	assert.InDelta(t, 0.01, p.SampleTime, 1e-12)

	// SampleFreqHz is zero in the file, so the rate is derived from the
	// 10000 usec per-sample step.
	assert.InDelta(t, 100.0, p.SampleRate, 1e-9)

	assert.Equal(t, "fT", units[types.KindMagnetic])
	assert.Equal(t, "uV", units[types.KindElectric])
	assert.Equal(t, "mixed", units[types.KindMisc])
}

func TestReadParams_UnderscoreSpellings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.cdt.dpa")
	content := strings.Join([]string{
		"NUM_SAMPLES = 10",
		"NUM_CHANNELS = 2",
		"NUM_TRIALS = 1",
		"SAMPLE_FREQ_HZ = 500",
		"TRIGGER_OFFSET_USEC = -200000",
		"DATA_FORMAT = ASCII",
		"SAMPLE_TIME_USEC = 2000",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, _, err := ReadParams(path)
	require.NoError(t, err)
	assert.Equal(t, 10, p.SampleCount)
	assert.Equal(t, 2, p.ChannelCount)
	assert.Equal(t, 500.0, p.SampleRate)
	assert.InDelta(t, -0.2, p.TriggerOffset, 1e-12)
	assert.Equal(t, types.FormatASCII, p.Format)
}

func TestReadParams_MissingKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dap")
	content := strings.Join([]string{
		"NumSamples = 10",
		"NumChannels = 2",
		// NumTrials intentionally absent.
		"SampleFreqHz = 500",
		"TriggerOffsetUsec = 0",
		"DataFormat = FLOAT",
		"SampleTimeUsec = 2000",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, err := ReadParams(path)
	require.Error(t, err)

	var missing *types.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "NumTrials", missing.Key)
}

func TestReadChannels(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	_, units, err := ReadParams(base + ".dap")
	require.NoError(t, err)

	channels, err := ReadChannels(base+".rs3", units, nil)
	require.NoError(t, err)
	require.Len(t, channels, 3)

	mag := channels[0]
	assert.Equal(t, "MEG001", mag.Name)
	assert.Equal(t, types.KindMagnetic, mag.Kind)
	assert.Equal(t, "fT", mag.Unit)
	assert.Equal(t, 1e-15, mag.Cal)
	require.NotNil(t, mag.Loc)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, *mag.Loc)

	eeg := channels[1]
	assert.Equal(t, "Cz", eeg.Name)
	assert.Equal(t, types.KindElectric, eeg.Kind)
	assert.Equal(t, 1e-6, eeg.Cal)
	require.NotNil(t, eeg.Loc)
	assert.Equal(t, [3]float64{1, 2, 3}, *eeg.Loc)

	misc := channels[2]
	assert.Equal(t, "Trigger", misc.Name)
	assert.Equal(t, types.KindMisc, misc.Kind)
	assert.Equal(t, "mixed", misc.Unit)
	assert.Equal(t, 1.0, misc.Cal, "unrecognized units pass through uncalibrated")
	assert.Nil(t, misc.Loc)
}

func TestReadChannels_ThreeMagLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.rs3")
	content := strings.Join([]string{
		"LABELS_MAG1 START_LIST",
		"MEG001",
		"MEG002",
		"MEG003",
		"LABELS_MAG1 END_LIST",
		"SENSORS_MAG1 START_LIST",
		"1\t0\t0",
		"0\t1\t0",
		"0\t0\t1",
		"SENSORS_MAG1 END_LIST",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	channels, err := ReadChannels(path, map[types.ChannelKind]string{types.KindMagnetic: "fT"}, nil)
	require.NoError(t, err)
	require.Len(t, channels, 3)
	assert.Equal(t, "MEG001", channels[0].Name)
	assert.Equal(t, "MEG002", channels[1].Name)
	assert.Equal(t, "MEG003", channels[2].Name)
	for _, ch := range channels {
		assert.Equal(t, types.KindMagnetic, ch.Kind)
	}
}

func TestReadChannels_CustomCalibration(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	channels, err := ReadChannels(base+".rs3",
		map[types.ChannelKind]string{types.KindMisc: "counts"},
		map[string]float64{"counts": 0.5})
	require.NoError(t, err)

	var misc *types.Channel
	for i := range channels {
		if channels[i].Kind == types.KindMisc {
			misc = &channels[i]
		}
	}
	require.NotNil(t, misc)
	assert.Equal(t, 0.5, misc.Cal)
}

func TestReadChannels_MissingSensorRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.rs3")
	content := strings.Join([]string{
		"LABELS_MAG1 START_LIST",
		"MEG001",
		"MEG002",
		"LABELS_MAG1 END_LIST",
		"SENSORS_MAG1 START_LIST",
		"1\t0\t0",
		"SENSORS_MAG1 END_LIST",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadChannels(path, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEG002")
}

func TestReadEvents(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	events, err := ReadEvents(base + ".cef")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, types.Event{Sample: 12, Aux: 0, Code: 1}, events[0])
	assert.Equal(t, types.Event{Sample: 40, Aux: 0, Code: 2}, events[1])
	assert.Equal(t, types.Event{Sample: 77, Aux: 0, Code: 1}, events[2])
}

func TestReadEvents_CodeFilter(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	events, err := ReadEvents(base+".cef", 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, 1, ev.Code)
	}
}

func TestReadEvents_BadExtension(t *testing.T) {
	_, err := ReadEvents("whatever.txt")
	require.Error(t, err)

	var usage *types.UsageError
	require.ErrorAs(t, err, &usage)
}

func TestReadEvents_MalformedInteger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.cef")
	content := "NUMBER_LIST START_LIST\n12\txx\t1\nNUMBER_LIST END_LIST\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadEvents(path)
	require.Error(t, err)

	var numErr *strconv.NumError
	require.ErrorAs(t, err, &numErr, "conversion failure propagates unwrapped")
}

func TestDataReader_Binary(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	p, _, err := ReadParams(base + ".dap")
	require.NoError(t, err)

	d, err := OpenData(base+".dat", p, []float64{1, 2, 1})
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 4, d.SampleCount())
	assert.Equal(t, 3, d.ChannelCount())

	all, err := d.Samples()
	require.NoError(t, err)
	require.Len(t, all, 3)

	// File frame (s, c) holds s*10+c; channel 1 is scaled by cal 2.
	assert.Equal(t, []float64{0, 10, 20, 30}, all[0])
	assert.Equal(t, []float64{2, 22, 42, 62}, all[1])
	assert.Equal(t, []float64{2, 12, 22, 32}, all[2])

	seg, err := d.ReadSegment(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, seg[0])
	assert.Equal(t, []float64{22, 42}, seg[1])

	_, err = d.ReadSegment(2, 9)
	require.Error(t, err)
}

func TestDataReader_ASCII(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dat")
	content := "0 1\n10 11\n20 21\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := types.Parameters{
		SampleCount:  3,
		ChannelCount: 2,
		TrialCount:   1,
		Format:       types.FormatASCII,
	}

	d, err := OpenData(path, p, []float64{1, 10})
	require.NoError(t, err)
	defer d.Close()

	all, err := d.Samples()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20}, all[0])
	assert.Equal(t, []float64{10, 110, 210}, all[1])
}

func TestDataReader_ASCIIRowMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dat")
	require.NoError(t, os.WriteFile(path, []byte("0 1 2\n"), 0o644))

	p := types.Parameters{SampleCount: 1, ChannelCount: 2, TrialCount: 1, Format: types.FormatASCII}
	_, err := OpenData(path, p, []float64{1, 1})
	require.Error(t, err)
}

func TestDataReader_CalibrationCountMismatch(t *testing.T) {
	dir := t.TempDir()
	base := writeGen7Family(t, dir)

	p, _, err := ReadParams(base + ".dap")
	require.NoError(t, err)

	_, err = OpenData(base+".dat", p, []float64{1})
	require.Error(t, err)
}
