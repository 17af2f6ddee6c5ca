package curry

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sourcewave/neuroio/internal/types"
)

// paramKeys lists the accepted key spellings: one CamelCase and one
// underscore variant per logical parameter. The first seven entries are
// the canonical spellings used for the required-key check.
var paramKeys = []string{
	"NumSamples", "NumChannels", "NumTrials", "SampleFreqHz",
	"TriggerOffsetUsec", "DataFormat", "SampleTimeUsec",
	"NUM_SAMPLES", "NUM_CHANNELS", "NUM_TRIALS", "SAMPLE_FREQ_HZ",
	"TRIGGER_OFFSET_USEC", "DATA_FORMAT", "SAMPLE_TIME_USEC",
}

// normalizeKey folds both accepted spellings of a parameter key onto one
// lookup key: lowercase with underscores removed.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "")
}

// ReadParams scans the parameter file and extracts the seven required
// scalar parameters plus the per-kind device unit strings.
//
// Parameter lines are recognized by substring containment of any accepted
// key spelling, not by strict line-format parsing; a key appearing inside
// an unrelated value would false-positive match. This mirrors the
// acquisition software's own permissive files.
func ReadParams(path string) (types.Parameters, map[types.ChannelKind]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Parameters{}, nil, fmt.Errorf("open parameter file: %w", err)
	}
	defer f.Close()

	raw := make(map[string]string)
	units := make(map[types.ChannelKind]string)

	scanner := bufio.NewScanner(f)
	var pendingUnit *types.ChannelKind
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if pendingUnit != nil {
			// The unit value sits on the line immediately following the
			// device-parameter marker; it is consumed whole and never
			// offered to the key matcher below.
			units[*pendingUnit] = valueAfterEquals(line)
			pendingUnit = nil
			continue
		}

		for _, key := range paramKeys {
			if strings.Contains(line, key) {
				k, v, found := strings.Cut(strings.ReplaceAll(line, " ", ""), "=")
				if found {
					raw[normalizeKey(k)] = v
				}
				break
			}
		}

		for _, kind := range types.Kinds() {
			if strings.Contains(line, "DEVICE_PARAMETERS"+kind.BlockSuffix()+" START") {
				k := kind
				pendingUnit = &k
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return types.Parameters{}, nil, fmt.Errorf("scan parameter file: %w", err)
	}

	for _, key := range paramKeys[:7] {
		if _, ok := raw[normalizeKey(key)]; !ok {
			return types.Parameters{}, nil, &types.MissingParameterError{Key: key, Path: path}
		}
	}

	p, err := buildParams(raw)
	if err != nil {
		return types.Parameters{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, units, nil
}

// valueAfterEquals extracts the value of a "KEY = VALUE" line, tolerating
// arbitrary whitespace. For lines with no "=" the whole stripped line is
// returned.
func valueAfterEquals(line string) string {
	stripped := strings.ReplaceAll(strings.TrimRight(line, "\r\n"), " ", "")
	if i := strings.LastIndex(stripped, "="); i >= 0 {
		return stripped[i+1:]
	}
	return stripped
}

func buildParams(raw map[string]string) (types.Parameters, error) {
	var p types.Parameters
	var err error

	if p.SampleCount, err = strconv.Atoi(raw["numsamples"]); err != nil {
		return p, fmt.Errorf("parse NumSamples: %w", err)
	}
	if p.ChannelCount, err = strconv.Atoi(raw["numchannels"]); err != nil {
		return p, fmt.Errorf("parse NumChannels: %w", err)
	}
	if p.TrialCount, err = strconv.Atoi(raw["numtrials"]); err != nil {
		return p, fmt.Errorf("parse NumTrials: %w", err)
	}
	if p.SampleRate, err = strconv.ParseFloat(raw["samplefreqhz"], 64); err != nil {
		return p, fmt.Errorf("parse SampleFreqHz: %w", err)
	}

	offsetUsec, err := strconv.ParseFloat(raw["triggeroffsetusec"], 64)
	if err != nil {
		return p, fmt.Errorf("parse TriggerOffsetUsec: %w", err)
	}
	p.TriggerOffset = offsetUsec * 1e-6

	stepUsec, err := strconv.ParseFloat(raw["sampletimeusec"], 64)
	if err != nil {
		return p, fmt.Errorf("parse SampleTimeUsec: %w", err)
	}
	p.SampleTime = stepUsec * 1e-6

	switch raw["dataformat"] {
	case "ASCII":
		p.Format = types.FormatASCII
	default:
		// Anything else is the raw little-endian float encoding.
		p.Format = types.FormatFloat
	}

	// Some files store a zero rate and rely on the per-sample step instead.
	if p.SampleRate == 0 && p.SampleTime != 0 {
		p.SampleRate = 1.0 / p.SampleTime
	}

	return p, nil
}
