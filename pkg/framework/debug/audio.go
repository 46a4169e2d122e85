package debug

import (
	"fmt"
	"math"
)

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Peak           float32
	RMS            float32
	DC             float32
	ClippedSamples int
	NaNCount       int
	ZeroCrossings  int
}

const (
	clippingThreshold = 0.99
	dcThreshold       = 0.01
	silenceThreshold  = 0.0001
)

// Clipping reports whether any sample reached the clipping threshold.
func (r AnalysisResult) Clipping() bool { return r.ClippedSamples > 0 }

// Silent reports whether the RMS level is below the silence threshold.
func (r AnalysisResult) Silent() bool { return r.RMS < silenceThreshold }

// String renders the level summary used by the CLI.
func (r AnalysisResult) String() string {
	if r.Silent() {
		return "silent"
	}
	return fmt.Sprintf("peak=%.3f rms=%.3f dc=%+.4f", r.Peak, r.RMS, r.DC)
}

// Analyze measures levels of one channel. NaN samples are counted and skipped.
func Analyze(buffer []float32) AnalysisResult {
	var result AnalysisResult
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var last float32
	valid := 0
	for _, sample := range buffer {
		if math.IsNaN(float64(sample)) {
			result.NaNCount++
			continue
		}

		abs := float32(math.Abs(float64(sample)))
		result.Peak = max(result.Peak, abs)
		if abs >= clippingThreshold {
			result.ClippedSamples++
		}

		sum += float64(sample)
		sumSquares += float64(sample) * float64(sample)

		if valid > 0 && (last < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		last = sample
		valid++
	}

	if valid > 0 {
		result.RMS = float32(math.Sqrt(sumSquares / float64(valid)))
		result.DC = float32(sum / float64(valid))
	}
	return result
}

// CheckBuffer performs basic sanity checks on an audio buffer.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string
	result := Analyze(buffer)

	if result.NaNCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, result.NaNCount))
	}
	if result.Clipping() {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, result.ClippedSamples))
	}
	if math.Abs(float64(result.DC)) > dcThreshold {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds 1.0 (%.3f)", name, result.Peak))
	}
	return issues
}

// LogBufferIssues logs every CheckBuffer finding at warn level.
func (l *Logger) LogBufferIssues(buffer []float32, name string) {
	for _, issue := range CheckBuffer(buffer, name) {
		l.Warn("audio buffer issue", "issue", issue)
	}
}
