package timeline

// MinAudibleDuration is the shortest effective track length worth mixing,
// in seconds. A remainder at or below this is dropped outright rather
// than trimmed to an imperceptible sliver.
const MinAudibleDuration = 0.01

// TrimWindow computes how much of a track actually fits inside the
// output. A track never extends the output: if it overhangs the target
// duration it is shortened to the remaining room, and if nothing usable
// remains it is dropped (ok=false).
func TrimWindow(startTime, sourceDuration, targetDuration float64) (effective float64, ok bool) {
	if startTime >= targetDuration {
		return 0, false
	}

	naturalEnd := startTime + sourceDuration
	if naturalEnd <= targetDuration {
		return sourceDuration, true
	}

	effective = targetDuration - startTime
	if effective <= MinAudibleDuration {
		return 0, false
	}
	return effective, true
}
