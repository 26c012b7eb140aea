package logdaemon

import "fmt"

// Select returns the candidate files that have reached the threshold, in
// input order. Paths that are missing or not regular files are logged and
// skipped. Calling Select does not change anything on disk.
func (e *Engine) Select() []string {
	var (
		now      = e.now()
		selected = []string{}
	)

	for _, fileName := range e.config.Files {
		info, err := e.filer.Stat(fileName)

		switch {
		case err != nil:
			e.log.Warn().Err(fmt.Errorf("%w: %w", ErrNotAFile, err)).Str("file", fileName).Msg("skipping")
			continue
		case !info.Mode().IsRegular():
			e.log.Warn().Err(ErrNotAFile).Str("file", fileName).Msg("skipping")
			continue
		}

		age := info.Age(now)
		if !e.config.Threshold.Exceeded(info.Size(), age) {
			e.log.Debug().Str("file", fileName).Int64("size", info.Size()).Dur("age", age).
				Stringer("threshold", e.config.Threshold).Msg("below threshold")

			continue
		}

		selected = append(selected, fileName)
	}

	return selected
}
