// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// progressbarStyle used while timing executions.
var progressbarStyle = progressbar.ThemeASCII

// progressBatch is the number of executions timed between progress bar updates.
const progressBatch = 1000

// repeatWithProgress calls fn n times, and returns the time spent in fn, excluding the progress
// bar updates.
func repeatWithProgress(n int, fn func()) time.Duration {
	out := termenv.NewOutput(os.Stderr)
	bar := progressbar.NewOptions(n,
		progressbar.OptionSetDescription("executing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("executions"),
		progressbar.OptionSetTheme(progressbarStyle),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	out.HideCursor()
	defer out.ShowCursor()

	var elapsed time.Duration
	for done := 0; done < n; {
		batch := min(progressBatch, n-done)
		start := time.Now()
		for range batch {
			fn()
		}
		elapsed += time.Since(start)
		done += batch
		_ = bar.Add(batch)
	}
	_ = bar.Finish()
	return elapsed
}
