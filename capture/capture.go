// This file is part of sidekicknet.
//
// sidekicknet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sidekicknet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with sidekicknet.  If not, see <https://www.gnu.org/licenses/>.

// Package capture records the output lines of the cartridge to a WAV file,
// one sample per scheduler pass. Opened in an audio editor the file is a
// logic analyser view of the NMI line against the network slots and DMA
// releases.
//
// Samples are buffered in memory and written when End() is called. It is
// therefore only suitable for short recordings.
package capture

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sidekick64/sidekicknet/curated"
	"github.com/sidekick64/sidekicknet/logger"
)

// Sentinal errors.
const (
	CaptureError = "capture: %v"
	CaptureFull  = "capture: recording full after %d passes"
)

// Channel order in the WAV file.
const (
	ChannelNMI = iota
	ChannelSlot
	ChannelDMA
	NumChannels
)

// SampleRate is the nominal rate of the recording. A pass is not a fixed
// length of time so the rate only sets the scale of the time axis.
const SampleRate = 48000

// MaxPasses is the longest recording allowed.
const MaxPasses = 10 * 60 * SampleRate

const (
	levelLow  = 0
	levelHigh = 255
)

// Recorder implements the scheduler.Probe interface.
type Recorder struct {
	filename string
	data     []int
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. Nothing is written to the file until End() is called.
func NewRecorder(filename string) *Recorder {
	return &Recorder{
		filename: filename,
		data:     make([]int, 0, SampleRate*NumChannels),
	}
}

func level(b bool) int {
	if b {
		return levelHigh
	}
	return levelLow
}

// Sample implements the scheduler.Probe interface. The NMI line is active
// low so an asserted NMI is recorded as a low level.
func (r *Recorder) Sample(nmi bool, slot bool, dma bool) error {
	if r.Passes() >= MaxPasses {
		return curated.Errorf(CaptureFull, MaxPasses)
	}
	r.data = append(r.data, level(!nmi), level(slot), level(dma))
	return nil
}

// Passes returns the number of passes recorded.
func (r *Recorder) Passes() int {
	return len(r.data) / NumChannels
}

// End the recording and write the WAV file.
func (r *Recorder) End() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return curated.Errorf(CaptureError, err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf(CaptureError, err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, 8, NumChannels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: NumChannels,
			SampleRate:  SampleRate,
		},
		Data:           r.data,
		SourceBitDepth: 8,
	}

	logger.Logf(logger.Allow, "capture", "writing %d passes to %s", r.Passes(), r.filename)

	if err := enc.Write(buf); err != nil {
		return curated.Errorf(CaptureError, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(CaptureError, err)
	}

	return nil
}
