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

package scheduler

import (
	"context"

	"github.com/sidekick64/sidekicknet/logger"
	"github.com/sidekick64/sidekicknet/network/screen"
)

// DefaultRefreshTimeout is the number of slots before the screen is refreshed
// after a download has been saved.
const DefaultRefreshTimeout = 5

// actions is the queue of pending network actions. At most one action is
// performed per slot.
type actions struct {
	networkInit bool
	download    bool
	keypress    bool
	save        bool

	// slots to wait before the next action
	delay int

	// the network has been initialised
	active bool

	key uint8

	refreshWaiting bool
	refreshTimeout int
	refreshSkipped int

	pending    screen.Download
	downloaded []byte

	downloadReady bool
	returnToMenu  bool
}

func (a *actions) any() bool {
	return a.networkInit || a.download || a.keypress || a.save || a.refreshWaiting
}

// QueueNetworkInit queues the initialisation of the network. It is performed
// by the second slot from now.
func (s *Scheduler) QueueNetworkInit() {
	s.actions.networkInit = true
	s.actions.delay = 1
}

// QueueKeypress queues a keypress for the screen server. If nothing else is
// queued then it is sent by the next slot.
func (s *Scheduler) QueueKeypress(key uint8) {
	if !s.actions.any() {
		s.actions.delay = 0
	}
	s.actions.keypress = true
	s.actions.key = key
}

// QueueDownload queues the download of a file.
func (s *Scheduler) QueueDownload(dl screen.Download) {
	s.actions.pending = dl
	s.actions.download = true
}

// QueueRefresh refreshes the screen after timeout slots with nothing else to
// do.
func (s *Scheduler) QueueRefresh(timeout int) {
	s.actions.refreshWaiting = true
	s.actions.refreshSkipped = 0
	s.actions.refreshTimeout = timeout
}

// CancelRefresh cancels a refresh queued by QueueRefresh().
func (s *Scheduler) CancelRefresh() {
	s.actions.refreshWaiting = false
}

// IsRefreshWaiting returns true if a refresh is queued.
func (s *Scheduler) IsRefreshWaiting() bool {
	return s.actions.refreshWaiting
}

// IsNetworkActive returns true once the network has been initialised.
func (s *Scheduler) IsNetworkActive() bool {
	return s.actions.active
}

// IsDownloadReady returns true if a download has completed and is ready to
// be launched.
func (s *Scheduler) IsDownloadReady() bool {
	return s.actions.downloadReady
}

// TakeDownload returns the completed download. IsDownloadReady() will return
// false until the next download completes.
func (s *Scheduler) TakeDownload() (screen.Download, []byte, bool) {
	if !s.actions.downloadReady {
		return screen.Download{}, nil, false
	}
	s.actions.downloadReady = false
	return s.actions.pending, s.actions.downloaded, true
}

// IsReturnToMenuRequired returns true once if the running program should be
// left. Subsequent calls return false until it is required again.
func (s *Scheduler) IsReturnToMenuRequired() bool {
	r := s.actions.returnToMenu
	s.actions.returnToMenu = false
	return r
}

// CheckForSaveableDownload writes a completed download to storage if one is
// waiting. Returns true if a download was saved. The interrupt is masked for
// the duration of the write.
func (s *Scheduler) CheckForSaveableDownload() bool {
	if !s.actions.save {
		return false
	}

	s.actions.save = false
	s.actions.keypress = false

	s.sk.IRQ.Critical(func() {
		pth := s.actions.pending.SavePath(s.prefs.Network.DownloadPath.String())
		logger.Logf(s.sk.Env, "scheduler", "writing download (%d bytes) to %s", len(s.actions.downloaded), pth)

		if s.col.Storage == nil {
			logger.Log(s.sk.Env, "scheduler", "no storage for download")
			return
		}
		if err := s.col.Storage.WriteFile(Drive, pth, s.actions.downloaded); err != nil {
			logger.Log(s.sk.Env, "scheduler", err)
			return
		}
		s.sk.WarmCaches(s.prefs.Timing.WarmPasses.Int())
	})

	s.screen.Redraw()
	s.QueueRefresh(DefaultRefreshTimeout)

	return true
}

// serviceActions performs at most one queued action.
func (s *Scheduler) serviceActions(ctx context.Context) {
	a := &s.actions

	if a.delay > 0 {
		a.delay--
		return
	}

	if a.networkInit {
		a.networkInit = false
		if !a.active {
			a.active = true
			logger.Logf(s.sk.Env, "scheduler", "network active. local address %s", s.col.LocalIP())
		}
		return
	}

	if !a.active {
		return
	}

	switch {
	case a.download:
		a.download = false
		s.fetchDownload(ctx)

	case a.keypress:
		s.updateScreen(ctx)
		a.keypress = false

	case a.refreshWaiting:
		if a.key == 0 {
			a.refreshSkipped++
			if a.refreshSkipped >= a.refreshTimeout {
				a.refreshWaiting = false
				a.refreshSkipped = 0
				a.refreshTimeout = 0
				s.updateScreen(ctx)
			}
		} else {
			s.updateScreen(ctx)
			a.keypress = false
		}
	}
}

// updateScreen sends the pending key to the screen server. A download
// command in the reply is queued.
func (s *Scheduler) updateScreen(ctx context.Context) {
	a := &s.actions
	key := a.key
	a.key = 0

	data, err := s.screen.Fetch(ctx, key)
	if err != nil {
		logger.Log(s.sk.Env, "scheduler", err)
		return
	}

	if len(data) > 0 && data[0] == screen.TypeDownload {
		dl, err := screen.ParseDownloadCommand(data)
		if err != nil {
			logger.Log(s.sk.Env, "scheduler", err)
			return
		}
		logger.Logf(s.sk.Env, "scheduler", "download of %s queued", dl.Filename)
		s.QueueDownload(dl)
		a.delay = 0
		return
	}

	if s.col.Screen != nil {
		s.col.Screen(data)
	}
}

func (s *Scheduler) fetchDownload(ctx context.Context) {
	a := &s.actions
	dl := a.pending

	data, err := s.col.Getter.Get(ctx, dl.Target, dl.Target.Path)
	if err != nil {
		logger.Log(s.sk.Env, "scheduler", err)
		return
	}

	logger.Logf(s.sk.Env, "scheduler", "downloaded %d bytes for %s", len(data), dl.Filename)
	a.downloaded = data

	if dl.Save {
		a.save = true
		return
	}

	a.downloadReady = true

	// a running program has to be left before the download can be launched
	if s.sk.Cart.Disabled() {
		a.returnToMenu = true
	}
}
