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

// Package dump writes the state of a running emulation as a graphviz
// digraph. The output can be rendered with the dot command:
//
//	sidekicknet DUMP program.prg | dot -Tsvg > state.svg
package dump

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/sidekick64/sidekicknet/hardware"
	"github.com/sidekick64/sidekicknet/network/scheduler"
)

// the dump is built from copies of the values rather than the live types.
// the live types refer to the byte queues and the graph of a full queue is
// not useful to anyone

type transfer struct {
	Disabled      bool
	Started       bool
	Offset        uint32
	Part          string
	LauncherReads int
}

type modem struct {
	Command      uint8
	Control      uint8
	Baud         int
	Response     uint8
	NMI          bool
	NMICountdown int
	NMIDelay     int
	KeepNMILow   int
	DMARelease   bool
	DMACountdown int
	Online       bool
}

type userport struct {
	State            string
	CommandID        uint8
	Length           int
	Remaining        int
	Response         uint8
	GotResponse      bool
	Direction        int
	DirectionChanges int
	Dropped          int
}

type queues struct {
	InboundLen  int
	OutboundLen int
}

type bus struct {
	HostCycles   uint64
	MissedCycles uint64
	Violations   int
	Resets       int
}

type sched struct {
	Running       bool
	Passes        uint64
	Slots         uint64
	NetworkActive bool
	DownloadReady bool
	Connected     bool
}

type state struct {
	Mode      string
	Bus       *bus
	Transfer  *transfer
	Modem     *modem
	Userport  *userport
	Queues    *queues
	Scheduler *sched
}

func view(sk *hardware.Sidekick, s *scheduler.Scheduler) *state {
	st := sk.Snapshot()

	v := &state{
		Mode: st.Mode.String(),
		Bus: &bus{
			HostCycles:   st.HostCycles,
			MissedCycles: st.MissedCycles,
			Violations:   st.Violations,
			Resets:       st.Resets,
		},
		Transfer: &transfer{
			Disabled:      st.Transfer.Disabled,
			Started:       st.Transfer.TransferStarted,
			Offset:        st.Transfer.CurrentOffset,
			Part:          st.Transfer.Part.String(),
			LauncherReads: st.Transfer.LauncherReads,
		},
		Modem: &modem{
			Command:      st.Modem.Command,
			Control:      st.Modem.Control,
			Baud:         st.Modem.BaudRate(),
			Response:     st.Modem.Response,
			NMI:          st.Modem.NMI(),
			NMICountdown: st.Modem.NMICountdown,
			NMIDelay:     st.Modem.NMIDelay(),
			KeepNMILow:   st.Modem.KeepNMILow,
			DMARelease:   st.Modem.DMAReleasePending,
			DMACountdown: st.Modem.DMACountdown,
			Online:       st.Modem.Online,
		},
		Userport: &userport{
			State:            st.Userport.State.String(),
			CommandID:        st.Userport.CommandID,
			Length:           st.Userport.Length,
			Remaining:        st.Userport.Remaining,
			Response:         st.Userport.Response,
			GotResponse:      st.Userport.GotResponse,
			Direction:        int(st.Userport.Direction),
			DirectionChanges: st.Userport.DirectionChanges,
			Dropped:          st.Userport.Dropped,
		},
		Queues: &queues{
			InboundLen:  st.InboundLen,
			OutboundLen: st.OutboundLen,
		},
	}

	if s != nil {
		v.Scheduler = &sched{
			Running:       s.Running(),
			Passes:        s.Passes,
			Slots:         s.Slots,
			NetworkActive: s.IsNetworkActive(),
			DownloadReady: s.IsDownloadReady(),
			Connected:     s.Session().Connected,
		}
	}

	return v
}

// Dump writes the state of the emulation to w. The scheduler may be nil.
func Dump(w io.Writer, sk *hardware.Sidekick, s *scheduler.Scheduler) {
	memviz.Map(w, view(sk, s))
}
