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

package userport_test

import (
	"testing"

	"github.com/sidekick64/sidekicknet/hardware/irq"
	"github.com/sidekick64/sidekicknet/hardware/queue"
	"github.com/sidekick64/sidekicknet/hardware/userport"
	"github.com/sidekick64/sidekicknet/test"
)

func newUserport() (*userport.Userport, *irq.Controller, *queue.ByteQueue) {
	c := irq.NewController()
	in := queue.NewByteQueue(256)
	out := queue.NewByteQueue(256)
	return userport.NewUserport(c, in, out), c, in
}

func frame(cmd uint8, payload string) []uint8 {
	n := len(payload) + userport.HeaderLength
	f := []uint8{userport.CommandMagic, uint8(n), uint8(n >> 8), cmd}
	return append(f, payload...)
}

func TestFraming(t *testing.T) {
	u, c, _ := newUserport()

	f := frame(1, "http://example.com/index.html")
	for i, b := range f {
		test.ExpectInequality(t, u.State, userport.Complete, i)
		u.Write(userport.RegisterData, b)
	}
	test.ExpectEquality(t, u.State, userport.Complete)
	test.ExpectEquality(t, u.CommandID, uint8(1))

	c.Critical(func() {
		cmd, payload, ok := u.TakeCommand()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, cmd, uint8(1))
		test.ExpectEquality(t, string(payload), "http://example.com/index.html")

		// completion is one-shot
		_, _, ok = u.TakeCommand()
		test.ExpectFailure(t, ok)
	})
	test.ExpectEquality(t, u.State, userport.AwaitingMagic)
	test.ExpectEquality(t, c.Violations(), 0)
}

func TestFramingLong(t *testing.T) {
	c := irq.NewController()
	u := userport.NewUserport(c, queue.NewByteQueue(256), queue.NewByteQueue(512))

	// length high byte is significant
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = uint8(i)
	}
	f := frame(9, string(payload))
	test.ExpectEquality(t, f[2], uint8(1))

	for _, b := range f[:len(f)-1] {
		u.Write(userport.RegisterData, b)
	}
	test.ExpectEquality(t, u.State, userport.Payload)
	test.ExpectEquality(t, u.Remaining, 1)
	u.Write(userport.RegisterData, f[len(f)-1])
	test.ExpectEquality(t, u.State, userport.Complete)
	test.ExpectEquality(t, u.Dropped, 0)

	c.Critical(func() {
		_, p, ok := u.TakeCommand()
		test.ExpectSuccess(t, ok)
		test.DemandEquality(t, len(p), 300)
		test.ExpectEquality(t, p[299], uint8(299&0xff))
	})
}

func TestPayloadOverflow(t *testing.T) {
	u, c, _ := newUserport()

	payload := make([]byte, 300)
	for _, b := range frame(1, string(payload)) {
		u.Write(userport.RegisterData, b)
	}
	test.ExpectEquality(t, u.State, userport.Complete)
	test.ExpectEquality(t, u.Dropped, 44)

	c.Critical(func() {
		_, p, ok := u.TakeCommand()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, len(p), 256)
	})

	// the count survives until the next frame begins
	test.ExpectEquality(t, u.Dropped, 44)
	u.Write(userport.RegisterData, userport.CommandMagic)
	test.ExpectEquality(t, u.Dropped, 0)
}

func TestEmptyPayload(t *testing.T) {
	u, _, _ := newUserport()
	for _, b := range frame(6, "") {
		u.Write(userport.RegisterData, b)
	}
	test.ExpectEquality(t, u.State, userport.Complete)
	test.ExpectEquality(t, u.CommandID, uint8(6))
}

func TestNoiseBeforeMagic(t *testing.T) {
	u, _, _ := newUserport()
	u.Write(userport.RegisterData, 0x00)
	u.Write(userport.RegisterData, 0x41)
	test.ExpectEquality(t, u.State, userport.AwaitingMagic)
	u.Write(userport.RegisterData, userport.CommandMagic)
	test.ExpectEquality(t, u.State, userport.LengthLow)
}

func TestResponse(t *testing.T) {
	u, c, in := newUserport()

	for _, b := range frame(10, "") {
		u.Write(userport.RegisterData, b)
	}

	// command complete and nothing to read
	test.ExpectEquality(t, u.Read(userport.RegisterHandshake), uint8(userport.HandshakeWaiting))

	c.Critical(func() {
		u.TakeCommand()
		u.SetResponse([]byte("wlan"))
	})
	test.ExpectEquality(t, in.Len(), 7)

	var got []uint8
	for i := 0; i < 7; i++ {
		c.Critical(u.LoadResponse)
		test.ExpectEquality(t, u.Read(userport.RegisterHandshake), uint8(userport.HandshakeReady))
		got = append(got, u.Read(userport.RegisterData))
	}
	test.ExpectEquality(t, string(got), "\x41\x00\x04wlan")
	test.ExpectSuccess(t, in.Empty())
}

func TestResponseCleared(t *testing.T) {
	u, c, _ := newUserport()

	c.Critical(func() {
		u.SetResponse([]byte("x"))
		u.LoadResponse()
	})
	test.ExpectEquality(t, u.Read(userport.RegisterData), uint8(userport.ResponseMagic))
	test.ExpectEquality(t, u.Read(userport.RegisterData), uint8(0))
	test.ExpectFailure(t, u.GotResponse)
}

func TestDirection(t *testing.T) {
	u, _, _ := newUserport()
	u.Write(userport.RegisterDirection, 0x08)
	u.Write(userport.RegisterDirection, 0x08)
	test.ExpectEquality(t, u.Direction, userport.HostReads)
	u.Write(userport.RegisterDirection, 0x00)
	test.ExpectEquality(t, u.Direction, userport.HostWrites)
	test.ExpectEquality(t, u.DirectionChanges, 2)

	u.Write(userport.RegisterMode, 0x00)
	test.ExpectEquality(t, u.Direction, userport.HostReads)
	u.Write(userport.RegisterMode, 0xff)
	test.ExpectEquality(t, u.Direction, userport.HostWrites)

	test.ExpectEquality(t, u.Read(userport.RegisterDirection), uint8(0))
}
