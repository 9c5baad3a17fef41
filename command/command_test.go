package command_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohsenpakzad/memscan/command"
	"github.com/mohsenpakzad/memscan/region"
	"github.com/mohsenpakzad/memscan/session"
	"github.com/mohsenpakzad/memscan/target"
)

type fakeAdapter struct{ procs map[int]*fakeHandle }

func (a *fakeAdapter) EnumerateProcessIDs() ([]int, error) {
	var pids []int
	for pid := range a.procs {
		pids = append(pids, pid)
	}
	return pids, nil
}

func (a *fakeAdapter) Open(pid int) (target.Handle, error) {
	h, ok := a.procs[pid]
	if !ok {
		return nil, fmt.Errorf("no such process %d", pid)
	}
	return h, nil
}

type fakeHandle struct {
	name string
	mem  []byte
	base uintptr
}

func (h *fakeHandle) FirstModuleName() (string, error) { return h.name, nil }
func (h *fakeHandle) EnumerateRegions() ([]region.Descriptor, error) {
	return []region.Descriptor{{Base: h.base, ByteSize: uintptr(len(h.mem)), Protect: target.PageReadWrite}}, nil
}
func (h *fakeHandle) Read(addr uintptr, n int) ([]byte, error) {
	off := addr - h.base
	return h.mem[off : off+uintptr(n)], nil
}
func (h *fakeHandle) Write(addr uintptr, data []byte) (int, error) {
	off := addr - h.base
	copy(h.mem[off:], data)
	return len(data), nil
}
func (h *fakeHandle) Close() error { return nil }

func le32(v int32) []byte {
	b := make([]byte, 4)
	binary.NativeEndian.PutUint32(b, uint32(v))
	return b
}

func newFixture() *fakeAdapter {
	mem := append(append(le32(42), le32(42)...), le32(1)...)
	return &fakeAdapter{procs: map[int]*fakeHandle{7: {name: "target.exe", base: 0x1000, mem: mem}}}
}

func TestFirstScanRejectsMismatchedValueType(t *testing.T) {
	sess := session.New()
	err := command.FirstScan(sess, newFixture(), 7, command.TypeI64,
		command.ScanInfo{Typ: command.ScanExact, Value: command.ScanValue{Exact: "42"}})
	assert.Error(t, err)
}

func TestFirstScanAndShow(t *testing.T) {
	sess := session.New()
	require.NoError(t, command.FirstScan(sess, newFixture(), 7, command.TypeI32,
		command.ScanInfo{Typ: command.ScanExact, Value: command.ScanValue{Exact: "42"}}))

	total, entries, err := command.GetLastScan(sess, command.TypeI32, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)
}

func TestNextScanNarrowsViaCommandSurface(t *testing.T) {
	sess := session.New()
	adapter := newFixture()
	require.NoError(t, command.FirstScan(sess, adapter, 7, command.TypeI32,
		command.ScanInfo{Typ: command.ScanUnknown}))

	require.NoError(t, command.NextScan(sess, command.TypeI32,
		command.ScanInfo{Typ: command.ScanExact, Value: command.ScanValue{Exact: "42"}}))

	total, _, err := command.GetLastScan(sess, command.TypeI32, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestWriteValueThroughCommandSurface(t *testing.T) {
	sess := session.New()
	adapter := newFixture()
	require.NoError(t, command.FirstScan(sess, adapter, 7, command.TypeI32,
		command.ScanInfo{Typ: command.ScanExact, Value: command.ScanValue{Exact: "42"}}))

	n, err := command.WriteValue(sess, command.TypeI32, 0x1000, "7")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestInRangeRequiresStartAndEnd(t *testing.T) {
	sess := session.New()
	err := command.FirstScan(sess, newFixture(), 7, command.TypeI32,
		command.ScanInfo{Typ: command.ScanInRange})
	assert.Error(t, err)
}

func TestGetOpenedProcessAndClear(t *testing.T) {
	sess := session.New()
	adapter := newFixture()
	require.NoError(t, command.FirstScan(sess, adapter, 7, command.TypeI32,
		command.ScanInfo{Typ: command.ScanUnknown}))

	proc, ok := command.GetOpenedProcess(sess)
	require.True(t, ok)
	assert.Equal(t, 7, proc.PID)

	command.ClearLastScan(sess)
	total, _, _ := command.GetLastScan(sess, command.TypeI32, 10, 0)
	assert.Equal(t, 0, total)
}
