// This file is part of ts7200.
//
// ts7200 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ts7200 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ts7200.  If not, see <https://www.gnu.org/licenses/>.

package faults

import (
	"fmt"
	"io"
	"sort"

	"github.com/ts7200emu/ts7200/curated"
)

// Sentinel patterns for the two kinds of host level error. Use the Is() and
// Has() functions of the curated package or the helper functions below to
// classify an error.
const (
	ContractViolation = "contract violation: %v"
	FatalFault        = "fatal fault: %v"
)

// Violation returns a new ContractViolation error.
func Violation(detail string, args ...any) error {
	return curated.Errorf(ContractViolation, fmt.Sprintf(detail, args...))
}

// Fatal returns a new FatalFault error.
func Fatal(detail string, args ...any) error {
	return curated.Errorf(FatalFault, fmt.Sprintf(detail, args...))
}

// IsViolation returns true if the error chain contains a ContractViolation and
// no FatalFault.
func IsViolation(err error) bool {
	return curated.Has(err, ContractViolation) && !curated.Has(err, FatalFault)
}

// IsFatal returns true if the error chain contains a FatalFault.
func IsFatal(err error) bool {
	return curated.Has(err, FatalFault)
}

// Category of an entry in the Log.
type Category string

// List of valid Category values.
const (
	CategoryViolation Category = "violation"
	CategoryFatal     Category = "fatal"
)

// Entry is a single entry in the fault log.
type Entry struct {
	Category Category

	// description of the event. the description includes the device and
	// register but not the addresses, which are stored separately
	Event string

	// addresses related to the fault
	InstructionAddr uint32
	AccessAddr      uint32

	// number of times this specific fault has been seen
	Count int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s: %08x (PC: %08x) x%d", e.Category, e.Event, e.AccessAddr, e.InstructionAddr, e.Count)
}

type key struct {
	event           string
	instructionAddr uint32
	accessAddr      uint32
}

// Log records every fault raised during emulation. Repeated faults from the
// same instruction for the same address are folded into one entry.
type Log struct {
	entries map[key]*Entry

	// entries in order of first appearance
	List []*Entry
}

// NewLog is the preferred method of initialisation for the Log type.
func NewLog() *Log {
	return &Log{
		entries: make(map[key]*Entry),
	}
}

// NewEntry adds an entry to the log, or increases the count of an existing
// entry. Returns true if the entry is seen for the first time.
func (l *Log) NewEntry(category Category, event string, instructionAddr uint32, accessAddr uint32) bool {
	k := key{event: event, instructionAddr: instructionAddr, accessAddr: accessAddr}

	e, found := l.entries[k]
	if !found {
		e = &Entry{
			Category:        category,
			Event:           event,
			InstructionAddr: instructionAddr,
			AccessAddr:      accessAddr,
		}
		l.entries[k] = e
		l.List = append(l.List, e)
	}

	e.Count++

	return !found
}

// Total returns the total number of faults recorded, including repeats.
func (l *Log) Total() int {
	n := 0
	for _, e := range l.List {
		n += e.Count
	}
	return n
}

// Clear all entries from the log.
func (l *Log) Clear() {
	clear(l.entries)
	l.List = l.List[:0]
}

// WriteLog writes the list of faults in the order they were first seen.
func (l *Log) WriteLog(w io.Writer) {
	for _, e := range l.List {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}

// WriteSummary writes the list of faults ordered by how often they were seen.
func (l *Log) WriteSummary(w io.Writer) {
	s := make([]*Entry, len(l.List))
	copy(s, l.List)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Count > s[j].Count
	})
	for _, e := range s {
		io.WriteString(w, e.String())
		io.WriteString(w, "\n")
	}
}
