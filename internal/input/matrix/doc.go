// Package matrix scans a row/column switch matrix.
//
// The scanner drives one row line active at a time, waits a short settle
// delay, and reads every column line. A closed switch connects its row to its
// column, so the column reads active while that row is driven. The resulting
// Frame lists the codes of every closed position for one scan cycle.
//
// Line access goes through the Driver interface so the scanner runs against
// real GPIO, the in-memory MemoryDriver used by tests, or the terminal
// simulator.
//
// The scanner keeps no state between scans. Read errors are counted and the
// affected position reads open; nothing is reported to the caller since a
// polling sensor has no feedback channel.
package matrix
