// Package editor is the shared context behind every front end.
//
// An [Editor] owns the layout store, the viewport, the interaction machine,
// undo history, recents and the photos assigned to slots. All state is
// guarded by one mutex; rendering runs outside it on a deep snapshot, so
// exports never observe a half-applied edit.
//
// Every discrete mutation that changes slots or elements records a history
// entry, including the end of a drag and keyboard nudges. Pointer moves
// during a drag do not; the entry is taken when the pointer is released.
//
// Front ends observe changes with [Editor.Subscribe]. Callbacks run on the
// goroutine that made the change, after the lock is released.
package editor
