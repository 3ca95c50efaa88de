// Package layout holds the pure geometry behind the keypad: packing keys
// into rows, arranging pads into a grid of key frames, placing a popup pad
// above its owning key and resolving which popup option sits under a
// pointer.
//
// Every function is a computation over its arguments. Nothing here keeps
// state between calls, so callers may re-run any of them on every pointer
// event.
package layout
