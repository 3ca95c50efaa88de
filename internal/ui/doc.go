// Package ui contains the Bubble Tea program that hosts the keypad.
// The Model type focuses on message orchestration, while dedicated helpers
// own pointer input, keyboard input, search and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled by
//     a focused function.
//   - Mouse messages become pointer events for the gesture.Machine
//     (internal/ui/pointer.go). A press schedules a hold timer with tea.Tick;
//     the tick comes back as a holdMsg tagged with the gesture ID.
//   - Taps and selections the machine emits edit the entry at once, in input
//     order. The remaining events go through the internal/ui/command bus as
//     one sequence-numbered EventsMsg per input; the model applies those in
//     sequence order and holds back any that overtake an earlier one.
//   - Keyboard helpers (internal/ui/input.go) move the grid focus, tap the
//     focused key and edit the entry line. The search prompt
//     (internal/ui/search.go) owns text entry while it is open.
//
// State ownership:
//   - The entry line, grid focus and search matches live in
//     internal/ui/state.
//   - Gesture state lives in the gesture.Machine; the view only reads copies
//     of its Session.
package ui
