package domain

// RoomID is the externally supplied room identifier. Validated flows
// constrain it to 3-64 characters, the core accepts any non-empty string.
type RoomID string
