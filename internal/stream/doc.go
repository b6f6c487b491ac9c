// Package stream implements the token cursor the parser consumes.
//
// The cursor keeps one token of lookahead (Current) and the token consumed by
// the previous advance (LastToken). Comment tokens never reach either of them.
// PushState/PopState form a bounded stack of snapshots used for transactional
// backtracking: a failed alternative restores the snapshot, a committed one
// drops it and keeps the current position.
package stream
