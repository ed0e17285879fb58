// Package todo holds the task record and the in-memory task store.
//
// The store is the single source of truth during a session. It owns an
// insertion-ordered slice of tasks and a monotonically increasing id
// counter, and hands both to a Persister after every mutation:
//
//	store := todo.NewStore(adapter)
//	store.Initialize(adapter.Load(ctx))
//	task, err := store.Add(ctx, "Buy milk")
//
// # Task Text
//
// Task text must be non-empty and at most MaxTextLength characters, counted
// in Unicode code points. Callers trim user input before handing it to the
// store; the store stores text verbatim.
//
// # Ids
//
// Ids are positive integers minted from the counter. The counter only ever
// increases, so ids are never reused within a session even after deletes.
// Ids loaded from storage are taken as-is; duplicates are not rejected.
//
// # Concurrency
//
// Store is not safe for concurrent use. Every mutation is expected to run to
// completion on a single event loop before the next one starts.
package todo
