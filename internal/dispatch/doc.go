// Package dispatch hands a rendered plan to an external orchestrator over
// socket.io.
//
// A Publisher connects with the WebSocket transport, emits the plan payload
// once the connection is up and waits for the orchestrator to acknowledge it
// on a second event. Failed attempts are retried with exponential backoff.
// An acknowledgement carrying an "error" field is a rejection and is not
// retried.
package dispatch
