// Package supervisor starts the server under test, waits for it to report that it is ready,
// and tears it down again. It also runs the preprocessing tools that turn a map fixture into a
// dataset the server can load.
package supervisor
