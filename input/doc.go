// Package input queues pointer events and dispatches them to listeners
// once per frame.
package input
