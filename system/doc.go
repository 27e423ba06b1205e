// Package system provides frame timing and the logging and time functions
// scripts reach through the system module.
package system
