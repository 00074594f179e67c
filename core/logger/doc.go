// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON so logs can be tailed,
// grepped, and replayed without any special tooling.
package logger
