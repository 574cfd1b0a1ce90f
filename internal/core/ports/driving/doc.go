// Package driving defines the driving ports (primary interfaces) of
// the hexagonal architecture: the surfaces the CLI and HTTP adapters
// call into the core through.
package driving
