// Package driven defines the driven ports (secondary adapters' interfaces)
// for Paymate. These are the contracts the core services depend on:
// token persistence, configuration, the wallet provider and the
// interactive authorization flow.
package driven
