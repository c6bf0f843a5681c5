// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Editors keep their document in local state and persist every change
// in the background. A failed write is reported once through the
// Notifier and never retried or rolled back, so local state can run
// ahead of the store until the next Load.
package services
