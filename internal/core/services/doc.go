// Package services implements the driving ports: the document library,
// the sync manager, the migration service and the playback engine.
// Services depend only on domain types and driven ports.
package services
