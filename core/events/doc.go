// Package events publishes picking domain events to Kafka.
//
// Each processed scan and each closed session becomes one JSON message keyed by
// order ID, so downstream consumers (order backend, dashboards) see the events
// of one order in order. When Kafka is disabled in configuration a no-op
// publisher is returned and callers need no special casing.
package events
