// Package notify delivers circulation notifications.
//
// LogNotifier writes them to a structured logger, AMQPPublisher publishes them as JSON to a
// RabbitMQ topic exchange for a separate delivery service, and Multi fans one notification out to
// several notifiers.
package notify
