// Package notify delivers event outcomes to the person who submitted the
// MCT request. A Notifier always receives the full event snapshot so the
// message can summarise every pipeline task, not only the one that
// triggered the outcome. Transports (SES email, Kafka) live under
// internal/platform; AsyncNotifier moves delivery onto the task runner.
package notify
