// Package notify delivers run summaries to interested channels.
//
// The engine calls a Notifier at most once per run for success and at most
// once per run for failure. Delivery failures are logged and swallowed: a
// broken notification channel must never fail a cleanup run that already
// completed.
package notify
