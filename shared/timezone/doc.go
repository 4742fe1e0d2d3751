// Package timezone pins every calendar computation in the service to one location.
//
// Slot dates arrive from the booking API as plain YYYY-MM-DD strings with no offset,
// so "the same day" is only meaningful relative to the marketplace's own timezone:
//
//	day := timezone.Day(selected)            // "2024-03-09" in APP_TIMEZONE
//	t, err := timezone.ParseDay("2024-03-09") // midnight in APP_TIMEZONE
//
// The location is read from APP_TIMEZONE when the package is imported and falls back
// to UTC. Use IANA names such as "Africa/Nairobi" or "Europe/London".
package timezone
