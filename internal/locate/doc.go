// Package locate discovers the URL of a captive portal.
//
// A captive network answers plain-HTTP requests to arbitrary hosts with a
// redirect to its login page. The Locator provokes that redirect with a
// request to a trigger URL that never upgrades to HTTPS, reads the Location
// header when there is one, and otherwise scans the returned page for a
// URL that looks like a portal.
package locate
