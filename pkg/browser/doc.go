// Package browser abstracts the page-rendering capability the harvester
// drives: navigating to URLs, reading the materialized DOM of a
// dynamically rendered page, and triggering the scroll events that make
// an infinite-scroll listing reveal more content.
//
// The Surface and Element interfaces are what the rest of the codebase
// depends on; Chrome is the production implementation, driving a real
// Chrome session over the DevTools protocol via chromedp. Tests exercise
// the core against in-memory fakes of these interfaces.
package browser
