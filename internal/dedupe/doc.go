// Package dedupe remembers recently seen submission keys so a form posted
// twice (double click, htmx retry) is applied once.
package dedupe
