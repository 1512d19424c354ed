// Package extract contains the DOM and text helpers shared by the site
// parsers. Every function is a pure function of its arguments.
package extract
