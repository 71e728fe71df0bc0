// Package xpath turns fetched site HTML into chapter, page and image records
// using the XPath rules from providers.Rules. Absence of data is reported as a
// boolean, never as an error, so callers can branch per level.
package xpath
